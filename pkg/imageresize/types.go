package imageresize

import (
	"fmt"
	"strings"
)

// Action is the scaling policy of a derivative
type Action string

const (
	// ActionFit crops to the requested aspect ratio and scales down
	ActionFit Action = "fit"

	// ActionResize scales down to fit inside the requested box
	ActionResize Action = "resize"
)

// DefaultAction is used when a request names no action
const DefaultAction = ActionFit

// ParseAction validates an action name
func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(s)) {
	case ActionFit:
		return ActionFit, nil
	case ActionResize:
		return ActionResize, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAction, s)
	}
}

// TransformSpec describes a derivative. A non-positive dimension is absent.
type TransformSpec struct {
	Action Action
	Width  int
	Height int
}

// Validate checks that at least one dimension is positive
func (s TransformSpec) Validate() error {
	if s.Width < 1 && s.Height < 1 {
		return fmt.Errorf("%w: width or height must be positive", ErrInvalidInput)
	}
	return nil
}

// Request asks for a derivative of Path. Secure marks a request that arrived
// over TLS, so returned URLs use https.
type Request struct {
	Path   string
	Width  int
	Height int
	Action string
	Secure bool
}

func (r Request) action() string {
	if r.Action == "" {
		return string(DefaultAction)
	}
	return r.Action
}

// Result is the outcome of a resolution
type Result struct {
	// Path is the storage key of the derivative (empty for placeholders)
	Path string

	// URL is the public URL of the derivative or placeholder
	URL string

	// ContentType is set when the derivative was generated by this request
	ContentType string

	// Generated is set when the derivative was (re)generated by this request
	Generated bool

	// Placeholder is set when URL is a stand-in for a non-raster source
	Placeholder bool
}

// Derivative describes a stored derivative
type Derivative struct {
	Path        string
	ContentType string
	Size        int64
}
