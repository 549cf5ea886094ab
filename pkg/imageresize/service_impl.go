package imageresize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tendant/simple-resize/pkg/imageresize/urlstrategy"
)

// Defaults
const (
	DefaultDerivativeRoot = "resized"
	DefaultCacheTTL       = 24 * time.Hour
	DefaultBrowserCache   = 30 * 24 * time.Hour
)

// service is the main implementation of the Service interface
type service struct {
	primary      Backend
	staging      Backend
	cache        Cache
	cacheTTL     time.Duration
	root         string
	browserCache time.Duration
	extensions   ExtensionTable
	transformer  Transformer
	urls         URLResolver
	videoURL     string
	fileURL      string
	logger       *slog.Logger
	now          func() time.Time

	times     *timestamps
	sources   *sourceResolver
	generator *generator
	stand     *placeholders
}

// Option is a function that configures the service
type Option func(*service)

// WithPrimary sets the backend holding sources and derivatives
func WithPrimary(b Backend) Option {
	return func(s *service) {
		s.primary = b
	}
}

// WithStaging sets the backend sources are promoted from when the primary lacks them
func WithStaging(b Backend) Option {
	return func(s *service) {
		s.staging = b
	}
}

// WithCache sets the metadata cache
func WithCache(c Cache) Option {
	return func(s *service) {
		s.cache = c
	}
}

// WithCacheTTL sets how long cached timestamps live
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *service) {
		s.cacheTTL = ttl
	}
}

// WithDerivativeRoot sets the prefix under which derivatives are stored
func WithDerivativeRoot(root string) Option {
	return func(s *service) {
		s.root = root
	}
}

// WithBrowserCache sets the max-age of stored objects
func WithBrowserCache(d time.Duration) Option {
	return func(s *service) {
		s.browserCache = d
	}
}

// WithExtensions sets the content type to extension table
func WithExtensions(t ExtensionTable) Option {
	return func(s *service) {
		s.extensions = t
	}
}

// WithTransformer sets the transform engine
func WithTransformer(t Transformer) Option {
	return func(s *service) {
		s.transformer = t
	}
}

// WithURLResolver sets how public URLs are built
func WithURLResolver(r URLResolver) Option {
	return func(s *service) {
		s.urls = r
	}
}

// WithPlaceholders sets the video and generic file placeholder URLs
func WithPlaceholders(video, file string) Option {
	return func(s *service) {
		s.videoURL = video
		s.fileURL = file
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(s *service) {
		s.logger = l
	}
}

// WithClock sets the time source used for Expires headers
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		cacheTTL:     DefaultCacheTTL,
		root:         DefaultDerivativeRoot,
		browserCache: DefaultBrowserCache,
		videoURL:     DefaultVideoPlaceholder,
		fileURL:      DefaultFilePlaceholder,
		now:          time.Now,
	}

	for _, option := range options {
		option(s)
	}

	if s.primary == nil {
		return nil, fmt.Errorf("primary backend is required")
	}
	if s.browserCache < 0 {
		return nil, fmt.Errorf("browser cache duration must not be negative")
	}
	if s.cache == nil {
		s.cache = NewNoopCache()
	}
	if s.extensions == nil {
		s.extensions = DefaultExtensions()
	}
	if s.transformer == nil {
		s.transformer = NewTransformer()
	}
	if s.urls == nil {
		s.urls = urlstrategy.New()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	policy := uploadPolicy{browserCache: s.browserCache, now: s.now}
	s.times = &timestamps{cache: s.cache, ttl: s.cacheTTL, logger: s.logger}
	s.sources = &sourceResolver{
		primary: s.primary,
		staging: s.staging,
		times:   s.times,
		policy:  policy,
		logger:  s.logger,
	}
	s.generator = &generator{
		primary:     s.primary,
		transformer: s.transformer,
		extensions:  s.extensions,
		times:       s.times,
		policy:      policy,
		logger:      s.logger,
	}
	s.stand = &placeholders{
		video: s.videoURL,
		file:  s.fileURL,
		urls:  s.urls,
		store: s.primary,
	}

	return s, nil
}

func (s *service) URL(ctx context.Context, req Request) string {
	res, err := s.Resolve(ctx, req)
	if err != nil {
		s.logFailure(ctx, req, err)
		return ""
	}
	return res.URL
}

func (s *service) StoragePath(ctx context.Context, req Request) string {
	res, err := s.resolve(ctx, req)
	if err != nil {
		s.logFailure(ctx, req, err)
		return ""
	}
	if res.Placeholder {
		return res.URL
	}
	return res.Path
}

func (s *service) Resolve(ctx context.Context, req Request) (*Result, error) {
	res, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	if res.Placeholder {
		return res, nil
	}

	u, err := s.urls.URLFor(ctx, s.primary, res.Path, req.Secure)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL for %s: %w", res.Path, err)
	}
	res.URL = u
	return res, nil
}

// resolve produces the derivative storage path, generating it when it is
// missing or older than its source. URLs are only filled in for placeholders.
func (s *service) resolve(ctx context.Context, req Request) (*Result, error) {
	source := strings.TrimLeft(req.Path, "/")
	if source == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidInput)
	}
	spec := TransformSpec{
		Action: Action(strings.ToLower(req.action())),
		Width:  req.Width,
		Height: req.Height,
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	provisional := DerivePath(s.root, source, string(spec.Action), spec.Width, spec.Height)

	targetTS, targetKnown := s.times.cached(ctx, provisional)
	sourceTS, sourceKnown := s.times.cached(ctx, source)

	// set once the source lookup has hit the backend in this resolution
	sourceRes, sourceLooked := lookupNotFound, false

	if !targetKnown {
		ts, res := s.times.fetch(ctx, s.primary, provisional)
		switch res {
		case lookupFound:
			targetTS, targetKnown = ts, true
		case lookupNotFound, lookupFailed:
			srcTS, srcRes, err := s.sources.Resolve(ctx, source)
			if err != nil {
				return nil, err
			}
			if srcRes == lookupNotFound {
				return nil, fmt.Errorf("%w: %s", ErrSourceUnavailable, source)
			}
			sourceRes, sourceLooked = srcRes, true
			if srcRes == lookupFound {
				sourceTS, sourceKnown = srcTS, true
			}
		}
	}

	if ext := Extension(source); !IsRaster(ext) {
		u, err := s.stand.placeholderFor(ctx, ext, source, req.Secure)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve placeholder for %s: %w", source, err)
		}
		return &Result{URL: u, Placeholder: true}, nil
	}

	if !sourceKnown {
		if !sourceLooked {
			sourceTS, sourceRes = s.times.fetch(ctx, s.primary, source)
		}
		if sourceRes != lookupFound {
			return nil, fmt.Errorf("%w: source %s (%s)", ErrMetadataUnavailable, source, sourceRes)
		}
	}

	if targetKnown && !targetTS.Before(sourceTS) {
		return &Result{Path: provisional}, nil
	}

	d, err := s.generator.Generate(ctx, source, spec, provisional)
	if err != nil {
		return nil, err
	}
	return &Result{Path: d.Path, ContentType: d.ContentType, Generated: true}, nil
}

func (s *service) logFailure(ctx context.Context, req Request, err error) {
	level := slog.LevelWarn
	if errors.Is(err, ErrInvalidInput) {
		level = slog.LevelDebug
	}
	s.logger.Log(ctx, level, "derivative resolution failed",
		"path", req.Path, "width", req.Width, "height", req.Height, "action", req.Action, "err", err)
}
