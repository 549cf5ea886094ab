package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-resize/pkg/imageresize"
)

// Handler exposes derivative resolution over HTTP
type Handler struct {
	service imageresize.Service
	logger  *slog.Logger
}

// NewHandler creates a new resize handler
func NewHandler(service imageresize.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Routes returns the router for resize endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/resize", h.Resize)
	r.Get("/r/{action}/{size}/*", h.Redirect)
	return r
}

// ResizeResponse carries either the derivative URL or its storage path
type ResizeResponse struct {
	URL  string `json:"url,omitempty"`
	Path string `json:"path,omitempty"`
}

// ErrorResponse is returned for rejected requests
type ErrorResponse struct {
	Error string `json:"error"`
}

// Resize resolves a derivative from query parameters
//
//	GET /resize?path=images/cat.jpg&w=200&h=100&action=fit&mode=url
func (h *Handler) Resize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	width, err := parseDimension(q.Get("w"))
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, "invalid width", err)
		return
	}
	height, err := parseDimension(q.Get("h"))
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, "invalid height", err)
		return
	}

	req := imageresize.Request{
		Path:   q.Get("path"),
		Width:  width,
		Height: height,
		Action: q.Get("action"),
		Secure: isSecure(r),
	}

	var resp ResizeResponse
	switch mode := q.Get("mode"); mode {
	case "", "url":
		resp.URL = h.service.URL(r.Context(), req)
	case "path":
		resp.Path = h.service.StoragePath(r.Context(), req)
	default:
		h.fail(w, r, http.StatusBadRequest, "invalid mode", fmt.Errorf("unknown mode %q", mode))
		return
	}

	if resp.URL == "" && resp.Path == "" {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, ErrorResponse{Error: "derivative unavailable"})
		return
	}
	render.JSON(w, r, resp)
}

// Redirect resolves a derivative and redirects to its URL
//
//	GET /r/fit/200x100/images/cat.jpg
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	width, height, err := parseSize(chi.URLParam(r, "size"))
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, "invalid size", err)
		return
	}

	u := h.service.URL(r.Context(), imageresize.Request{
		Path:   chi.URLParam(r, "*"),
		Width:  width,
		Height: height,
		Action: chi.URLParam(r, "action"),
		Secure: isSecure(r),
	})
	if u == "" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, u, http.StatusFound)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	h.logger.Debug("rejected resize request", "uri", r.RequestURI, "msg", msg, "err", err)
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: msg})
}

// parseSize splits a "<width>x<height>" segment; either side may be empty
func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q is not of the form <width>x<height>", s)
	}
	width, err := parseDimension(ws)
	if err != nil {
		return 0, 0, err
	}
	height, err := parseDimension(hs)
	if err != nil {
		return 0, 0, err
	}
	return width, height, nil
}

func parseDimension(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("dimension %q: %w", s, err)
	}
	return n, nil
}

// isSecure reports whether the client reached us over TLS, directly or
// through a proxy that sets X-Forwarded-Proto
func isSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
