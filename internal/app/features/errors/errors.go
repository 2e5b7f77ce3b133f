package errors

import (
	"net/http"

	"github.com/suvana/suvana/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// pageData is the basic view model for error pages.
type pageData struct {
	viewdata.BaseVM
	Code    int
	Heading string
	Message string
}

// Handler is the errors feature handler.
// No store needed; it logs and renders templates.
type Handler struct {
	Log *zap.Logger
}

// NewHandler constructs an errors Handler.
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

// NotFound is the router's catch-all. It logs the path that was asked for
// and renders the 404 page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.Log.Warn("404 Error: user attempted to access non-existent route",
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method))
	RenderNotFound(w, r)
}
