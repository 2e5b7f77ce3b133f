package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/suvana/suvana/internal/app/system/auth"
	"github.com/suvana/suvana/internal/app/system/viewdata"
)

// RenderNotFound shows the 404 page. Non-HTML callers get a plain 404.
func RenderNotFound(w http.ResponseWriter, r *http.Request) {
	render(w, r, pageData{
		Code:    http.StatusNotFound,
		Heading: "404",
		Message: "Oops! Page not found",
	})
}

// RenderServerError shows a friendly failure page with status 500.
// Log the underlying error before calling it.
func RenderServerError(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		msg = "Something went wrong. Please try again."
	}
	render(w, r, pageData{
		Code:    http.StatusInternalServerError,
		Heading: "Something went wrong",
		Message: msg,
	})
}

func render(w http.ResponseWriter, r *http.Request, data pageData) {
	if !auth.WantsHTML(r) {
		http.Error(w, data.Message, data.Code)
		return
	}
	data.BaseVM = viewdata.NewBaseVM(w, r, nil, data.Heading, "/")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(data.Code)
	templates.RenderSnippet(w, "error_page", data)
}
