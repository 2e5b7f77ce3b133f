// Package formutil parses the create-pool form and carries its values back
// into the page when validation fails.
//
// When a submission is rejected the dashboard is re-rendered with:
//   - the values the user entered (echoed back as typed)
//   - an error message explaining what went wrong
//
// Example usage:
//
//	form := formutil.PoolFormFrom(r)
//	pp, err := form.Params()
//	if err != nil {
//		form.SetError(err.Error())
//		// re-render with form
//	}
package formutil

import (
	"fmt"
	"html"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/suvana/suvana/internal/domain/models"
)

// MaxNameLength bounds a custom pool name after sanitizing.
const MaxNameLength = 60

var strict = bluemonday.StrictPolicy()

// PoolForm holds the raw create-pool inputs.
type PoolForm struct {
	Name          string
	Size          string
	ShareAmount   string
	CycleDuration string
	Error         template.HTML
}

// DefaultPoolForm returns the form as first shown.
func DefaultPoolForm() PoolForm {
	return PoolFormFromParams(models.DefaultPoolParams())
}

// PoolFormFromParams renders params as form values.
func PoolFormFromParams(pp models.PoolParams) PoolForm {
	return PoolForm{
		Name:          pp.Name,
		Size:          strconv.Itoa(pp.Size),
		ShareAmount:   strconv.FormatFloat(pp.ShareAmount, 'f', -1, 64),
		CycleDuration: strconv.Itoa(pp.CycleDuration),
	}
}

// PoolFormFrom reads the create-pool fields from a parsed request
// (form body or query string).
func PoolFormFrom(r *http.Request) PoolForm {
	return PoolForm{
		Name:          strings.TrimSpace(r.FormValue("name")),
		Size:          strings.TrimSpace(r.FormValue("size")),
		ShareAmount:   strings.TrimSpace(r.FormValue("share_amount")),
		CycleDuration: strings.TrimSpace(r.FormValue("cycle_duration")),
	}
}

// Params converts and validates the inputs. Empty numeric fields fall back to
// the form defaults. The returned error wraps models.ErrInvalidPool.
func (f PoolForm) Params() (models.PoolParams, error) {
	pp := models.DefaultPoolParams()
	pp.Name = SanitizeName(f.Name)

	if f.Size != "" {
		n, err := strconv.Atoi(f.Size)
		if err != nil {
			return pp, fmt.Errorf("%w: pool size must be a whole number", models.ErrInvalidPool)
		}
		pp.Size = n
	}
	if f.ShareAmount != "" {
		v, err := strconv.ParseFloat(f.ShareAmount, 64)
		if err != nil {
			return pp, fmt.Errorf("%w: share amount must be a number", models.ErrInvalidPool)
		}
		pp.ShareAmount = v
	}
	if f.CycleDuration != "" {
		n, err := strconv.Atoi(f.CycleDuration)
		if err != nil {
			return pp, fmt.Errorf("%w: cycle duration must be a whole number of days", models.ErrInvalidPool)
		}
		pp.CycleDuration = n
	}
	return pp, pp.Validate()
}

// SetError sets the message shown above the form.
func (f *PoolForm) SetError(msg string) {
	f.Error = template.HTML(template.HTMLEscapeString(msg))
}

// SanitizeName strips markup from a user-supplied pool name, collapses
// whitespace and truncates it to MaxNameLength runes. The result is plain
// text; templates escape it on output.
func SanitizeName(s string) string {
	s = html.UnescapeString(strict.Sanitize(s))
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) > MaxNameLength {
		s = strings.TrimSpace(string([]rune(s)[:MaxNameLength]))
	}
	return s
}

// ErrorMessage returns the user-facing part of a validation error.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	return strings.TrimPrefix(err.Error(), models.ErrInvalidPool.Error()+": ")
}
