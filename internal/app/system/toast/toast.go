// Package toast defines the transient notifications shown after an action.
package toast

// Variant controls a toast's styling.
type Variant string

const (
	Default     Variant = "default"
	Destructive Variant = "destructive"
)

// Toast is a one-shot notification carried across a redirect.
type Toast struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Variant     Variant `json:"variant,omitempty"`
}

// Success builds a default toast.
func Success(title, desc string) Toast {
	return Toast{Title: title, Description: desc, Variant: Default}
}

// Failure builds a destructive toast.
func Failure(title, desc string) Toast {
	return Toast{Title: title, Description: desc, Variant: Destructive}
}
