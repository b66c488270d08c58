// Package formutil carries the state a draft form needs when it is
// re-rendered after a failed submit: the page chrome, the echoed values, and
// one error message.
//
//	type hallFormData struct {
//		formutil.Base
//		Draft models.HallDraft
//	}
//
//	data := hallFormData{Draft: draft}
//	formutil.SetBase(&data.Base, r, "New Hall", "/halls")
//	data.SetErrorFrom(err, "Unable to save the hall.")
//	templates.Render(w, r, "hall_form", data)
package formutil

import (
	"errors"
	"net/http"

	"github.com/dalemusser/nursinghub/internal/app/system/inputval"
	"github.com/dalemusser/nursinghub/internal/app/system/listctl"
	"github.com/dalemusser/nursinghub/internal/app/system/usermsg"
	"github.com/dalemusser/nursinghub/internal/app/system/viewdata"
)

// Base contains common fields for form pages.
type Base struct {
	viewdata.BaseVM
	Error string
	Field string // the field the error belongs to, when known
}

// SetBase populates the page chrome from the request.
func SetBase(b *Base, r *http.Request, title, backDefault string) {
	b.BaseVM = viewdata.NewBaseVM(r, title, backDefault)
}

// SetError sets a plain message.
func (b *Base) SetError(msg string) {
	b.Error = msg
	b.Field = ""
}

// SetErrorFrom maps err to the message shown above the form and remembers
// which field failed for local validation errors.
func (b *Base) SetErrorFrom(err error, fallback string) {
	b.Error = usermsg.For(err, fallback)
	b.Field = ""

	var lve *listctl.ValidationError
	var ive *inputval.Error
	switch {
	case errors.As(err, &lve):
		b.Field = lve.Field
	case errors.As(err, &ive):
		b.Field = ive.Field
	}
}

// HasError reports whether an error is set.
func (b *Base) HasError() bool { return b.Error != "" }

// FieldHasError reports whether the error belongs to field.
func (b *Base) FieldHasError(field string) bool { return b.Error != "" && b.Field == field }
