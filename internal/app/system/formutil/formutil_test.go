package formutil

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/nursinghub/internal/app/system/apiclient"
	"github.com/dalemusser/nursinghub/internal/app/system/listctl"
	"github.com/dalemusser/nursinghub/internal/app/system/usermsg"
)

func TestSetErrorFrom(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantMsg   string
		wantField string
	}{
		{"local validation", &listctl.ValidationError{Field: "Hall name", Message: "Hall name is required."}, "Hall name is required.", "Hall name"},
		{"transport", apiclient.ErrTransport, usermsg.Transport, ""},
		{"api message", &apiclient.Error{Status: 422, Message: "Duplicate hall."}, "Duplicate hall.", ""},
		{"api without message", &apiclient.Error{Status: 500}, "Unable to save.", ""},
		{"plain error", errors.New("boom"), "Unable to save.", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Base
			b.SetErrorFrom(tt.err, "Unable to save.")
			if b.Error != tt.wantMsg {
				t.Errorf("Error = %q, want %q", b.Error, tt.wantMsg)
			}
			if b.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", b.Field, tt.wantField)
			}
		})
	}
}

func TestFieldHasError(t *testing.T) {
	var b Base
	SetBase(&b, httptest.NewRequest("GET", "/halls/new", nil), "New Hall", "/halls")
	if b.Title != "New Hall" {
		t.Errorf("Title = %q", b.Title)
	}
	if b.HasError() {
		t.Error("fresh form has no error")
	}
	b.SetErrorFrom(&listctl.ValidationError{Field: "Capacity", Message: "Capacity must be greater than 0."}, "")
	if !b.FieldHasError("Capacity") || b.FieldHasError("Hall name") {
		t.Error("FieldHasError mismatch")
	}
	b.SetError("Something else.")
	if b.FieldHasError("Capacity") {
		t.Error("SetError clears the field")
	}
}
