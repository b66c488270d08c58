package listctl

import (
	"testing"
	"time"

	"github.com/dalemusser/nursinghub/internal/domain/models"
)

func TestRegistry_GetReusesController(t *testing.T) {
	reg := NewRegistry()
	builds := 0
	build := func() *Controller[models.Hall, models.HallDraft] {
		builds++
		return New[models.Hall, models.HallDraft](&fakeBackend{}, hallOptions())
	}

	a := Get(reg, "s1", "halls", build)
	b := Get(reg, "s1", "halls", build)
	if a != b {
		t.Error("expected the same controller for the same session and resource")
	}
	if builds != 1 {
		t.Errorf("builds = %d, want 1", builds)
	}

	c := Get(reg, "s2", "halls", build)
	if c == a {
		t.Error("sessions must not share controllers")
	}
	if reg.Len() != 2 {
		t.Errorf("Len = %d, want 2", reg.Len())
	}
}

func TestRegistry_Drop(t *testing.T) {
	reg := NewRegistry()
	build := func() *Controller[models.Hall, models.HallDraft] {
		return New[models.Hall, models.HallDraft](&fakeBackend{}, hallOptions())
	}
	Get(reg, "s1", "halls", build)
	Get(reg, "s1", "attendance", build)
	Get(reg, "s2", "halls", build)

	if n := reg.Drop("s1"); n != 2 {
		t.Errorf("Drop = %d, want 2", n)
	}
	if reg.Len() != 1 {
		t.Errorf("Len = %d, want 1", reg.Len())
	}
	if n := reg.Drop("missing"); n != 0 {
		t.Errorf("Drop(missing) = %d", n)
	}
}

func TestRegistry_Sweep(t *testing.T) {
	reg := NewRegistry()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }

	build := func() *Controller[models.Hall, models.HallDraft] {
		return New[models.Hall, models.HallDraft](&fakeBackend{}, hallOptions())
	}
	Get(reg, "old", "halls", build)

	now = now.Add(45 * time.Minute)
	Get(reg, "fresh", "halls", build)

	now = now.Add(20 * time.Minute)
	if n := reg.Sweep(time.Hour); n != 1 {
		t.Errorf("Sweep = %d, want 1", n)
	}
	if reg.Len() != 1 {
		t.Errorf("Len = %d, want 1", reg.Len())
	}
}
