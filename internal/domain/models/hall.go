// internal/domain/models/hall.go
package models

// Hall is an examination / screening hall that candidates are assigned to.
type Hall struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Capacity int    `json:"capacity"`
	IsActive Flag   `json:"is_active"`
}

// HallDraft is the create/update form for a hall.
type HallDraft struct {
	Name     string `json:"name" validate:"required,max=120" label:"Hall name"`
	Location string `json:"location" validate:"max=200" label:"Location"`
	Capacity int    `json:"capacity" validate:"gt=0" label:"Capacity"`
}

// DraftFrom returns a draft pre-filled from an existing hall.
func (h Hall) DraftFrom() HallDraft {
	return HallDraft{Name: h.Name, Location: h.Location, Capacity: h.Capacity}
}
