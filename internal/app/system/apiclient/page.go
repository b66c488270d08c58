package apiclient

import (
	"bytes"
	"encoding/json"
)

// Page is the API's paginated list envelope.
type Page[T any] struct {
	Data        []T `json:"data"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	Total       int `json:"total"`
	PerPage     int `json:"per_page,omitempty"`
}

// Envelope decodes a single record that may or may not be wrapped
// in {"data": ...}.
type Envelope[T any] struct {
	Data    T
	Message string
}

func (e *Envelope[T]) UnmarshalJSON(b []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(b, &probe); err == nil {
		if d, ok := probe["data"]; ok && !bytes.Equal(bytes.TrimSpace(d), []byte("null")) {
			if m, ok := probe["message"]; ok {
				_ = json.Unmarshal(m, &e.Message)
			}
			return json.Unmarshal(d, &e.Data)
		}
	}
	return json.Unmarshal(b, &e.Data)
}
