package entities

import "time"

// Meta holds the identity every stored document carries.
type Meta struct {
	ID           string    `json:"_id"`
	CreationTime time.Time `json:"_creationTime"`
}

// DocMeta lets the store stamp id and creation time on insert.
func (m *Meta) DocMeta() *Meta { return m }
