package repository

import "time"

// Layout is a named, stored layout snapshot. Tree holds the JSON encoded
// panel tree.
type Layout struct {
	Name      string
	Tree      []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LayoutRevision is one earlier state of a layout, recorded on save.
// Restores is set on revisions written by a revert and holds the id of the
// revision that was restored.
type LayoutRevision struct {
	ID         string
	LayoutName string
	Op         string
	Tree       []byte
	Restores   string
	CreatedAt  time.Time
}
