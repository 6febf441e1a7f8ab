package schema

// Record is a structured data item whose property values must conform to its
// owning database schema. The record references the database by ID and does
// not own it: when the database is gone or archived, validation fails closed.
type Record struct {
	// ID is a ULID that uniquely identifies this record
	ID string `json:"id"`

	// DatabaseID references the owning schema
	DatabaseID string `json:"database_id"`

	// Properties maps property name to its value
	Properties map[string]any `json:"properties"`

	// Archived marks records swept by a cascading database archive
	Archived bool `json:"archived,omitempty"`

	// CreatedAt is the Unix timestamp when the record was created
	CreatedAt int64 `json:"created_at,omitempty"`

	// UpdatedAt is the Unix timestamp when the record was last changed
	UpdatedAt int64 `json:"updated_at,omitempty"`
}

// HasValue reports whether the record carries a non-nil value for name.
func (r *Record) HasValue(name string) bool {
	v, ok := r.Properties[name]
	return ok && v != nil
}
