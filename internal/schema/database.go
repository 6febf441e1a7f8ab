package schema

import (
	"fmt"
	"strings"
)

// LifecycleState tracks where a database schema sits in its lifecycle.
// A draft is unpersisted; created/updated schemas are live; archived schemas
// reject new records and fail record validation closed.
type LifecycleState string

const (
	StateDraft    LifecycleState = "draft"
	StateCreated  LifecycleState = "created"
	StateUpdated  LifecycleState = "updated"
	StateArchived LifecycleState = "archived"
)

// Database is a named, typed property definition governing structured records.
type Database struct {
	// ID is a ULID, empty while the schema is an unpersisted draft
	ID string `json:"id,omitempty"`

	// Title is the schema's display name
	Title string `json:"title"`

	// Description is an optional free-text description
	Description string `json:"description,omitempty"`

	// Properties is the ordered property list; names are unique (case-sensitive)
	Properties []Property `json:"properties"`

	// ParentID optionally references a containing page or workspace
	ParentID *string `json:"parent_id,omitempty"`

	// State is the lifecycle state
	State LifecycleState `json:"state"`

	// CreatedAt is the Unix timestamp when the schema was persisted
	CreatedAt int64 `json:"created_at,omitempty"`

	// UpdatedAt is the Unix timestamp of the last schema change
	UpdatedAt int64 `json:"updated_at,omitempty"`
}

// NewDatabase creates a draft schema and validates its invariants.
func NewDatabase(title, description string, properties []Property) (*Database, error) {
	d := &Database{
		Title:       title,
		Description: description,
		Properties:  properties,
		State:       StateDraft,
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate checks the schema invariants: non-empty title, at least one
// property, exactly one TITLE property, unique case-sensitive names, and
// each property's own configuration.
func (d *Database) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("database title cannot be empty")
	}
	if len(d.Properties) == 0 {
		return fmt.Errorf("database must have at least one property")
	}

	titleCount := 0
	seen := make(map[string]bool, len(d.Properties))
	for _, p := range d.Properties {
		if err := p.Validate(); err != nil {
			return err
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate property name: %q", p.Name)
		}
		seen[p.Name] = true
		if p.Type == TypeTitle {
			titleCount++
		}
	}
	if titleCount != 1 {
		return fmt.Errorf("database must have exactly one title property, found %d", titleCount)
	}
	return nil
}

// Property returns the named property definition, if present.
func (d *Database) Property(name string) (Property, bool) {
	for _, p := range d.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// TitleProperty returns the schema's single TITLE property.
func (d *Database) TitleProperty() (Property, bool) {
	for _, p := range d.Properties {
		if p.Type == TypeTitle {
			return p, true
		}
	}
	return Property{}, false
}

// IsArchived reports whether the schema has been archived.
func (d *Database) IsArchived() bool {
	return d.State == StateArchived
}

// PropertyChanges compares the current property list with an updated one and
// returns the added, removed, and retyped property names. Removed and retyped
// properties are the ones that can strand data in existing records.
func (d *Database) PropertyChanges(updated []Property) (added, removed, retyped []string) {
	current := make(map[string]Property, len(d.Properties))
	for _, p := range d.Properties {
		current[p.Name] = p
	}
	next := make(map[string]Property, len(updated))
	for _, p := range updated {
		next[p.Name] = p
	}

	for _, p := range d.Properties {
		np, ok := next[p.Name]
		if !ok {
			removed = append(removed, p.Name)
		} else if np.Type != p.Type {
			retyped = append(retyped, p.Name)
		}
	}
	for _, p := range updated {
		if _, ok := current[p.Name]; !ok {
			added = append(added, p.Name)
		}
	}
	return added, removed, retyped
}
