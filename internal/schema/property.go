package schema

import (
	"fmt"
	"strings"
)

// SelectOption is one configured choice for a SELECT or MULTI_SELECT property.
type SelectOption struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Property defines one typed property in a database schema.
type Property struct {
	// Name is the property name, unique (case-sensitive) within a database
	Name string `json:"name"`

	// Type is the declared property type
	Type PropertyType `json:"type"`

	// Options is the configured choice list for SELECT/MULTI_SELECT
	Options []SelectOption `json:"options,omitempty"`

	// NumberFormat is an optional display format for NUMBER properties
	NumberFormat string `json:"number_format,omitempty"`

	// Required marks properties that must carry a value in every record
	Required bool `json:"required,omitempty"`
}

// NewProperty creates a property definition and validates its configuration.
func NewProperty(name string, pt PropertyType, opts ...PropertyOption) (Property, error) {
	p := Property{Name: name, Type: pt}
	for _, opt := range opts {
		opt(&p)
	}
	if err := p.Validate(); err != nil {
		return Property{}, err
	}
	return p, nil
}

// PropertyOption configures an optional aspect of a property definition.
type PropertyOption func(*Property)

// WithOptions sets the choice list for SELECT/MULTI_SELECT properties.
func WithOptions(names ...string) PropertyOption {
	return func(p *Property) {
		for _, name := range names {
			p.Options = append(p.Options, SelectOption{Name: name})
		}
	}
}

// WithRequired marks the property as required.
func WithRequired() PropertyOption {
	return func(p *Property) { p.Required = true }
}

// WithNumberFormat sets the display format for NUMBER properties.
func WithNumberFormat(format string) PropertyOption {
	return func(p *Property) { p.NumberFormat = format }
}

// Validate checks the property definition itself (not values against it).
func (p Property) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("property name cannot be empty")
	}
	valid := false
	for _, known := range AllPropertyTypes {
		if p.Type == known {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("property %q: invalid type %q", p.Name, p.Type)
	}
	if p.Type.NeedsOptions() && len(p.Options) == 0 {
		return fmt.Errorf("property %q: %s requires at least one option", p.Name, p.Type)
	}
	return nil
}

// HasOption reports whether name is one of the configured choices.
func (p Property) HasOption(name string) bool {
	for _, opt := range p.Options {
		if opt.Name == name {
			return true
		}
	}
	return false
}

// OptionNames returns the configured choice names in order.
func (p Property) OptionNames() []string {
	names := make([]string, 0, len(p.Options))
	for _, opt := range p.Options {
		names = append(names, opt.Name)
	}
	return names
}
