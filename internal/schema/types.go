package schema

import (
	"fmt"
	"strings"
)

// PropertyType enumerates the supported property types for database schemas.
type PropertyType string

const (
	TypeTitle       PropertyType = "title"
	TypeRichText    PropertyType = "rich_text"
	TypeNumber      PropertyType = "number"
	TypeSelect      PropertyType = "select"
	TypeMultiSelect PropertyType = "multi_select"
	TypeDate        PropertyType = "date"
	TypeCheckbox    PropertyType = "checkbox"
	TypeURL         PropertyType = "url"
	TypeEmail       PropertyType = "email"
)

// AllPropertyTypes lists every supported property type.
var AllPropertyTypes = []PropertyType{
	TypeTitle, TypeRichText, TypeNumber, TypeSelect, TypeMultiSelect,
	TypeDate, TypeCheckbox, TypeURL, TypeEmail,
}

// PropertyTypeFromString parses a property type from its string value.
func PropertyTypeFromString(s string) (PropertyType, error) {
	pt := PropertyType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllPropertyTypes {
		if pt == known {
			return pt, nil
		}
	}
	return "", fmt.Errorf("invalid property type: %q", s)
}

// String returns the string value of the property type.
func (pt PropertyType) String() string {
	return string(pt)
}

// NeedsOptions reports whether the type requires a configured option list.
func (pt PropertyType) NeedsOptions() bool {
	return pt == TypeSelect || pt == TypeMultiSelect
}
