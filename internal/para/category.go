package para

import (
	"fmt"
	"strings"
)

// Category represents a PARA methodology category.
type Category string

const (
	CategoryProject  Category = "project"
	CategoryArea     Category = "area"
	CategoryResource Category = "resource"
	CategoryArchive  Category = "archive"
)

// AllCategories lists every valid category in canonical order.
var AllCategories = []Category{
	CategoryProject,
	CategoryArea,
	CategoryResource,
	CategoryArchive,
}

// categoryTransitions encodes the legal category moves:
// projects and areas can convert into each other, any active category can be
// archived, resources can be promoted, and archived items can be reactivated
// into any active category.
var categoryTransitions = map[Category]map[Category]bool{
	CategoryProject:  {CategoryArea: true, CategoryArchive: true},
	CategoryArea:     {CategoryProject: true, CategoryArchive: true},
	CategoryResource: {CategoryProject: true, CategoryArea: true, CategoryArchive: true},
	CategoryArchive:  {CategoryProject: true, CategoryArea: true, CategoryResource: true},
}

// CategoryFromString parses a category from its string value (case-insensitive).
func CategoryFromString(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case CategoryProject, CategoryArea, CategoryResource, CategoryArchive:
		return c, nil
	}
	return "", fmt.Errorf("invalid PARA category: %q (valid: project, area, resource, archive)", s)
}

// String returns the string value of the category.
func (c Category) String() string {
	return string(c)
}

// CanTransitionTo reports whether moving from c to next is a legal category move.
func (c Category) CanTransitionTo(next Category) bool {
	return categoryTransitions[c][next]
}

// IsActive reports whether the category represents active content.
// Only ARCHIVE is inactive.
func (c Category) IsActive() bool {
	return c != CategoryArchive
}

// Description returns a human-readable description of the category.
func (c Category) Description() string {
	switch c {
	case CategoryProject:
		return "Things with a deadline and specific outcome"
	case CategoryArea:
		return "Ongoing responsibilities to maintain"
	case CategoryResource:
		return "Topics of ongoing interest"
	case CategoryArchive:
		return "Inactive items from other categories"
	}
	return ""
}
