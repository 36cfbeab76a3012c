// Package naming defines hierarchical directory names, remote object references, and the
// directory used to look remote planning services up.
//
// A name is a sequence of components. Each component has a category and an id and is written
// "category.id"; components are joined with "/". The manipulation service is registered as
// "hpp.plannerContext/hpp.manipulation".
package naming

import (
	"strings"

	"github.com/pkg/errors"
)

// Placeholder definitions for the well-known names of the planning services.
const (
	CategoryHPP      = "hpp"
	IDPlannerContext = "plannerContext"
	IDManipulation   = "manipulation"
	IDBasic          = "basic"
)

var (
	// ManipulationName is where the manipulation service is registered.
	ManipulationName = Name{{CategoryHPP, IDPlannerContext}, {CategoryHPP, IDManipulation}}
	// BasicName is where the basic problem service is registered.
	BasicName = Name{{CategoryHPP, IDPlannerContext}, {CategoryHPP, IDBasic}}
)

// Component is one level of a hierarchical name.
type Component struct {
	Category string
	ID       string
}

// String returns "category.id", or just the category when the id is empty.
func (c Component) String() string {
	if c.ID == "" {
		return c.Category
	}
	return c.Category + "." + c.ID
}

// Validate ensures that the component can be written and parsed back unchanged.
func (c Component) Validate() error {
	if c.Category == "" {
		return errors.New("category field for name component missing or invalid")
	}
	if strings.ContainsAny(c.Category, "./") {
		return errors.Errorf("category %q must not contain '.' or '/'", c.Category)
	}
	if strings.Contains(c.ID, "/") {
		return errors.Errorf("id %q must not contain '/'", c.ID)
	}
	return nil
}

// Name is a compound directory name, outermost context first.
type Name []Component

// NewName builds a Name from alternating category and id strings.
func NewName(categoryAndIDs ...string) (Name, error) {
	if len(categoryAndIDs)%2 != 0 {
		return nil, errors.New("name parts must come in category/id pairs")
	}
	name := make(Name, 0, len(categoryAndIDs)/2)
	for i := 0; i < len(categoryAndIDs); i += 2 {
		name = append(name, Component{Category: categoryAndIDs[i], ID: categoryAndIDs[i+1]})
	}
	return name, name.Validate()
}

// ParseName parses the "category.id/category.id" form.
func ParseName(s string) (Name, error) {
	s = strings.Trim(s, "/")
	if s == "" {
		return nil, errors.New("name is empty")
	}
	parts := strings.Split(s, "/")
	name := make(Name, 0, len(parts))
	for _, part := range parts {
		category, id, _ := strings.Cut(part, ".")
		name = append(name, Component{Category: category, ID: id})
	}
	if err := name.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid name %q", s)
	}
	return name, nil
}

// Validate ensures the name has at least one component and every component is valid.
func (n Name) Validate() error {
	if len(n) == 0 {
		return errors.New("name has no components")
	}
	for _, c := range n {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// String returns the slash separated form of the name.
func (n Name) String() string {
	parts := make([]string, len(n))
	for i, c := range n {
		parts[i] = c.String()
	}
	return strings.Join(parts, "/")
}

// HasPrefix reports whether prefix is a leading sequence of n's components. An empty prefix
// matches every name.
func (n Name) HasPrefix(prefix Name) bool {
	if len(prefix) > len(n) {
		return false
	}
	for i, c := range prefix {
		if n[i] != c {
			return false
		}
	}
	return true
}

// Equal reports whether both names have the same components.
func (n Name) Equal(other Name) bool {
	return len(n) == len(other) && n.HasPrefix(other)
}
