package catalog

import (
	"strings"
	"time"
)

// Category groups products on the storefront.
type Category struct {
	ID        string    `json:"category_id"`
	Name      string    `json:"name"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Patch carries a partial update. Blank fields are left as they are.
type Patch struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// Validate trims the category and checks both fields are present.
func (c *Category) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	c.Label = strings.TrimSpace(c.Label)
	if c.Name == "" || c.Label == "" {
		return ErrMissingFields
	}
	return nil
}

// Apply copies the non-blank fields of p onto c and reports whether
// anything changed.
func (c *Category) Apply(p Patch) bool {
	changed := false
	if name := strings.TrimSpace(p.Name); name != "" && name != c.Name {
		c.Name = name
		changed = true
	}
	if label := strings.TrimSpace(p.Label); label != "" && label != c.Label {
		c.Label = label
		changed = true
	}
	return changed
}
