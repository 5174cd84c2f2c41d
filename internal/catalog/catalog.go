package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrLabelNotFound marks lookups for labels the catalog does not declare.
var ErrLabelNotFound = errors.New("label not in catalog")

// LookupError reports a label with no catalog entry.
type LookupError struct {
	Label string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("label %q is not declared in the label catalog", e.Label)
}

func (e *LookupError) Unwrap() error {
	return ErrLabelNotFound
}

// Label is one catalog entry.
type Label struct {
	Name  string `json:"name" toml:"name"`
	Color string `json:"color" toml:"color"`
}

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidColor reports whether value is a #rrggbb color.
func ValidColor(value string) bool {
	return colorPattern.MatchString(value)
}

// Catalog is an immutable, ordered set of labels.
type Catalog struct {
	labels []Label
	index  map[string]int
}

// New validates labels and builds a catalog preserving their order.
func New(labels []Label) (*Catalog, error) {
	if len(labels) == 0 {
		return nil, errors.New("catalog: at least one label is required")
	}
	c := &Catalog{
		labels: make([]Label, 0, len(labels)),
		index:  make(map[string]int, len(labels)),
	}
	for i, l := range labels {
		name := strings.TrimSpace(l.Name)
		if name == "" {
			return nil, fmt.Errorf("catalog: label %d has an empty name", i)
		}
		if _, dup := c.index[name]; dup {
			return nil, fmt.Errorf("catalog: duplicate label %q", name)
		}
		color := strings.TrimSpace(l.Color)
		if !ValidColor(color) {
			return nil, fmt.Errorf("catalog: label %q has invalid color %q (want #rrggbb)", name, l.Color)
		}
		c.index[name] = len(c.labels)
		c.labels = append(c.labels, Label{Name: name, Color: strings.ToLower(color)})
	}
	return c, nil
}

// MustNew is New for static tables; it panics on invalid input.
func MustNew(labels []Label) *Catalog {
	c, err := New(labels)
	if err != nil {
		panic(err)
	}
	return c
}

// Labels returns the catalog entries in declaration order.
func (c *Catalog) Labels() []Label {
	out := make([]Label, len(c.labels))
	copy(out, c.labels)
	return out
}

// Len returns the number of declared labels.
func (c *Catalog) Len() int {
	return len(c.labels)
}

// Lookup returns the entry for name or a *LookupError.
func (c *Catalog) Lookup(name string) (Label, error) {
	idx, ok := c.index[name]
	if !ok {
		return Label{}, &LookupError{Label: name}
	}
	return c.labels[idx], nil
}

// Contains reports whether name is declared.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.index[name]
	return ok
}
