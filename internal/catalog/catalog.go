// Package catalog holds the static hall metadata that the menu API does not
// provide: which meals each hall serves, card colours per college and the
// dietary badge legend.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultYAML []byte

// HallInfo describes one hall known to the admin console.
type HallInfo struct {
	ID    string   `yaml:"id"`
	Name  string   `yaml:"name"`
	Meals []string `yaml:"meals"`
}

// Catalog is the parsed catalog file.
type Catalog struct {
	DefaultMeal   string            `yaml:"default_meal"`
	FallbackMeals []string          `yaml:"fallback_meals"`
	Halls         []HallInfo        `yaml:"halls"`
	Colleges      map[string]string `yaml:"colleges"`
	Dietary       map[string]string `yaml:"dietary"`

	byID map[string]HallInfo
}

// Parse decodes a catalog document.
func Parse(b []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if c.DefaultMeal == "" {
		return nil, fmt.Errorf("catalog: default_meal is required")
	}
	if len(c.FallbackMeals) == 0 {
		c.FallbackMeals = []string{"breakfast", "lunch", "dinner"}
	}
	c.byID = make(map[string]HallInfo, len(c.Halls))
	for _, h := range c.Halls {
		if h.ID == "" {
			return nil, fmt.Errorf("catalog: hall without id")
		}
		if _, dup := c.byID[h.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate hall %q", h.ID)
		}
		c.byID[h.ID] = h
	}
	return &c, nil
}

// Default returns the embedded catalog.  It panics only if the embedded
// file is malformed, which the package tests rule out.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(err)
	}
	return c
}

// Meals returns the meal periods served by a hall, in display order.
func (c *Catalog) Meals(hallID string) []string {
	if h, ok := c.byID[hallID]; ok && len(h.Meals) > 0 {
		return h.Meals
	}
	return c.FallbackMeals
}

// Serves reports whether the hall serves meal.
func (c *Catalog) Serves(hallID, meal string) bool {
	for _, m := range c.Meals(hallID) {
		if m == meal {
			return true
		}
	}
	return false
}

// DefaultMealFor picks the meal tab opened first on a hall card: the meal
// being served right now if the hall lists it, otherwise the hall's first
// meal.  An empty or unknown currentMeal is not an error.
func (c *Catalog) DefaultMealFor(hallID, currentMeal string) string {
	meals := c.Meals(hallID)
	if currentMeal != "" && c.Serves(hallID, currentMeal) {
		return currentMeal
	}
	if len(meals) > 0 {
		return meals[0]
	}
	return c.DefaultMeal
}

// HallName returns the display name of a hall, or the id itself.
func (c *Catalog) HallName(hallID string) string {
	if h, ok := c.byID[hallID]; ok && h.Name != "" {
		return h.Name
	}
	return hallID
}

// HallIDs lists hall ids in catalog order (admin form selects).
func (c *Catalog) HallIDs() []string {
	out := make([]string, len(c.Halls))
	for i, h := range c.Halls {
		out[i] = h.ID
	}
	return out
}

// KnownHall reports whether id is in the catalog.
func (c *Catalog) KnownHall(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// AllMeals is the union of every hall's meals plus the fallback list, in
// first-seen order.
func (c *Catalog) AllMeals() []string {
	seen := map[string]bool{}
	var out []string
	add := func(ms []string) {
		for _, m := range ms {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	add(c.FallbackMeals)
	for _, h := range c.Halls {
		add(h.Meals)
	}
	return out
}

// CollegeClass maps a college slug to the card CSS class.
func (c *Catalog) CollegeClass(college string) string {
	if cls, ok := c.Colleges[college]; ok {
		return cls
	}
	return "gray"
}

// Badges returns the dietary badge abbreviations for tags, in tag order.
// Unknown tags are skipped.
func (c *Catalog) Badges(tags []string) []string {
	var out []string
	for _, t := range tags {
		if b, ok := c.Dietary[strings.ToLower(t)]; ok {
			out = append(out, b)
		}
	}
	return out
}

// MealTitle turns "late_night" into "Late Night".
func MealTitle(meal string) string {
	// a Caser keeps state, so one is built per call
	return cases.Title(language.English).String(strings.ReplaceAll(meal, "_", " "))
}
