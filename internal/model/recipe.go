package model

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Recipe is the persisted entity representing one dish. The full set of
// recipes is stored as a single JSON array blob, so the field names here
// define the on-disk format.
type Recipe struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Category    []string     `json:"category"`
	PrepTime    int          `json:"prepTime"`
	CookTime    int          `json:"cookTime"`
	Servings    int          `json:"servings"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []Step       `json:"steps"`
	Image       string       `json:"image,omitempty"`
	Macros      Macros       `json:"macros"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Ingredient is a single ingredient line. Amount is kept as entered
// ("0.5", "200") rather than parsed, matching the capture form.
type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

// Step is one preparation step. Its position in the slice is the step number.
type Step struct {
	Description string `json:"description"`
}

// Macros holds nutrition totals for the whole recipe. A stored recipe
// always carries all four fields; absent inputs normalize to zero.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// TotalTime returns preparation plus cooking time, in minutes.
func (r Recipe) TotalTime() int {
	return r.PrepTime + r.CookTime
}

// MacrosPerServing divides each macro by the serving count, rounded to the
// nearest whole number. A recipe without a serving count yields zeros.
func (r Recipe) MacrosPerServing() Macros {
	if r.Servings <= 0 {
		return Macros{}
	}
	n := float64(r.Servings)
	return Macros{
		Calories: math.Round(r.Macros.Calories / n),
		Protein:  math.Round(r.Macros.Protein / n),
		Carbs:    math.Round(r.Macros.Carbs / n),
		Fat:      math.Round(r.Macros.Fat / n),
	}
}

// Empty reports whether the recipe lacks the one required field, its name.
func (r Recipe) Empty() bool {
	return strings.TrimSpace(r.Name) == ""
}

// NewID derives a recipe identifier from a timestamp, the identity used
// for all lookups, equality and merge deduplication. Nanosecond resolution
// keeps back-to-back creations from colliding.
func NewID(t time.Time) string {
	return strconv.FormatInt(t.UnixNano(), 10)
}

// Normalize is the single gate every recipe passes through before it is
// stored, whatever its provenance (capture form, import file, generated
// draft). It assigns an identifier when missing, defaults timestamps to
// now, and guarantees slices are non-nil so the stored JSON stays
// well-formed. Macro defaulting falls out of the value type: absent fields
// decode to zero.
func Normalize(r Recipe, now time.Time) Recipe {
	if r.ID == "" {
		r.ID = NewID(now)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = now
	}
	if r.Category == nil {
		r.Category = []string{}
	}
	if r.Ingredients == nil {
		r.Ingredients = []Ingredient{}
	}
	if r.Steps == nil {
		r.Steps = []Step{}
	}
	return r
}
