package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FlexInt decodes from a JSON number or a numeric string. Capture forms,
// import files and generated drafts disagree on whether times and servings
// are numbers or strings, so the loose side of the boundary accepts both.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	// Try to unmarshal as a number first.
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = FlexInt(int(num))
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		str = strings.TrimSpace(str)
		if str == "" {
			*f = 0
			return nil
		}
		n, err := strconv.Atoi(str)
		if err != nil {
			// Tolerate decimal strings like "1.5".
			v, ferr := strconv.ParseFloat(str, 64)
			if ferr != nil {
				return fmt.Errorf("invalid numeric value %q", str)
			}
			n = int(v)
		}
		*f = FlexInt(n)
		return nil
	}

	return fmt.Errorf("invalid numeric value %s", string(data))
}

// FlexFloat decodes from a JSON number or a numeric string.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = FlexFloat(num)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		str = strings.TrimSpace(str)
		if str == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return fmt.Errorf("invalid numeric value %q", str)
		}
		*f = FlexFloat(v)
		return nil
	}

	return fmt.Errorf("invalid numeric value %s", string(data))
}

// FlexString decodes from a JSON string or number, keeping the textual
// form. Ingredient amounts are stored as entered ("0.5", "200").
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*f = FlexString(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*f = FlexString(num.String())
		return nil
	}

	return fmt.Errorf("invalid string value %s", string(data))
}

// RecipeForm is the loosely-typed shape of a recipe before normalization:
// what a capture form submits, what an import file contains, and what the
// generator returns. Every numeric field tolerates both representations.
type RecipeForm struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Category    []string         `json:"category"`
	PrepTime    FlexInt          `json:"prepTime"`
	CookTime    FlexInt          `json:"cookTime"`
	Servings    FlexInt          `json:"servings"`
	Ingredients []IngredientForm `json:"ingredients"`
	Steps       []StepForm       `json:"steps"`
	Image       string           `json:"image"`
	Macros      MacrosForm       `json:"macros"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// IngredientForm mirrors Ingredient with a flexible amount.
type IngredientForm struct {
	Name   string     `json:"name"`
	Amount FlexString `json:"amount"`
	Unit   string     `json:"unit"`
}

// StepForm mirrors Step. The numeric "step" field some sources carry is
// ignored; position defines the step number.
type StepForm struct {
	Description string `json:"description"`
}

// MacrosForm mirrors Macros; absent fields decode to zero.
type MacrosForm struct {
	Calories FlexFloat `json:"calories"`
	Protein  FlexFloat `json:"protein"`
	Carbs    FlexFloat `json:"carbs"`
	Fat      FlexFloat `json:"fat"`
}

// Empty reports whether the form lacks the one required field, the name.
func (f RecipeForm) Empty() bool {
	return strings.TrimSpace(f.Name) == ""
}

// Recipe converts the loose form into the typed entity. The result still
// needs Normalize before it is fit to store.
func (f RecipeForm) Recipe() Recipe {
	ingredients := make([]Ingredient, 0, len(f.Ingredients))
	for _, ing := range f.Ingredients {
		ingredients = append(ingredients, Ingredient{
			Name:   ing.Name,
			Amount: string(ing.Amount),
			Unit:   ing.Unit,
		})
	}

	steps := make([]Step, 0, len(f.Steps))
	for _, st := range f.Steps {
		steps = append(steps, Step{Description: st.Description})
	}

	return Recipe{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Category:    f.Category,
		PrepTime:    int(f.PrepTime),
		CookTime:    int(f.CookTime),
		Servings:    int(f.Servings),
		Ingredients: ingredients,
		Steps:       steps,
		Image:       f.Image,
		Macros: Macros{
			Calories: float64(f.Macros.Calories),
			Protein:  float64(f.Macros.Protein),
			Carbs:    float64(f.Macros.Carbs),
			Fat:      float64(f.Macros.Fat),
		},
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}
