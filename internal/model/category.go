package model

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Categories is the fixed set of category tags a recipe may carry.
var Categories = []string{
	"breakfast",
	"lunch",
	"dinner",
	"dessert",
	"snack",
	"drink",
	"vegetarian",
}

// Units is the fixed set of ingredient unit keys.
var Units = []string{
	"g", "kg", "ml", "cl", "l",
	"cas", "cac", "pincee",
	"unite", "piece", "tranche", "tasse", "verre",
}

var titler = cases.Title(language.French)

// ValidCategory reports whether key belongs to the category set.
func ValidCategory(key string) bool {
	for _, c := range Categories {
		if c == key {
			return true
		}
	}
	return false
}

// ValidUnit reports whether key belongs to the unit set.
func ValidUnit(key string) bool {
	for _, u := range Units {
		if u == key {
			return true
		}
	}
	return false
}

// CategoryLabel returns the display form of a category key.
func CategoryLabel(key string) string {
	return titler.String(key)
}
