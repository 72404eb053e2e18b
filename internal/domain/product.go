package domain

import "time"

// ProductStatus is the moderation state of a locally stored product
type ProductStatus string

const (
	StatusPending  ProductStatus = "pending"
	StatusApproved ProductStatus = "approved"
	StatusRejected ProductStatus = "rejected"
)

// Product sources
const (
	SourceLocal         = "local"
	SourceOpenFoodFacts = "openfoodfacts"
)

// Product is a scanned or manually added food item
type Product struct {
	ID               uint             `json:"id"`
	Name             string           `json:"name"`
	Barcode          string           `json:"barcode"`
	Photo            string           `json:"photo,omitempty"`
	Ingredients      string           `json:"ingredients"`
	NutritionalValue NutritionalValue `json:"nutritional_value"`
	AddedBy          uint             `json:"added_by"`
	Status           ProductStatus    `json:"status"`
	Source           string           `json:"source"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// NutritionalValue holds per-100g values; nil means unknown
type NutritionalValue struct {
	Protein       *float64 `json:"protein,omitempty"`       // grams
	Fat           *float64 `json:"fat,omitempty"`           // grams
	Carbohydrates *float64 `json:"carbohydrates,omitempty"` // grams
	Calories      *float64 `json:"calories,omitempty"`      // kcal
}

// ProductReport is a product together with the caller's unwanted ingredients
type ProductReport struct {
	Product
	UnwantedIngredients []Match `json:"unwanted_ingredients"`
}

// ProductInput is the body of POST /api/products
type ProductInput struct {
	Name             string           `json:"name"`
	Barcode          string           `json:"barcode"`
	Photo            string           `json:"photo,omitempty"`
	Ingredients      string           `json:"ingredients,omitempty"`
	NutritionalValue NutritionalValue `json:"nutritional_value"`
	Status           ProductStatus    `json:"status,omitempty"`
}

// ProductUpdate holds the optional fields of PUT /api/products/:id
type ProductUpdate struct {
	Name             *string           `json:"name,omitempty"`
	Barcode          *string           `json:"barcode,omitempty"`
	Photo            *string           `json:"photo,omitempty"`
	Ingredients      *string           `json:"ingredients,omitempty"`
	NutritionalValue *NutritionalValue `json:"nutritional_value,omitempty"`
	Status           *ProductStatus    `json:"status,omitempty"`
}

// Valid reports whether s is a known moderation status
func (s ProductStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// OFFResponse represents the response from the Open Food Facts product API
type OFFResponse struct {
	Code          string      `json:"code"`
	Status        int         `json:"status"`
	StatusVerbose string      `json:"status_verbose,omitempty"`
	Product       *OFFProduct `json:"product"`
}

// OFFProduct is the subset of Open Food Facts product fields we request
type OFFProduct struct {
	Code            string        `json:"code"`
	ProductName     string        `json:"product_name"`
	Brands          string        `json:"brands,omitempty"`
	IngredientsText string        `json:"ingredients_text"`
	ImageFrontURL   string        `json:"image_front_url,omitempty"`
	Nutriments      OFFNutriments `json:"nutriments"`
}

// OFFNutriments holds the per-100g nutriment values from Open Food Facts
type OFFNutriments struct {
	Proteins100g      *float64 `json:"proteins_100g,omitempty"`
	Fat100g           *float64 `json:"fat_100g,omitempty"`
	Carbohydrates100g *float64 `json:"carbohydrates_100g,omitempty"`
	EnergyKcal100g    *float64 `json:"energy-kcal_100g,omitempty"`
}
