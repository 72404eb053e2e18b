package openfoodfacts

import (
	"strings"

	"github.com/safescan/backend/internal/domain"
)

// untitledProduct is used when Open Food Facts has no product name
const untitledProduct = "Untitled product"

// MapToProduct converts an Open Food Facts product to our domain Product.
// The result is not persisted; ID and timestamps are left zero.
func MapToProduct(off *domain.OFFProduct) *domain.Product {
	name := strings.TrimSpace(off.ProductName)
	if name == "" {
		name = untitledProduct
	}

	return &domain.Product{
		Name:        name,
		Barcode:     off.Code,
		Photo:       off.ImageFrontURL,
		Ingredients: off.IngredientsText,
		NutritionalValue: domain.NutritionalValue{
			Protein:       off.Nutriments.Proteins100g,
			Fat:           off.Nutriments.Fat100g,
			Carbohydrates: off.Nutriments.Carbohydrates100g,
			Calories:      off.Nutriments.EnergyKcal100g,
		},
		Status: domain.StatusApproved,
		Source: domain.SourceOpenFoodFacts,
	}
}
