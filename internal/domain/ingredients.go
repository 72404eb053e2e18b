package domain

import "time"

// WatchTerm is a single ingredient a user wants to avoid, e.g. "gluten".
// The name is free text and kept exactly as the user typed it.
type WatchTerm struct {
	ID     uint   `json:"ingredient_id"`
	ListID uint   `json:"list_id"`
	Name   string `json:"ingredient_name"`
}

// WatchList is a named collection of watch terms owned by one user
type WatchList struct {
	ID        uint        `json:"list_id"`
	UserID    uint        `json:"user_id"`
	Name      string      `json:"list_name"`
	Terms     []WatchTerm `json:"ingredients"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Match reports that a watched term was found in a product's ingredient text.
// Term keeps the user's original spelling; List is the name of the owning list.
type Match struct {
	Term string `json:"name"`
	List string `json:"list_name"`
}

// CreateListRequest is the body of POST /api/lists
type CreateListRequest struct {
	Name        string   `json:"list_name" binding:"required"`
	Ingredients []string `json:"ingredients,omitempty"`
}

// UpdateListRequest is the body of PUT /api/lists/:list_id.
// A nil Ingredients leaves the terms untouched; a non-nil one replaces them.
type UpdateListRequest struct {
	Name        string   `json:"list_name,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
}

// AddTermsRequest is the body of POST /api/lists/:list_id/ingredients
type AddTermsRequest struct {
	Ingredients []string `json:"ingredients" binding:"required"`
}

// CheckIngredientsRequest is the body of POST /api/products/check-ingredients
type CheckIngredientsRequest struct {
	Ingredients string `json:"ingredients"`
}

// CheckIngredientsResponse lists the watched terms found in the submitted text
type CheckIngredientsResponse struct {
	UnwantedIngredients []Match `json:"unwanted_ingredients"`
}
