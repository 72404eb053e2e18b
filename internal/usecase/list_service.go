package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/safescan/backend/internal/domain"
)

// ListService manages a user's watch lists of unwanted ingredients
type ListService struct {
	lists domain.ListRepository
}

// NewListService creates a new list service
func NewListService(lists domain.ListRepository) *ListService {
	return &ListService{lists: lists}
}

// GetWatchLists returns all lists of a user with their terms.
// A user without lists gets an empty slice, not an error.
func (s *ListService) GetWatchLists(ctx context.Context, userID uint) ([]domain.WatchList, error) {
	lists, err := s.lists.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if lists == nil {
		lists = []domain.WatchList{}
	}
	return lists, nil
}

// Create adds a new list owned by userID
func (s *ListService) Create(ctx context.Context, userID uint, req *domain.CreateListRequest) (*domain.WatchList, error) {
	if req == nil || strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: list_name is required", domain.ErrInvalidRequest)
	}

	list := &domain.WatchList{
		UserID: userID,
		Name:   strings.TrimSpace(req.Name),
	}
	for _, name := range cleanTerms(req.Ingredients) {
		list.Terms = append(list.Terms, domain.WatchTerm{Name: name})
	}

	if err := s.lists.Create(ctx, list); err != nil {
		return nil, err
	}
	return s.lists.Get(ctx, list.ID)
}

// Get returns one of the user's lists
func (s *ListService) Get(ctx context.Context, userID, listID uint) (*domain.WatchList, error) {
	list, err := s.lists.Get(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list.UserID != userID {
		return nil, domain.ErrListNotFound
	}
	return list, nil
}

// Update renames the list and, when Ingredients is non-nil, replaces its terms
func (s *ListService) Update(ctx context.Context, userID, listID uint, req *domain.UpdateListRequest) (*domain.WatchList, error) {
	if req == nil {
		return nil, domain.ErrInvalidRequest
	}
	if _, err := s.Get(ctx, userID, listID); err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		if err := s.lists.Rename(ctx, listID, name); err != nil {
			return nil, err
		}
	}
	if req.Ingredients != nil {
		if err := s.lists.ReplaceTerms(ctx, listID, cleanTerms(req.Ingredients)); err != nil {
			return nil, err
		}
	}

	return s.lists.Get(ctx, listID)
}

// Delete removes a list and all of its terms
func (s *ListService) Delete(ctx context.Context, userID, listID uint) error {
	if _, err := s.Get(ctx, userID, listID); err != nil {
		return err
	}
	return s.lists.Delete(ctx, listID)
}

// AddTerms appends terms to a list
func (s *ListService) AddTerms(ctx context.Context, userID, listID uint, req *domain.AddTermsRequest) (*domain.WatchList, error) {
	if _, err := s.Get(ctx, userID, listID); err != nil {
		return nil, err
	}
	if req == nil || req.Ingredients == nil {
		return nil, fmt.Errorf("%w: ingredients array is required", domain.ErrInvalidRequest)
	}

	if terms := cleanTerms(req.Ingredients); len(terms) > 0 {
		if err := s.lists.AddTerms(ctx, listID, terms); err != nil {
			return nil, err
		}
	}
	return s.lists.Get(ctx, listID)
}

// DeleteTerm removes a single term from a list
func (s *ListService) DeleteTerm(ctx context.Context, userID, listID, termID uint) error {
	if _, err := s.Get(ctx, userID, listID); err != nil {
		return err
	}
	return s.lists.DeleteTerm(ctx, listID, termID)
}

// cleanTerms trims whitespace and drops blank entries
func cleanTerms(raw []string) []string {
	terms := make([]string, 0, len(raw))
	for _, t := range raw {
		if t = strings.TrimSpace(t); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}
