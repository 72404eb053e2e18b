package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/safescan/backend/internal/domain"
)

// MockListRepository keeps watch lists in memory
type MockListRepository struct {
	lists      map[uint]*domain.WatchList
	nextListID uint
	nextTermID uint
	listErr    error
}

func NewMockListRepository() *MockListRepository {
	return &MockListRepository{lists: make(map[uint]*domain.WatchList), nextListID: 1, nextTermID: 1}
}

func (m *MockListRepository) ListByUser(ctx context.Context, userID uint) ([]domain.WatchList, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.WatchList
	for id := uint(1); id < m.nextListID; id++ {
		if l, ok := m.lists[id]; ok && l.UserID == userID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *MockListRepository) Get(ctx context.Context, listID uint) (*domain.WatchList, error) {
	l, ok := m.lists[listID]
	if !ok {
		return nil, domain.ErrListNotFound
	}
	cp := *l
	cp.Terms = append([]domain.WatchTerm(nil), l.Terms...)
	return &cp, nil
}

func (m *MockListRepository) Create(ctx context.Context, list *domain.WatchList) error {
	list.ID = m.nextListID
	m.nextListID++
	for i := range list.Terms {
		list.Terms[i].ID = m.nextTermID
		list.Terms[i].ListID = list.ID
		m.nextTermID++
	}
	cp := *list
	m.lists[list.ID] = &cp
	return nil
}

func (m *MockListRepository) Rename(ctx context.Context, listID uint, name string) error {
	m.lists[listID].Name = name
	return nil
}

func (m *MockListRepository) ReplaceTerms(ctx context.Context, listID uint, terms []string) error {
	m.lists[listID].Terms = nil
	return m.AddTerms(ctx, listID, terms)
}

func (m *MockListRepository) AddTerms(ctx context.Context, listID uint, terms []string) error {
	l := m.lists[listID]
	for _, t := range terms {
		l.Terms = append(l.Terms, domain.WatchTerm{ID: m.nextTermID, ListID: listID, Name: t})
		m.nextTermID++
	}
	return nil
}

func (m *MockListRepository) DeleteTerm(ctx context.Context, listID, termID uint) error {
	l := m.lists[listID]
	for i, t := range l.Terms {
		if t.ID == termID {
			l.Terms = append(l.Terms[:i], l.Terms[i+1:]...)
			return nil
		}
	}
	return domain.ErrTermNotFound
}

func (m *MockListRepository) Delete(ctx context.Context, listID uint) error {
	delete(m.lists, listID)
	return nil
}

func TestListService(t *testing.T) {
	ctx := context.Background()

	t.Run("user without lists gets empty slice", func(t *testing.T) {
		svc := NewListService(NewMockListRepository())

		lists, err := svc.GetWatchLists(ctx, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if lists == nil || len(lists) != 0 {
			t.Errorf("lists = %#v, want empty non-nil", lists)
		}
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		repo := NewMockListRepository()
		repo.listErr = errors.New("db down")
		svc := NewListService(repo)

		if _, err := svc.GetWatchLists(ctx, 1); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("create requires a name", func(t *testing.T) {
		svc := NewListService(NewMockListRepository())

		_, err := svc.Create(ctx, 1, &domain.CreateListRequest{Name: "  "})
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("create trims and drops blank terms", func(t *testing.T) {
		svc := NewListService(NewMockListRepository())

		list, err := svc.Create(ctx, 1, &domain.CreateListRequest{
			Name:        " Allergy ",
			Ingredients: []string{" Peanut ", "", "  ", "milk"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if list.Name != "Allergy" || list.UserID != 1 {
			t.Errorf("list = %+v", list)
		}
		if len(list.Terms) != 2 || list.Terms[0].Name != "Peanut" || list.Terms[1].Name != "milk" {
			t.Errorf("terms = %+v", list.Terms)
		}
	})

	t.Run("other users cannot see the list", func(t *testing.T) {
		svc := NewListService(NewMockListRepository())
		list, _ := svc.Create(ctx, 1, &domain.CreateListRequest{Name: "Mine"})

		if _, err := svc.Get(ctx, 2, list.ID); !errors.Is(err, domain.ErrListNotFound) {
			t.Errorf("Get error = %v, want ErrListNotFound", err)
		}
		if err := svc.Delete(ctx, 2, list.ID); !errors.Is(err, domain.ErrListNotFound) {
			t.Errorf("Delete error = %v, want ErrListNotFound", err)
		}
		if _, err := svc.AddTerms(ctx, 2, list.ID, &domain.AddTermsRequest{Ingredients: []string{"x"}}); !errors.Is(err, domain.ErrListNotFound) {
			t.Errorf("AddTerms error = %v, want ErrListNotFound", err)
		}
	})

	t.Run("update renames and replaces terms", func(t *testing.T) {
		svc := NewListService(NewMockListRepository())
		list, _ := svc.Create(ctx, 1, &domain.CreateListRequest{Name: "Old", Ingredients: []string{"a", "b"}})

		updated, err := svc.Update(ctx, 1, list.ID, &domain.UpdateListRequest{Name: "New", Ingredients: []string{"c"}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Name != "New" || len(updated.Terms) != 1 || updated.Terms[0].Name != "c" {
			t.Errorf("updated = %+v", updated)
		}
	})

	t.Run("update without ingredients keeps terms", func(t *testing.T) {
		svc := NewListService(NewMockListRepository())
		list, _ := svc.Create(ctx, 1, &domain.CreateListRequest{Name: "Old", Ingredients: []string{"a"}})

		updated, err := svc.Update(ctx, 1, list.ID, &domain.UpdateListRequest{Name: "Renamed"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(updated.Terms) != 1 {
			t.Errorf("terms = %+v, want 1 kept", updated.Terms)
		}
	})

	t.Run("add terms requires an array", func(t *testing.T) {
		svc := NewListService(NewMockListRepository())
		list, _ := svc.Create(ctx, 1, &domain.CreateListRequest{Name: "L"})

		_, err := svc.AddTerms(ctx, 1, list.ID, &domain.AddTermsRequest{})
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}

		updated, err := svc.AddTerms(ctx, 1, list.ID, &domain.AddTermsRequest{Ingredients: []string{"soy"}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(updated.Terms) != 1 || updated.Terms[0].Name != "soy" {
			t.Errorf("terms = %+v", updated.Terms)
		}
	})

	t.Run("delete term", func(t *testing.T) {
		svc := NewListService(NewMockListRepository())
		list, _ := svc.Create(ctx, 1, &domain.CreateListRequest{Name: "L", Ingredients: []string{"soy"}})

		if err := svc.DeleteTerm(ctx, 1, list.ID, list.Terms[0].ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := svc.DeleteTerm(ctx, 1, list.ID, list.Terms[0].ID); !errors.Is(err, domain.ErrTermNotFound) {
			t.Errorf("error = %v, want ErrTermNotFound", err)
		}
	})

	t.Run("lists feed the matcher", func(t *testing.T) {
		svc := NewListService(NewMockListRepository())
		svc.Create(ctx, 1, &domain.CreateListRequest{Name: "Vegan", Ingredients: []string{"milk"}})
		svc.Create(ctx, 1, &domain.CreateListRequest{Name: "Allergy", Ingredients: []string{"milk"}})

		lists, err := svc.GetWatchLists(ctx, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		matches := FindMatches("whole milk", lists)
		if len(matches) != 2 || matches[0].List != "Vegan" || matches[1].List != "Allergy" {
			t.Errorf("matches = %v", matches)
		}
	})
}
