package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/safescan/backend/internal/domain"
	"gorm.io/gorm"
)

// ListRepository is the gorm implementation of domain.ListRepository
type ListRepository struct {
	db *gorm.DB
}

// NewListRepository creates a list repository
func NewListRepository(db *gorm.DB) *ListRepository {
	return &ListRepository{db: db}
}

func orderedTerms(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

// ListByUser returns the user's lists in creation order, terms included
func (r *ListRepository) ListByUser(ctx context.Context, userID uint) ([]domain.WatchList, error) {
	var models []listModel
	err := r.db.WithContext(ctx).
		Preload("Terms", orderedTerms).
		Where("user_id = ?", userID).
		Order("id").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	lists := make([]domain.WatchList, 0, len(models))
	for i := range models {
		lists = append(lists, listToDomain(&models[i]))
	}
	return lists, nil
}

func (r *ListRepository) Get(ctx context.Context, listID uint) (*domain.WatchList, error) {
	var m listModel
	err := r.db.WithContext(ctx).Preload("Terms", orderedTerms).First(&m, listID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrListNotFound
		}
		return nil, err
	}
	list := listToDomain(&m)
	return &list, nil
}

// Create inserts the list and its terms, filling in the generated IDs
func (r *ListRepository) Create(ctx context.Context, list *domain.WatchList) error {
	m := &listModel{UserID: list.UserID, Name: list.Name}
	for _, t := range list.Terms {
		m.Terms = append(m.Terms, termModel{Name: t.Name})
	}

	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*list = listToDomain(m)
	return nil
}

func (r *ListRepository) Rename(ctx context.Context, listID uint, name string) error {
	res := r.db.WithContext(ctx).Model(&listModel{ID: listID}).Update("name", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrListNotFound
	}
	return nil
}

func (r *ListRepository) ReplaceTerms(ctx context.Context, listID uint, terms []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("list_id = ?", listID).Delete(&termModel{}).Error; err != nil {
			return err
		}
		return insertTerms(tx, listID, terms)
	})
}

func (r *ListRepository) AddTerms(ctx context.Context, listID uint, terms []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return insertTerms(tx, listID, terms)
	})
}

func (r *ListRepository) DeleteTerm(ctx context.Context, listID, termID uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND list_id = ?", termID, listID).Delete(&termModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrTermNotFound
	}
	return touchList(r.db.WithContext(ctx), listID)
}

// Delete removes the list and its terms
func (r *ListRepository) Delete(ctx context.Context, listID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("list_id = ?", listID).Delete(&termModel{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&listModel{}, listID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrListNotFound
		}
		return nil
	})
}

func insertTerms(tx *gorm.DB, listID uint, terms []string) error {
	if len(terms) > 0 {
		rows := make([]termModel, 0, len(terms))
		for _, name := range terms {
			rows = append(rows, termModel{ListID: listID, Name: name})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
	}
	return touchList(tx, listID)
}

func touchList(db *gorm.DB, listID uint) error {
	return db.Model(&listModel{ID: listID}).Update("updated_at", time.Now()).Error
}
