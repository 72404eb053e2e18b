package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/safescan/backend/internal/domain"
	"gorm.io/gorm"
)

// ProductRepository is the gorm implementation of domain.ProductRepository
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a product repository
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// likeEscaper makes %, _ and \ match literally inside a LIKE pattern
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// List returns products whose name contains nameFilter, case-insensitively
func (r *ProductRepository) List(ctx context.Context, nameFilter string) ([]domain.Product, error) {
	q := r.db.WithContext(ctx).Order("id")
	if nameFilter != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(strings.ToLower(nameFilter))+"%")
	}

	var models []productModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	return productsToDomain(models), nil
}

// ListByStatus returns products with the given status, newest first. limit <= 0 means no limit.
func (r *ProductRepository) ListByStatus(ctx context.Context, status domain.ProductStatus, limit int) ([]domain.Product, error) {
	q := r.db.WithContext(ctx).Where("status = ?", string(status)).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var models []productModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	return productsToDomain(models), nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	var m productModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	p := productToDomain(&m)
	return &p, nil
}

func (r *ProductRepository) GetByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	var m productModel
	if err := r.db.WithContext(ctx).Where("barcode = ?", barcode).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	p := productToDomain(&m)
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if taken, err := r.barcodeTaken(ctx, product.Barcode, 0); err != nil {
		return err
	} else if taken {
		return domain.ErrDuplicateBarcode
	}

	m := productFromDomain(product)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateBarcode
		}
		return err
	}
	*product = productToDomain(m)
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if taken, err := r.barcodeTaken(ctx, product.Barcode, product.ID); err != nil {
		return err
	} else if taken {
		return domain.ErrDuplicateBarcode
	}

	m := productFromDomain(product)
	res := r.db.WithContext(ctx).Model(&productModel{ID: product.ID}).Select("*").Omit("id", "created_at").Updates(m)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateBarcode
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	product.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&productModel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) barcodeTaken(ctx context.Context, barcode string, exceptID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&productModel{}).Where("barcode = ?", barcode)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func productsToDomain(models []productModel) []domain.Product {
	products := make([]domain.Product, 0, len(models))
	for i := range models {
		products = append(products, productToDomain(&models[i]))
	}
	return products
}
