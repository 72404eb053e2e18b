package domain

import (
	"context"
	"io"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// FoodDataClient defines the interface for the external open food data API
type FoodDataClient interface {
	GetProduct(ctx context.Context, barcode string) (*OFFProduct, error)
}

// UserRepository persists user accounts
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uint) error
}

// ListRepository persists watch lists and their terms
type ListRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]WatchList, error)
	Get(ctx context.Context, listID uint) (*WatchList, error)
	Create(ctx context.Context, list *WatchList) error
	Rename(ctx context.Context, listID uint, name string) error
	ReplaceTerms(ctx context.Context, listID uint, terms []string) error
	AddTerms(ctx context.Context, listID uint, terms []string) error
	DeleteTerm(ctx context.Context, listID, termID uint) error
	Delete(ctx context.Context, listID uint) error
}

// ProductRepository persists products
type ProductRepository interface {
	List(ctx context.Context, nameFilter string) ([]Product, error)
	ListByStatus(ctx context.Context, status ProductStatus, limit int) ([]Product, error)
	GetByID(ctx context.Context, id uint) (*Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*Product, error)
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uint) error
}

// TokenManager issues and verifies bearer tokens
type TokenManager interface {
	Issue(userID uint) (string, time.Time, error)
	Verify(token string) (uint, error)
}

// ImageStore saves uploaded product images and returns their public path
type ImageStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (filename, publicPath string, err error)
}
