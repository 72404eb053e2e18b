package persistence

import (
	"time"

	"github.com/safescan/backend/internal/domain"
)

type userModel struct {
	ID        uint   `gorm:"primaryKey"`
	FirstName string `gorm:"size:100;not null"`
	LastName  string `gorm:"size:100;not null"`
	Email     string `gorm:"size:255;not null;uniqueIndex"`
	Password  string `gorm:"not null"`
	Role      string `gorm:"size:16;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (userModel) TableName() string { return "users" }

type listModel struct {
	ID        uint        `gorm:"primaryKey"`
	UserID    uint        `gorm:"not null;index"`
	User      *userModel  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Name      string      `gorm:"size:255;not null"`
	Terms     []termModel `gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (listModel) TableName() string { return "lists" }

type termModel struct {
	ID     uint       `gorm:"primaryKey"`
	ListID uint       `gorm:"not null;index"`
	List   *listModel `gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE"`
	Name   string     `gorm:"size:255;not null"`
}

func (termModel) TableName() string { return "ingredients" }

type productModel struct {
	ID               uint                    `gorm:"primaryKey"`
	Name             string                  `gorm:"size:255;not null"`
	Barcode          string                  `gorm:"size:64;not null;uniqueIndex"`
	Photo            string                  `gorm:"size:1024"`
	Ingredients      string                  `gorm:"type:text"`
	NutritionalValue domain.NutritionalValue `gorm:"type:text;serializer:json"`
	AddedBy          uint                    `gorm:"index"`
	Status           string                  `gorm:"size:16;not null;index"`
	Source           string                  `gorm:"size:32;not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (productModel) TableName() string { return "products" }

func userToDomain(m *userModel) *domain.User {
	return &domain.User{
		ID:           m.ID,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Email:        m.Email,
		PasswordHash: m.Password,
		Role:         domain.Role(m.Role),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func userFromDomain(u *domain.User) *userModel {
	return &userModel{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Password:  u.PasswordHash,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func listToDomain(m *listModel) domain.WatchList {
	terms := make([]domain.WatchTerm, 0, len(m.Terms))
	for _, t := range m.Terms {
		terms = append(terms, domain.WatchTerm{ID: t.ID, ListID: t.ListID, Name: t.Name})
	}
	return domain.WatchList{
		ID:        m.ID,
		UserID:    m.UserID,
		Name:      m.Name,
		Terms:     terms,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func productToDomain(m *productModel) domain.Product {
	return domain.Product{
		ID:               m.ID,
		Name:             m.Name,
		Barcode:          m.Barcode,
		Photo:            m.Photo,
		Ingredients:      m.Ingredients,
		NutritionalValue: m.NutritionalValue,
		AddedBy:          m.AddedBy,
		Status:           domain.ProductStatus(m.Status),
		Source:           m.Source,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func productFromDomain(p *domain.Product) *productModel {
	return &productModel{
		ID:               p.ID,
		Name:             p.Name,
		Barcode:          p.Barcode,
		Photo:            p.Photo,
		Ingredients:      p.Ingredients,
		NutritionalValue: p.NutritionalValue,
		AddedBy:          p.AddedBy,
		Status:           string(p.Status),
		Source:           p.Source,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
