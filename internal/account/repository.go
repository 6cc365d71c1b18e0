package account

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orbitads/orbit/backend/internal/apperrors"
)

// Repository resolves users and brands by id for the ingestion pipeline
type Repository interface {
	GetUser(id uuid.UUID) (*User, error)
	GetBrand(id uuid.UUID) (*Brand, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new account repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetUser(id uuid.UUID) (*User, error) {
	var user User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("user", id.String())
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) GetBrand(id uuid.UUID) (*Brand, error) {
	var brand Brand
	if err := r.db.First(&brand, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("brand", id.String())
		}
		return nil, err
	}
	return &brand, nil
}
