package media

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orbitads/orbit/backend/internal/apperrors"
)

// Repository persists media asset records
type Repository interface {
	Create(asset *Asset) error
	Get(id uuid.UUID) (*Asset, error)
	Delete(id uuid.UUID) error
	ListByBrand(brandID uuid.UUID) ([]Asset, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new asset repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(asset *Asset) error {
	return r.db.Create(asset).Error
}

func (r *repository) Get(id uuid.UUID) (*Asset, error) {
	var asset Asset
	if err := r.db.First(&asset, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("asset", id.String())
		}
		return nil, err
	}
	return &asset, nil
}

func (r *repository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&Asset{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("asset", id.String())
	}
	return nil
}

func (r *repository) ListByBrand(brandID uuid.UUID) ([]Asset, error) {
	var assets []Asset
	err := r.db.Where("brand_id = ?", brandID).Order("created_at desc").Find(&assets).Error
	return assets, err
}
