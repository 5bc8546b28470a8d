package repository

import (
	"context"

	"gorm.io/gorm"

	"dealership/internal/model"
)

// ImageRepository defines gallery row persistence operations. Deleting the
// rows of a car is an explicit bulk operation that precedes the car delete;
// there is no reliance on database-level cascade.
type ImageRepository interface {
	Create(ctx context.Context, image *model.Image) error
	Delete(ctx context.Context, id uint) error
	DeleteByCarID(ctx context.Context, carID uint) error
}

type imageRepository struct {
	db *gorm.DB
}

// NewImageRepository builds a GORM-backed repository.
func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) Create(ctx context.Context, image *model.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *imageRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Image{}, id).Error
}

func (r *imageRepository) DeleteByCarID(ctx context.Context, carID uint) error {
	return r.db.WithContext(ctx).Where("car_id = ?", carID).Delete(&model.Image{}).Error
}
