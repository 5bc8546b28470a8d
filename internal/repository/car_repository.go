package repository

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"dealership/internal/model"
)

// SearchCriteria holds the optional filter dimensions of a catalog search.
// A nil field means the dimension is unconstrained.
type SearchCriteria struct {
	Brand    *string
	Model    *string
	FuelType *string

	MinYear *int
	MaxYear *int

	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal

	MinMileage *int
	MaxMileage *int

	MinEngineCapacity *float64
	MaxEngineCapacity *float64
}

// CarRepository defines car persistence operations.
type CarRepository interface {
	Create(ctx context.Context, car *model.Car) error
	Update(ctx context.Context, car *model.Car) error
	FindByID(ctx context.Context, id uint) (*model.Car, error)
	FindAll(ctx context.Context) ([]model.Car, error)
	Search(ctx context.Context, criteria SearchCriteria) ([]model.Car, error)
	Delete(ctx context.Context, id uint) error
	ListBrands(ctx context.Context) ([]string, error)
	ListFuelTypes(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

type carRepository struct {
	db *gorm.DB
}

// NewCarRepository creates a new car repository.
func NewCarRepository(db *gorm.DB) CarRepository {
	return &carRepository{db: db}
}

// orderedImages keeps the gallery in insertion order on every read.
func orderedImages(db *gorm.DB) *gorm.DB {
	return db.Order("car_images.id ASC")
}

// Create creates a new car.
func (r *carRepository) Create(ctx context.Context, car *model.Car) error {
	return r.db.WithContext(ctx).Create(car).Error
}

// Update updates an existing car.
func (r *carRepository) Update(ctx context.Context, car *model.Car) error {
	return r.db.WithContext(ctx).Save(car).Error
}

// FindByID finds a car by ID with its gallery preloaded.
func (r *carRepository) FindByID(ctx context.Context, id uint) (*model.Car, error) {
	var car model.Car
	if err := r.db.WithContext(ctx).Preload("Images", orderedImages).
		First(&car, id).Error; err != nil {
		return nil, err
	}
	return &car, nil
}

// FindAll lists the full catalog in stable id order.
func (r *carRepository) FindAll(ctx context.Context) ([]model.Car, error) {
	var cars []model.Car
	if err := r.db.WithContext(ctx).Preload("Images", orderedImages).
		Order("cars.id ASC").Find(&cars).Error; err != nil {
		return nil, err
	}
	return cars, nil
}

// Search applies the supplied subset of criteria as one conjunctive
// parameterized query. Omitted criteria are unconstrained; no criteria at all
// is equivalent to FindAll.
func (r *carRepository) Search(ctx context.Context, criteria SearchCriteria) ([]model.Car, error) {
	q := r.db.WithContext(ctx).Model(&model.Car{})

	if criteria.Brand != nil {
		q = q.Where("LOWER(brand) LIKE ?", containsPattern(*criteria.Brand))
	}
	if criteria.Model != nil {
		q = q.Where("LOWER(model) LIKE ?", containsPattern(*criteria.Model))
	}
	if criteria.FuelType != nil {
		q = q.Where("LOWER(fuel_type) LIKE ?", containsPattern(*criteria.FuelType))
	}
	if criteria.MinYear != nil {
		q = q.Where("production_year >= ?", *criteria.MinYear)
	}
	if criteria.MaxYear != nil {
		q = q.Where("production_year <= ?", *criteria.MaxYear)
	}
	if criteria.MinPrice != nil {
		q = q.Where("price >= ?", *criteria.MinPrice)
	}
	if criteria.MaxPrice != nil {
		q = q.Where("price <= ?", *criteria.MaxPrice)
	}
	if criteria.MinMileage != nil {
		q = q.Where("mileage >= ?", *criteria.MinMileage)
	}
	if criteria.MaxMileage != nil {
		q = q.Where("mileage <= ?", *criteria.MaxMileage)
	}
	if criteria.MinEngineCapacity != nil {
		q = q.Where("engine_capacity >= ?", *criteria.MinEngineCapacity)
	}
	if criteria.MaxEngineCapacity != nil {
		q = q.Where("engine_capacity <= ?", *criteria.MaxEngineCapacity)
	}

	var cars []model.Car
	if err := q.Preload("Images", orderedImages).
		Order("cars.id ASC").Find(&cars).Error; err != nil {
		return nil, err
	}
	return cars, nil
}

// Delete removes a car row. Gallery rows are removed separately by the
// image repository before this is called.
func (r *carRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Car{}, id).Error
}

// ListBrands returns every brand value in the catalog, duplicates included.
// De-duplication happens in Go so MySQL's case-insensitive collation cannot
// merge values that differ only by case.
func (r *carRepository) ListBrands(ctx context.Context) ([]string, error) {
	var brands []string
	if err := r.db.WithContext(ctx).Model(&model.Car{}).
		Pluck("brand", &brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}

// ListFuelTypes returns every fuel type value in the catalog, duplicates included.
func (r *carRepository) ListFuelTypes(ctx context.Context) ([]string, error) {
	var fuelTypes []string
	if err := r.db.WithContext(ctx).Model(&model.Car{}).
		Pluck("fuel_type", &fuelTypes).Error; err != nil {
		return nil, err
	}
	return fuelTypes, nil
}

// Count returns the number of cars in the catalog.
func (r *carRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Car{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// containsPattern builds a lowered LIKE pattern matching the term anywhere.
func containsPattern(term string) string {
	return "%" + strings.ToLower(term) + "%"
}
