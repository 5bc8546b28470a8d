package service

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"sort"
	"time"

	"gorm.io/gorm"

	"dealership/internal/cache"
	"dealership/internal/errors"
	"dealership/internal/model"
	"dealership/internal/repository"
	"dealership/internal/storage"
)

const (
	listingCacheTTL   = 5 * time.Minute
	brandsCacheKey    = "catalog:brands"
	fuelTypesCacheKey = "catalog:fuel_types"
)

// CarService handles catalog, search, and gallery operations.
type CarService interface {
	GetAllCars(ctx context.Context) ([]model.Car, error)
	GetCarByID(ctx context.Context, id uint) (*model.Car, error)
	CreateCar(ctx context.Context, car *model.Car) (*model.Car, error)
	UpdateCar(ctx context.Context, id uint, car *model.Car) (*model.Car, error)
	DeleteCar(ctx context.Context, id uint) (bool, error)
	SearchCars(ctx context.Context, criteria repository.SearchCriteria) ([]model.Car, error)
	GetAllBrands(ctx context.Context) ([]string, error)
	GetAllFuelTypes(ctx context.Context) ([]string, error)
	AddImage(ctx context.Context, carID uint, filename, contentType string, reader io.Reader, size int64) (*model.Car, error)
	RemoveImage(ctx context.Context, carID uint, imageURL string) (*model.Car, error)
}

type carService struct {
	carRepo   repository.CarRepository
	imageRepo repository.ImageRepository
	storage   storage.ObjectStorage
	validator *ImageValidator
	cache     *cache.Client
}

// NewCarService creates a new car service.
func NewCarService(
	carRepo repository.CarRepository,
	imageRepo repository.ImageRepository,
	objectStorage storage.ObjectStorage,
	cacheClient *cache.Client,
) CarService {
	return &carService{
		carRepo:   carRepo,
		imageRepo: imageRepo,
		storage:   objectStorage,
		validator: NewImageValidator(),
		cache:     cacheClient,
	}
}

// GetAllCars lists the full catalog.
func (s *carService) GetAllCars(ctx context.Context) ([]model.Car, error) {
	return s.carRepo.FindAll(ctx)
}

// GetCarByID returns one car with its gallery.
func (s *carService) GetCarByID(ctx context.Context, id uint) (*model.Car, error) {
	car, err := s.carRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrCarNotFound
		}
		return nil, err
	}
	return car, nil
}

// CreateCar persists a new car. Identity and timestamps are server-assigned;
// the gallery is managed separately and never taken from the request.
func (s *carService) CreateCar(ctx context.Context, car *model.Car) (*model.Car, error) {
	car.ID = 0
	car.CreatedAt = time.Time{}
	car.UpdatedAt = time.Time{}
	car.Images = nil

	if err := s.carRepo.Create(ctx, car); err != nil {
		return nil, err
	}
	s.invalidateListings(ctx)
	return car, nil
}

// UpdateCar overwrites the catalog fields of an existing car, leaving the
// gallery and creation timestamp untouched.
func (s *carService) UpdateCar(ctx context.Context, id uint, car *model.Car) (*model.Car, error) {
	existing, err := s.GetCarByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Brand = car.Brand
	existing.Model = car.Model
	existing.ProductionYear = car.ProductionYear
	existing.Price = car.Price
	existing.FuelType = car.FuelType
	existing.Mileage = car.Mileage
	existing.EngineCapacity = car.EngineCapacity
	existing.Transmission = car.Transmission
	existing.Description = car.Description

	if err := s.carRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	s.invalidateListings(ctx)
	return existing, nil
}

// DeleteCar removes a car and its gallery. External objects are deleted
// best-effort first; a store failure is logged and never blocks the relational
// delete. Returns false only when the car does not exist.
func (s *carService) DeleteCar(ctx context.Context, id uint) (bool, error) {
	car, err := s.carRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, err
	}

	for _, img := range car.Images {
		if err := s.storage.Remove(ctx, img.PublicID); err != nil {
			log.Printf("delete car %d: failed to remove object %s: %v", id, img.PublicID, err)
		}
	}

	if err := s.imageRepo.DeleteByCarID(ctx, id); err != nil {
		return false, err
	}
	if err := s.carRepo.Delete(ctx, id); err != nil {
		return false, err
	}
	s.invalidateListings(ctx)
	return true, nil
}

// SearchCars runs one conjunctive criteria query over the catalog.
func (s *carService) SearchCars(ctx context.Context, criteria repository.SearchCriteria) ([]model.Car, error) {
	return s.carRepo.Search(ctx, criteria)
}

// GetAllBrands returns the distinct brands, byte-wise sorted, with casing
// preserved. Cached.
func (s *carService) GetAllBrands(ctx context.Context) ([]string, error) {
	return s.cachedListing(ctx, brandsCacheKey, s.carRepo.ListBrands)
}

// GetAllFuelTypes returns the distinct fuel types, byte-wise sorted. Cached.
func (s *carService) GetAllFuelTypes(ctx context.Context) ([]string, error) {
	return s.cachedListing(ctx, fuelTypesCacheKey, s.carRepo.ListFuelTypes)
}

// AddImage validates and uploads a file, then appends it to the gallery.
// Existence is checked before the upload so a miss never leaves an orphaned
// object; an upload failure never leaves a row.
func (s *carService) AddImage(ctx context.Context, carID uint, filename, contentType string, reader io.Reader, size int64) (*model.Car, error) {
	if _, err := s.GetCarByID(ctx, carID); err != nil {
		return nil, err
	}

	if err := s.validator.ValidateImage(filename, size, contentType); err != nil {
		return nil, err
	}

	result, err := s.storage.Upload(ctx, filename, contentType, reader, size)
	if err != nil {
		log.Printf("add image to car %d: upload failed: %v", carID, err)
		return nil, errors.ErrStorageUpload
	}

	image := &model.Image{
		CarID:    carID,
		ImageURL: result.URL,
		PublicID: result.PublicID,
	}
	if err := s.imageRepo.Create(ctx, image); err != nil {
		return nil, err
	}

	return s.GetCarByID(ctx, carID)
}

// RemoveImage deletes the gallery entry matching the URL exactly. The store
// delete is best-effort; the row is the source of truth. No match returns the
// car unchanged.
func (s *carService) RemoveImage(ctx context.Context, carID uint, imageURL string) (*model.Car, error) {
	car, err := s.GetCarByID(ctx, carID)
	if err != nil {
		return nil, err
	}

	for _, img := range car.Images {
		if img.ImageURL != imageURL {
			continue
		}
		if err := s.storage.Remove(ctx, img.PublicID); err != nil {
			log.Printf("remove image from car %d: failed to remove object %s: %v", carID, img.PublicID, err)
		}
		if err := s.imageRepo.Delete(ctx, img.ID); err != nil {
			return nil, err
		}
		return s.GetCarByID(ctx, carID)
	}

	return car, nil
}

// cachedListing serves a sorted de-duplicated listing from cache, falling back
// to the repository on a miss.
func (s *carService) cachedListing(ctx context.Context, key string, fetch func(context.Context) ([]string, error)) ([]string, error) {
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var values []string
		if err := json.Unmarshal(data, &values); err == nil {
			return values, nil
		}
	}

	values, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	values = distinctSorted(values)

	if data, err := json.Marshal(values); err == nil {
		_ = s.cache.Set(ctx, key, data, listingCacheTTL)
	}
	return values, nil
}

func (s *carService) invalidateListings(ctx context.Context) {
	_ = s.cache.Delete(ctx, brandsCacheKey)
	_ = s.cache.Delete(ctx, fuelTypesCacheKey)
}

// distinctSorted de-duplicates case-sensitively and sorts in byte order.
func distinctSorted(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
