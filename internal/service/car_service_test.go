package service

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"dealership/internal/errors"
	"dealership/internal/model"
	"dealership/internal/repository"
	"dealership/internal/storage"
)

// MockCarRepository is a mock implementation of CarRepository.
type MockCarRepository struct {
	mock.Mock
}

func (m *MockCarRepository) Create(ctx context.Context, car *model.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}

func (m *MockCarRepository) Update(ctx context.Context, car *model.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}

func (m *MockCarRepository) FindByID(ctx context.Context, id uint) (*model.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Car), args.Error(1)
}

func (m *MockCarRepository) FindAll(ctx context.Context) ([]model.Car, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Car), args.Error(1)
}

func (m *MockCarRepository) Search(ctx context.Context, criteria repository.SearchCriteria) ([]model.Car, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Car), args.Error(1)
}

func (m *MockCarRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCarRepository) ListBrands(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCarRepository) ListFuelTypes(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCarRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockImageRepository is a mock implementation of ImageRepository.
type MockImageRepository struct {
	mock.Mock
}

func (m *MockImageRepository) Create(ctx context.Context, image *model.Image) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *MockImageRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockImageRepository) DeleteByCarID(ctx context.Context, carID uint) error {
	args := m.Called(ctx, carID)
	return args.Error(0)
}

// MockObjectStorage is a mock implementation of storage.ObjectStorage.
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, filename, contentType string, reader io.Reader, size int64) (*storage.UploadResult, error) {
	args := m.Called(ctx, filename, contentType, reader, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UploadResult), args.Error(1)
}

func (m *MockObjectStorage) Remove(ctx context.Context, publicID string) error {
	args := m.Called(ctx, publicID)
	return args.Error(0)
}

func sampleCar(id uint, images ...model.Image) *model.Car {
	return &model.Car{
		ID:             id,
		Brand:          "BMW",
		Model:          "X5",
		ProductionYear: 2020,
		Price:          decimal.NewFromInt(150000),
		FuelType:       "Diesel",
		Mileage:        45000,
		EngineCapacity: 3.0,
		Transmission:   "Automatic",
		Images:         images,
	}
}

func newTestCarService(carRepo *MockCarRepository, imageRepo *MockImageRepository, store *MockObjectStorage) CarService {
	return NewCarService(carRepo, imageRepo, store, nil)
}

func TestCarService_AddImage(t *testing.T) {
	upload := &storage.UploadResult{
		URL:      "http://localhost:9000/car-images/abc.jpg",
		PublicID: "abc.jpg",
	}

	t.Run("success appends to gallery", func(t *testing.T) {
		carRepo := new(MockCarRepository)
		imageRepo := new(MockImageRepository)
		store := new(MockObjectStorage)

		carRepo.On("FindByID", mock.Anything, uint(1)).Return(sampleCar(1), nil).Once()
		store.On("Upload", mock.Anything, "photo.jpg", "image/jpeg", mock.Anything, int64(1024)).Return(upload, nil)
		imageRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Image")).Return(nil)
		carRepo.On("FindByID", mock.Anything, uint(1)).
			Return(sampleCar(1, model.Image{ID: 10, CarID: 1, ImageURL: upload.URL, PublicID: upload.PublicID}), nil).Once()

		service := newTestCarService(carRepo, imageRepo, store)
		car, err := service.AddImage(context.Background(), 1, "photo.jpg", "image/jpeg", bytes.NewReader(make([]byte, 1024)), 1024)

		assert.NoError(t, err)
		assert.Len(t, car.Images, 1)
		assert.Equal(t, upload.URL, car.Images[0].ImageURL)

		created := imageRepo.Calls[0].Arguments.Get(1).(*model.Image)
		assert.Equal(t, uint(1), created.CarID)
		assert.Equal(t, upload.URL, created.ImageURL)
		assert.Equal(t, upload.PublicID, created.PublicID)

		carRepo.AssertExpectations(t)
		imageRepo.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("missing car skips upload", func(t *testing.T) {
		carRepo := new(MockCarRepository)
		imageRepo := new(MockImageRepository)
		store := new(MockObjectStorage)

		carRepo.On("FindByID", mock.Anything, uint(42)).Return(nil, gorm.ErrRecordNotFound)

		service := newTestCarService(carRepo, imageRepo, store)
		car, err := service.AddImage(context.Background(), 42, "photo.jpg", "image/jpeg", bytes.NewReader(nil), 1024)

		assert.Equal(t, errors.ErrCarNotFound, err)
		assert.Nil(t, car)
		store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		imageRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("invalid file skips upload", func(t *testing.T) {
		carRepo := new(MockCarRepository)
		imageRepo := new(MockImageRepository)
		store := new(MockObjectStorage)

		carRepo.On("FindByID", mock.Anything, uint(1)).Return(sampleCar(1), nil)

		service := newTestCarService(carRepo, imageRepo, store)
		_, err := service.AddImage(context.Background(), 1, "malware.exe", "image/jpeg", bytes.NewReader(nil), 1024)

		assert.Equal(t, errors.ErrInvalidFileType, err)
		store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("upload failure creates no record", func(t *testing.T) {
		carRepo := new(MockCarRepository)
		imageRepo := new(MockImageRepository)
		store := new(MockObjectStorage)

		carRepo.On("FindByID", mock.Anything, uint(1)).Return(sampleCar(1), nil)
		store.On("Upload", mock.Anything, "photo.jpg", "image/jpeg", mock.Anything, int64(1024)).
			Return(nil, assert.AnError)

		service := newTestCarService(carRepo, imageRepo, store)
		_, err := service.AddImage(context.Background(), 1, "photo.jpg", "image/jpeg", bytes.NewReader(nil), 1024)

		assert.Equal(t, errors.ErrStorageUpload, err)
		imageRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestCarService_RemoveImage(t *testing.T) {
	img := model.Image{ID: 10, CarID: 1, ImageURL: "http://localhost:9000/car-images/abc.jpg", PublicID: "abc.jpg"}

	t.Run("matching url removes record and object", func(t *testing.T) {
		carRepo := new(MockCarRepository)
		imageRepo := new(MockImageRepository)
		store := new(MockObjectStorage)

		carRepo.On("FindByID", mock.Anything, uint(1)).Return(sampleCar(1, img), nil).Once()
		store.On("Remove", mock.Anything, "abc.jpg").Return(nil)
		imageRepo.On("Delete", mock.Anything, uint(10)).Return(nil)
		carRepo.On("FindByID", mock.Anything, uint(1)).Return(sampleCar(1), nil).Once()

		service := newTestCarService(carRepo, imageRepo, store)
		car, err := service.RemoveImage(context.Background(), 1, img.ImageURL)

		assert.NoError(t, err)
		assert.Empty(t, car.Images)

		carRepo.AssertExpectations(t)
		imageRepo.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("no match returns car unchanged", func(t *testing.T) {
		carRepo := new(MockCarRepository)
		imageRepo := new(MockImageRepository)
		store := new(MockObjectStorage)

		carRepo.On("FindByID", mock.Anything, uint(1)).Return(sampleCar(1, img), nil)

		service := newTestCarService(carRepo, imageRepo, store)
		car, err := service.RemoveImage(context.Background(), 1, "http://elsewhere/nope.jpg")

		assert.NoError(t, err)
		assert.Len(t, car.Images, 1)
		store.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
		imageRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("store failure does not block removal", func(t *testing.T) {
		carRepo := new(MockCarRepository)
		imageRepo := new(MockImageRepository)
		store := new(MockObjectStorage)

		carRepo.On("FindByID", mock.Anything, uint(1)).Return(sampleCar(1, img), nil).Once()
		store.On("Remove", mock.Anything, "abc.jpg").Return(assert.AnError)
		imageRepo.On("Delete", mock.Anything, uint(10)).Return(nil)
		carRepo.On("FindByID", mock.Anything, uint(1)).Return(sampleCar(1), nil).Once()

		service := newTestCarService(carRepo, imageRepo, store)
		car, err := service.RemoveImage(context.Background(), 1, img.ImageURL)

		assert.NoError(t, err)
		assert.Empty(t, car.Images)
		imageRepo.AssertExpectations(t)
	})

	t.Run("missing car", func(t *testing.T) {
		carRepo := new(MockCarRepository)

		carRepo.On("FindByID", mock.Anything, uint(42)).Return(nil, gorm.ErrRecordNotFound)

		service := newTestCarService(carRepo, new(MockImageRepository), new(MockObjectStorage))
		_, err := service.RemoveImage(context.Background(), 42, "whatever")

		assert.Equal(t, errors.ErrCarNotFound, err)
	})
}

func TestCarService_DeleteCar(t *testing.T) {
	imgs := []model.Image{
		{ID: 10, CarID: 1, ImageURL: "u1", PublicID: "p1"},
		{ID: 11, CarID: 1, ImageURL: "u2", PublicID: "p2"},
	}

	t.Run("deletes gallery objects and rows", func(t *testing.T) {
		carRepo := new(MockCarRepository)
		imageRepo := new(MockImageRepository)
		store := new(MockObjectStorage)

		carRepo.On("FindByID", mock.Anything, uint(1)).Return(sampleCar(1, imgs...), nil)
		store.On("Remove", mock.Anything, "p1").Return(nil)
		// one failing object delete must not abort the car delete
		store.On("Remove", mock.Anything, "p2").Return(assert.AnError)
		imageRepo.On("DeleteByCarID", mock.Anything, uint(1)).Return(nil)
		carRepo.On("Delete", mock.Anything, uint(1)).Return(nil)

		service := newTestCarService(carRepo, imageRepo, store)
		deleted, err := service.DeleteCar(context.Background(), 1)

		assert.NoError(t, err)
		assert.True(t, deleted)

		carRepo.AssertExpectations(t)
		imageRepo.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("missing car returns false", func(t *testing.T) {
		carRepo := new(MockCarRepository)

		carRepo.On("FindByID", mock.Anything, uint(42)).Return(nil, gorm.ErrRecordNotFound)

		service := newTestCarService(carRepo, new(MockImageRepository), new(MockObjectStorage))
		deleted, err := service.DeleteCar(context.Background(), 42)

		assert.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestCarService_CreateCar(t *testing.T) {
	carRepo := new(MockCarRepository)
	carRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Car")).Return(nil)

	service := newTestCarService(carRepo, new(MockImageRepository), new(MockObjectStorage))

	// client-supplied identity, timestamps, and gallery must be ignored
	car := sampleCar(99, model.Image{ID: 1, ImageURL: "sneaky"})
	car.CreatedAt = time.Now().Add(-time.Hour)
	car.UpdatedAt = time.Now().Add(-time.Hour)

	created, err := service.CreateCar(context.Background(), car)
	assert.NoError(t, err)
	assert.Zero(t, created.ID)
	assert.True(t, created.CreatedAt.IsZero())
	assert.Empty(t, created.Images)

	carRepo.AssertExpectations(t)
}

func TestCarService_UpdateCar(t *testing.T) {
	t.Run("overwrites catalog fields", func(t *testing.T) {
		carRepo := new(MockCarRepository)

		carRepo.On("FindByID", mock.Anything, uint(1)).Return(sampleCar(1), nil)
		carRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Car")).Return(nil)

		service := newTestCarService(carRepo, new(MockImageRepository), new(MockObjectStorage))

		updated, err := service.UpdateCar(context.Background(), 1, &model.Car{
			Brand:          "Audi",
			Model:          "A4",
			ProductionYear: 2019,
			Price:          decimal.NewFromInt(85000),
			FuelType:       "Gasoline",
			Mileage:        32000,
			EngineCapacity: 2.0,
			Transmission:   "Automatic",
		})

		assert.NoError(t, err)
		assert.Equal(t, uint(1), updated.ID)
		assert.Equal(t, "Audi", updated.Brand)
		assert.Equal(t, "Gasoline", updated.FuelType)

		carRepo.AssertExpectations(t)
	})

	t.Run("missing car", func(t *testing.T) {
		carRepo := new(MockCarRepository)
		carRepo.On("FindByID", mock.Anything, uint(42)).Return(nil, gorm.ErrRecordNotFound)

		service := newTestCarService(carRepo, new(MockImageRepository), new(MockObjectStorage))
		_, err := service.UpdateCar(context.Background(), 42, &model.Car{})

		assert.Equal(t, errors.ErrCarNotFound, err)
	})
}

func TestCarService_Listings(t *testing.T) {
	carRepo := new(MockCarRepository)
	carRepo.On("ListBrands", mock.Anything).Return([]string{"Audi", "bmw", "Audi", "BMW"}, nil)
	carRepo.On("ListFuelTypes", mock.Anything).Return([]string{"Diesel", "Hybrid", "Diesel"}, nil)

	service := newTestCarService(carRepo, new(MockImageRepository), new(MockObjectStorage))

	brands, err := service.GetAllBrands(context.Background())
	assert.NoError(t, err)
	// case-sensitive de-duplication, byte-order sort
	assert.Equal(t, []string{"Audi", "BMW", "bmw"}, brands)

	fuelTypes, err := service.GetAllFuelTypes(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"Diesel", "Hybrid"}, fuelTypes)
}
