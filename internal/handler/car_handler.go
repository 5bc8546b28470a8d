package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"dealership/internal/errors"
	"dealership/internal/model"
	"dealership/internal/repository"
	"dealership/internal/service"
)

// CarHandler handles catalog, search, and gallery endpoints.
type CarHandler struct {
	carService service.CarService
}

// NewCarHandler creates a new car handler.
func NewCarHandler(carService service.CarService) *CarHandler {
	return &CarHandler{carService: carService}
}

// CarRequest is the full car representation for create and update.
type CarRequest struct {
	Brand          string          `json:"brand" validate:"required"`
	Model          string          `json:"model" validate:"required"`
	ProductionYear int             `json:"production_year" validate:"required"`
	Price          decimal.Decimal `json:"price" validate:"required"`
	FuelType       string          `json:"fuel_type" validate:"required"`
	Mileage        int             `json:"mileage" validate:"min=0"`
	EngineCapacity float64         `json:"engine_capacity" validate:"required"`
	Transmission   string          `json:"transmission" validate:"required"`
	Description    string          `json:"description"`
}

// CarResponse is the car representation returned to clients. The gallery is a
// plain ordered URL list; the first entry doubles as the main image.
type CarResponse struct {
	ID             uint            `json:"id"`
	Brand          string          `json:"brand"`
	Model          string          `json:"model"`
	ProductionYear int             `json:"production_year"`
	Price          decimal.Decimal `json:"price"`
	FuelType       string          `json:"fuel_type"`
	Mileage        int             `json:"mileage"`
	EngineCapacity float64         `json:"engine_capacity"`
	Transmission   string          `json:"transmission"`
	Description    string          `json:"description"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	ImageGallery   []string        `json:"image_gallery"`
	MainImage      string          `json:"main_image,omitempty"`
}

func toCarResponse(car *model.Car) CarResponse {
	return CarResponse{
		ID:             car.ID,
		Brand:          car.Brand,
		Model:          car.Model,
		ProductionYear: car.ProductionYear,
		Price:          car.Price,
		FuelType:       car.FuelType,
		Mileage:        car.Mileage,
		EngineCapacity: car.EngineCapacity,
		Transmission:   car.Transmission,
		Description:    car.Description,
		CreatedAt:      car.CreatedAt,
		UpdatedAt:      car.UpdatedAt,
		ImageGallery:   car.ImageURLs(),
		MainImage:      car.MainImage(),
	}
}

func toCarResponses(cars []model.Car) []CarResponse {
	out := make([]CarResponse, 0, len(cars))
	for i := range cars {
		out = append(out, toCarResponse(&cars[i]))
	}
	return out
}

func (r *CarRequest) toModel() *model.Car {
	return &model.Car{
		Brand:          r.Brand,
		Model:          r.Model,
		ProductionYear: r.ProductionYear,
		Price:          r.Price,
		FuelType:       r.FuelType,
		Mileage:        r.Mileage,
		EngineCapacity: r.EngineCapacity,
		Transmission:   r.Transmission,
		Description:    r.Description,
	}
}

// GetAllCars godoc
// @Summary List the full catalog
// @Tags cars
// @Produce json
// @Success 200 {array} CarResponse
// @Router /cars [get]
func (h *CarHandler) GetAllCars(c echo.Context) error {
	cars, err := h.carService.GetAllCars(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, toCarResponses(cars))
}

// GetCar godoc
// @Summary Get one car
// @Tags cars
// @Produce json
// @Param id path int true "Car ID"
// @Success 200 {object} CarResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /cars/{id} [get]
func (h *CarHandler) GetCar(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	car, err := h.carService.GetCarByID(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, toCarResponse(car))
}

// CreateCar godoc
// @Summary Create a car
// @Tags cars
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CarRequest true "Car data"
// @Success 201 {object} CarResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /cars [post]
func (h *CarHandler) CreateCar(c echo.Context) error {
	var req CarRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	car, err := h.carService.CreateCar(c.Request().Context(), req.toModel())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, toCarResponse(car))
}

// UpdateCar godoc
// @Summary Update a car
// @Tags cars
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Car ID"
// @Param request body CarRequest true "Car data"
// @Success 200 {object} CarResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /cars/{id} [put]
func (h *CarHandler) UpdateCar(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req CarRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	car, err := h.carService.UpdateCar(c.Request().Context(), id, req.toModel())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, toCarResponse(car))
}

// DeleteCar godoc
// @Summary Delete a car and its gallery
// @Tags cars
// @Security BearerAuth
// @Param id path int true "Car ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /cars/{id} [delete]
func (h *CarHandler) DeleteCar(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	deleted, err := h.carService.DeleteCar(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	if !deleted {
		return domainError(errors.ErrCarNotFound)
	}
	return c.NoContent(http.StatusNoContent)
}

// SearchCars godoc
// @Summary Search the catalog by optional criteria
// @Tags cars
// @Produce json
// @Param brand query string false "Brand substring, case-insensitive"
// @Param model query string false "Model substring, case-insensitive"
// @Param fuelType query string false "Fuel type substring, case-insensitive"
// @Param minYear query int false "Minimum production year, inclusive"
// @Param maxYear query int false "Maximum production year, inclusive"
// @Param minPrice query number false "Minimum price, inclusive"
// @Param maxPrice query number false "Maximum price, inclusive"
// @Param minMileage query int false "Minimum mileage, inclusive"
// @Param maxMileage query int false "Maximum mileage, inclusive"
// @Param minEngineCapacity query number false "Minimum engine capacity, inclusive"
// @Param maxEngineCapacity query number false "Maximum engine capacity, inclusive"
// @Success 200 {array} CarResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /cars/search [get]
func (h *CarHandler) SearchCars(c echo.Context) error {
	criteria, err := parseSearchCriteria(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_PARAMETER",
		})
	}

	cars, err := h.carService.SearchCars(c.Request().Context(), criteria)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, toCarResponses(cars))
}

// GetBrands godoc
// @Summary List distinct brands, sorted
// @Tags cars
// @Produce json
// @Success 200 {array} string
// @Router /cars/brands [get]
func (h *CarHandler) GetBrands(c echo.Context) error {
	brands, err := h.carService.GetAllBrands(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, brands)
}

// GetFuelTypes godoc
// @Summary List distinct fuel types, sorted
// @Tags cars
// @Produce json
// @Success 200 {array} string
// @Router /cars/fuel-types [get]
func (h *CarHandler) GetFuelTypes(c echo.Context) error {
	fuelTypes, err := h.carService.GetAllFuelTypes(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, fuelTypes)
}

// AddGalleryImage godoc
// @Summary Upload an image into a car's gallery
// @Tags cars
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Car ID"
// @Param file formData file true "Image file"
// @Success 200 {object} CarResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /cars/{id}/gallery [post]
func (h *CarHandler) AddGalleryImage(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return domainError(errors.ErrEmptyFile)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return domainError(errors.ErrEmptyFile)
	}
	defer src.Close()

	car, err := h.carService.AddImage(
		c.Request().Context(),
		id,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		src,
		fileHeader.Size,
	)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, toCarResponse(car))
}

// RemoveGalleryImage godoc
// @Summary Remove an image from a car's gallery by URL
// @Description Removing a URL that is not in the gallery returns the car unchanged.
// @Tags cars
// @Produce json
// @Security BearerAuth
// @Param id path int true "Car ID"
// @Param imageUrl query string true "Exact image URL"
// @Success 200 {object} CarResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /cars/{id}/gallery [delete]
func (h *CarHandler) RemoveGalleryImage(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	car, err := h.carService.RemoveImage(c.Request().Context(), id, c.QueryParam("imageUrl"))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, toCarResponse(car))
}

// parseID reads the :id path parameter.
func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid car id",
			Code:  "INVALID_ID",
		})
	}
	return uint(id), nil
}

// domainError converts a domain error into an Echo HTTP error.
func domainError(err error) *echo.HTTPError {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// parseSearchCriteria reads the optional search parameters. Empty parameters
// are treated as absent; malformed numeric values are an error naming the
// parameter.
func parseSearchCriteria(c echo.Context) (repository.SearchCriteria, error) {
	var criteria repository.SearchCriteria

	if v := c.QueryParam("brand"); v != "" {
		criteria.Brand = &v
	}
	if v := c.QueryParam("model"); v != "" {
		criteria.Model = &v
	}
	if v := c.QueryParam("fuelType"); v != "" {
		criteria.FuelType = &v
	}

	var err error
	if criteria.MinYear, err = intParam(c, "minYear"); err != nil {
		return criteria, err
	}
	if criteria.MaxYear, err = intParam(c, "maxYear"); err != nil {
		return criteria, err
	}
	if criteria.MinPrice, err = decimalParam(c, "minPrice"); err != nil {
		return criteria, err
	}
	if criteria.MaxPrice, err = decimalParam(c, "maxPrice"); err != nil {
		return criteria, err
	}
	if criteria.MinMileage, err = intParam(c, "minMileage"); err != nil {
		return criteria, err
	}
	if criteria.MaxMileage, err = intParam(c, "maxMileage"); err != nil {
		return criteria, err
	}
	if criteria.MinEngineCapacity, err = floatParam(c, "minEngineCapacity"); err != nil {
		return criteria, err
	}
	if criteria.MaxEngineCapacity, err = floatParam(c, "maxEngineCapacity"); err != nil {
		return criteria, err
	}

	return criteria, nil
}

func intParam(c echo.Context, name string) (*int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return nil, &paramError{name}
	}
	return &parsed, nil
}

func floatParam(c echo.Context, name string) (*float64, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, &paramError{name}
	}
	return &parsed, nil
}

func decimalParam(c echo.Context, name string) (*decimal.Decimal, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	parsed, err := decimal.NewFromString(v)
	if err != nil {
		return nil, &paramError{name}
	}
	return &parsed, nil
}

type paramError struct {
	name string
}

func (e *paramError) Error() string {
	return "invalid value for parameter " + e.name
}
