package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"dealership/internal/config"
	"dealership/internal/handler"
	"dealership/internal/middleware"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	carHandler *handler.CarHandler,
) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
		ExposeHeaders:    []string{echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	// Every request passes the token gate once, then the policy table.
	e.Use(middleware.TokenGate(cfg.JWTSecret))
	e.Use(middleware.Identity())
	e.Use(middleware.Authorize(middleware.DefaultRules))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/auth/validate", authHandler.Validate)

	api.GET("/cars", carHandler.GetAllCars)
	api.GET("/cars/search", carHandler.SearchCars)
	api.GET("/cars/brands", carHandler.GetBrands)
	api.GET("/cars/fuel-types", carHandler.GetFuelTypes)
	api.GET("/cars/:id", carHandler.GetCar)
	api.POST("/cars", carHandler.CreateCar)
	api.PUT("/cars/:id", carHandler.UpdateCar)
	api.DELETE("/cars/:id", carHandler.DeleteCar)
	api.POST("/cars/:id/gallery", carHandler.AddGalleryImage)
	api.DELETE("/cars/:id/gallery", carHandler.RemoveGalleryImage)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
