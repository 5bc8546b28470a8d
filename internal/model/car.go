package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Car represents a vehicle in the dealership catalog.
type Car struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	Brand          string          `json:"brand" gorm:"size:255;not null;index"`
	Model          string          `json:"model" gorm:"size:255;not null"`
	ProductionYear int             `json:"production_year" gorm:"not null;index"`
	Price          decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	FuelType       string          `json:"fuel_type" gorm:"size:100;not null;index"`
	Mileage        int             `json:"mileage" gorm:"not null"`
	EngineCapacity float64         `json:"engine_capacity" gorm:"not null"`
	Transmission   string          `json:"transmission" gorm:"size:100;not null"`
	Description    string          `json:"description" gorm:"type:text"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Relations. Insertion order is preserved: images are loaded by id.
	Images []Image `json:"images,omitempty" gorm:"foreignKey:CarID"`
}

// ImageURLs returns the public URLs of the gallery in insertion order.
func (c *Car) ImageURLs() []string {
	urls := make([]string, 0, len(c.Images))
	for _, img := range c.Images {
		urls = append(urls, img.ImageURL)
	}
	return urls
}

// MainImage returns the URL of the first gallery image, or "" for an empty gallery.
func (c *Car) MainImage() string {
	if len(c.Images) == 0 {
		return ""
	}
	return c.Images[0].ImageURL
}
