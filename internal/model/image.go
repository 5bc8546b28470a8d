package model

// Image represents one entry of a car's photo gallery. The row owns a
// reference to an object in the external store via PublicID; the URL is the
// public address clients render.
type Image struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	CarID    uint   `json:"car_id" gorm:"not null;index"`
	ImageURL string `json:"image_url" gorm:"size:500;not null"`
	PublicID string `json:"public_id" gorm:"size:255;not null"`
}

// TableName overrides GORM's default pluralization.
func (Image) TableName() string {
	return "car_images"
}
