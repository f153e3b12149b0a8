package model

import (
	"fmt"
	"time"

	"github.com/gosimple/slug"
)

type FoodCategory string

const (
	CategoryHomeCooked FoodCategory = "home-cooked"
	CategoryPackaged   FoodCategory = "packaged"
)

// ParseFoodCategory normalizes free-form input ("Home Cooked", "PACKAGED") into a category.
func ParseFoodCategory(s string) (FoodCategory, error) {
	switch c := FoodCategory(slug.Make(s)); c {
	case CategoryHomeCooked, CategoryPackaged:
		return c, nil
	}
	return "", fmt.Errorf("unknown food category %q", s)
}

// Location is a GeoJSON point; Coordinates is [longitude, latitude].
type Location struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

func NewPoint(lon, lat float64) Location {
	return Location{Type: "Point", Coordinates: [2]float64{lon, lat}}
}

func (l Location) Longitude() float64 { return l.Coordinates[0] }
func (l Location) Latitude() float64  { return l.Coordinates[1] }

type FoodPost struct {
	ID                 string       `json:"id"`
	FoodName           string       `json:"foodName"`
	Description        string       `json:"description"`
	Quantity           int          `json:"quantity"`
	Category           FoodCategory `json:"category"`
	ExpiryDate         time.Time    `json:"expiryDate"`
	Location           Location     `json:"location"`
	AvailabilityWindow string       `json:"availabilityWindow"`
	DonorID            string       `json:"donorId"`
	Donor              *UserSummary `json:"donor,omitempty"` // Populated on reads
	CreatedAt          time.Time    `json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`
}
