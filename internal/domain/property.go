package domain

import "time"

type Location struct {
	City    string `json:"city" dynamodbav:"city" yaml:"city" validate:"required"`
	SubCity string `json:"sub_city" dynamodbav:"sub_city" yaml:"sub_city"`
	Address string `json:"address" dynamodbav:"address" yaml:"address"`
}

// Property is a marketplace listing. Promoted is stored as 0/1 so it can key
// the promoted-index GSI.
type Property struct {
	PropertyID   string    `json:"id" dynamodbav:"property_id" yaml:"id"`
	Title        string    `json:"title" dynamodbav:"title" yaml:"title"`
	Description  string    `json:"description" dynamodbav:"description" yaml:"description"`
	Price        float64   `json:"price" dynamodbav:"price" yaml:"price"`
	Currency     string    `json:"currency" dynamodbav:"currency" yaml:"currency"`
	ListingType  string    `json:"listing_type" dynamodbav:"listing_type" yaml:"listing_type"`
	PropertyType string    `json:"property_type" dynamodbav:"property_type" yaml:"property_type"`
	Bedrooms     int       `json:"bedrooms" dynamodbav:"bedrooms" yaml:"bedrooms"`
	Bathrooms    int       `json:"bathrooms" dynamodbav:"bathrooms" yaml:"bathrooms"`
	AreaSqm      float64   `json:"area_sqm" dynamodbav:"area_sqm" yaml:"area_sqm"`
	Location     Location  `json:"location" dynamodbav:"location" yaml:"location"`
	Images       []string  `json:"images" dynamodbav:"images" yaml:"images"`
	OwnerID      string    `json:"owner_id" dynamodbav:"owner_id" yaml:"owner_id"`
	Promoted     int       `json:"promoted" dynamodbav:"promoted" yaml:"promoted"`
	Enable       bool      `json:"-" dynamodbav:"enable" yaml:"-"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at" yaml:"-"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at" yaml:"-"`
}

type CreatePropertyRequest struct {
	Title        string   `json:"title" validate:"required,max=200"`
	Description  string   `json:"description" validate:"max=5000"`
	Price        float64  `json:"price" validate:"gte=0"`
	Currency     string   `json:"currency" validate:"omitempty,len=3"`
	ListingType  string   `json:"listing_type" validate:"required,oneof=sale rent"`
	PropertyType string   `json:"property_type" validate:"required"`
	Bedrooms     int      `json:"bedrooms" validate:"gte=0"`
	Bathrooms    int      `json:"bathrooms" validate:"gte=0"`
	AreaSqm      float64  `json:"area_sqm" validate:"gte=0"`
	Location     Location `json:"location" validate:"required"`
	Images       []string `json:"images" validate:"max=30,dive,required"`
}

// Key reports the listing identifier. Records without one are not keyed.
func (p Property) Key() (string, bool) {
	return p.PropertyID, p.PropertyID != ""
}
