package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Property status values. "loué" is owned by the lease engine: it is set and
// cleared only when leases are created or terminated. The other values can be
// set manually by the owner.
const (
	PropertyStatusAvailable   = "disponible"
	PropertyStatusRented      = "loué"
	PropertyStatusForSale     = "en_vente"
	PropertyStatusMaintenance = "maintenance"
)

type Property struct {
	gorm.Model
	OwnerID      uint   `json:"ownerID" gorm:"index"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	PropertyType string `json:"propertyType"` // villa, appartement, studio, duplex, maison, bureau, commerce
	Status       string `json:"status" gorm:"type:varchar(20);default:'disponible';index"`

	// Localisation
	Address  string  `json:"address"`
	District string  `json:"district"` // quartier
	City     string  `json:"city" gorm:"default:'Abidjan'"`
	Lat      float32 `json:"lat"`
	Lng      float32 `json:"lng"`

	// Caractéristiques
	Surface     float32 `json:"surface"` // m²
	Bedrooms    int     `json:"bedrooms"`
	Bathrooms   int     `json:"bathrooms"`
	LivingRooms int     `json:"livingRooms"`
	Floor       *int    `json:"floor"`
	Furnished   bool    `json:"furnished"`

	// Financier
	MonthlyRent    float64  `json:"monthlyRent"`
	SalePrice      *float64 `json:"salePrice"`
	Deposit        float64  `json:"deposit"`
	AgencyFees     float64  `json:"agencyFees"`
	MonthlyCharges float64  `json:"monthlyCharges"`
	Currency       string   `json:"currency" gorm:"default:'XOF'"`

	Amenities     datatypes.JSON `json:"amenities"` // ["climatisation", "parking", ...]
	Images        datatypes.JSON `json:"images"`
	CurrentTenant string         `json:"currentTenant"`

	IsActive  *bool `json:"isActive"`
	Featured  bool  `json:"featured"`
	ViewCount uint  `json:"viewCount"`

	Owner  User    `json:"owner" gorm:"foreignKey:OwnerID;references:ID"`
	Leases []Lease `json:"leases" gorm:"foreignKey:PropertyID"`
}

// Custom JSON marshaling to convert Amenities and Images to arrays
func (p *Property) MarshalJSON() ([]byte, error) {
	type Alias Property
	aux := &struct {
		Amenities []string `json:"amenities"`
		Images    []string `json:"images"`
		*Alias
	}{
		Amenities: []string{},
		Images:    []string{},
		Alias:     (*Alias)(p),
	}

	if p.Amenities != nil {
		var amenities []string
		if err := json.Unmarshal(p.Amenities, &amenities); err == nil {
			aux.Amenities = amenities
		}
	}

	if p.Images != nil {
		var images []string
		if err := json.Unmarshal(p.Images, &images); err == nil {
			aux.Images = images
		}
	}

	return json.Marshal(aux)
}
