package models

import "gorm.io/gorm"

// Prestataire is a service provider an owner can assign to maintenance
// requests (plombier, électricien, ...).
type Prestataire struct {
	gorm.Model
	OwnerID     uint    `json:"ownerID" gorm:"not null;index"`
	Name        string  `json:"name"`
	Specialty   string  `json:"specialty" gorm:"size:100"` // plomberie, électricité, peinture, climatisation, autre
	PhoneNumber string  `json:"phoneNumber"`
	Email       string  `json:"email"`
	Rating      float32 `json:"rating"`
	Available   *bool   `json:"available"`
}
