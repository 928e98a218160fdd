package models

import "gorm.io/gorm"

// Tenant is a person renting from an owner. It is an owner-scoped record that
// may optionally be linked to a user account (for tenants who log in).
type Tenant struct {
	gorm.Model
	OwnerID     uint   `json:"ownerID" gorm:"not null;index"`
	UserID      *uint  `json:"userID" gorm:"index"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Profession  string `json:"profession"`
	Notes       string `json:"notes" gorm:"type:text"`

	Owner User  `json:"-" gorm:"foreignKey:OwnerID;references:ID"`
	User  *User `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
}
