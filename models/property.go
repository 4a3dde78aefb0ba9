package models

import "gorm.io/gorm"

// Property is the unit a lease is attached to. Listing details (photos,
// geocoding, amenities) live in other services; only what the financial
// core needs is stored here.
type Property struct {
	gorm.Model
	Name      string `json:"name" gorm:"not null"`
	Address   string `json:"address"`
	ManagerID uint   `json:"managerId" gorm:"index;not null"`
	Manager   *User  `json:"manager,omitempty" gorm:"foreignKey:ManagerID"`
}
