package models

import "gorm.io/gorm"

// User is an operator account for the company dashboard. Drivers authenticate
// out of band through the mobile client, they do not get user rows here.
type User struct {
	gorm.Model
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"unique"`
	Password string `json:"password"`
	Role     string `json:"role"` // "operator", "admin"
}
