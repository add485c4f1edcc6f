package models

type User struct {
	Base
	Email        string `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Username     string `gorm:"size:150;uniqueIndex;not null" json:"username"`
	FirstName    string `gorm:"size:128;not null" json:"first_name"`
	LastName     string `gorm:"size:128;not null" json:"last_name"`
	Avatar       string `gorm:"size:255" json:"avatar"`
	PasswordHash string `gorm:"not null" json:"-"`
}
