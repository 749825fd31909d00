package models

import "time"

// Student is a single student record. The ID is assigned by the store on
// creation and never set by clients. Image holds only a stored filename,
// never a filesystem path; nil means no image is attached.
type Student struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"size:255" json:"name"`
	DateOfBirth string  `gorm:"size:64" json:"dob"`
	Contact     string  `gorm:"size:255" json:"contact"`
	Image       *string `gorm:"size:512" json:"image"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
