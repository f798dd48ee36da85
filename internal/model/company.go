package model

import (
	"time"
)

// Company holds the issuing business profile printed on every invoice.
// The application keeps exactly one row; it is created on first settings
// save and updated in place afterwards.
type Company struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Address   string    `gorm:"type:text" json:"address"`
	Contact   string    `gorm:"type:varchar(100)" json:"contact"`
	NTN       string    `gorm:"type:varchar(50);column:ntn" json:"ntn"`   // National Tax Number
	STRN      string    `gorm:"type:varchar(50);column:strn" json:"strn"` // Sales Tax Registration Number
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
