package model

import (
	"time"
)

// Customer is a billed party. Rows referenced by invoices cannot be
// deleted (foreign key restricts), so history stays intact.
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Address   string    `gorm:"type:text" json:"address"`
	NTN       string    `gorm:"type:varchar(50);column:ntn" json:"ntn"`
	STRN      string    `gorm:"type:varchar(50);column:strn" json:"strn"`
	Contact   string    `gorm:"type:varchar(100)" json:"contact"`
	Email     string    `gorm:"type:varchar(255)" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
