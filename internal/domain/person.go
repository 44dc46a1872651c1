package domain

import "time"

type Address struct {
	Street string `gorm:"size:255" json:"street"`
	City   string `gorm:"size:120;index" json:"city"`
	State  string `gorm:"size:120;index" json:"state"`
	Zip    string `gorm:"size:20" json:"zip"`
}

type Person struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"size:120;index" json:"first_name"`
	LastName  string    `gorm:"size:120;index" json:"last_name"`
	Phone     string    `gorm:"size:64" json:"phone"`
	Email     string    `gorm:"size:255" json:"email"`
	Address   Address   `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	CreatedAt time.Time `json:"created_at"`
}
