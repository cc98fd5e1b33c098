package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"not null;default:''"      json:"name"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null"                 json:"name"`
	Description string    `json:"description"`
	Price       float64   `gorm:"not null"                 json:"price"`
	ImageURL    string    `json:"image_url"`
	Category    string    `gorm:"index"                    json:"category"`
	CreatedAt   time.Time `gorm:"index"                    json:"created_at"`
}

type Review struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                 json:"id"`
	UserID    uint      `gorm:"not null;index"                           json:"user_id"`
	ProductID uint      `gorm:"not null;index"                           json:"product_id"`
	Text      string    `gorm:"column:review;not null"                   json:"review"`
	Stars     int       `gorm:"not null;check:stars >= 1 AND stars <= 5" json:"stars"`
	CreatedAt time.Time `json:"created_at"`

	User    *User    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Product *Product `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// ReviewView is a review joined with its author and product names.
type ReviewView struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	ProductID   uint      `json:"product_id"`
	Text        string    `gorm:"column:review" json:"review"`
	Stars       int       `json:"stars"`
	CreatedAt   time.Time `json:"created_at"`
	UserName    string    `json:"user_name,omitempty"`
	ProductName string    `json:"product_name,omitempty"`
}

type Shop struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Address   string    `gorm:"not null"                 json:"address"`
	Phone     string    `json:"phone"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	PlusCode  string    `json:"plus_code,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Rating struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

func All() []any {
	return []any{&User{}, &Product{}, &Review{}, &Shop{}}
}
