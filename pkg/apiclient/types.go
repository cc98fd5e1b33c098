package apiclient

import "time"

type User struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Session struct {
	User
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Rating struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

type Product struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image_url"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	Rating      *Rating   `json:"rating,omitempty"`
}

type ProductFilter struct {
	Query    string
	Category string
	Sort     string
	Page     int
	Size     int
}

type Review struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	ProductID   uint      `json:"product_id"`
	Review      string    `json:"review"`
	Stars       int       `json:"stars"`
	CreatedAt   time.Time `json:"created_at"`
	UserName    string    `json:"user_name,omitempty"`
	ProductName string    `json:"product_name,omitempty"`
}

type Shop struct {
	ID         uint      `json:"id"`
	Address    string    `json:"address"`
	Phone      string    `json:"phone"`
	Latitude   *float64  `json:"latitude"`
	Longitude  *float64  `json:"longitude"`
	PlusCode   string    `json:"plus_code,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	DistanceKM float64   `json:"distance_km,omitempty"`
}
