package domain

import "time"

type Owner struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Property is a listing. Title is globally unique.
type Property struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Type          string    `json:"type"`
	ImageURLs     []string  `json:"image_urls"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	Country       string    `json:"country"`
	Sqft          int       `json:"sqft"`
	Bedrooms      int       `json:"bedrooms"`
	Bathrooms     int       `json:"bathrooms"`
	RegularPrice  int64     `json:"regular_price"`
	DiscountPrice int64     `json:"discount_price"`
	Furnished     bool      `json:"furnished"`
	Parking       bool      `json:"parking"`
	Owner         Owner     `json:"owner"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
