package domain

import "time"

type Game struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Platform    string    `json:"platform"`
	Publisher   string    `json:"publisher"`
	ReleaseYear int       `json:"release_year"`
	Abandonware bool      `json:"abandonware"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
