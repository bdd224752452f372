package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateGameRequest struct {
	Title       string `json:"title"`
	Platform    string `json:"platform"`
	Publisher   string `json:"publisher"`
	ReleaseYear int    `json:"release_year"`
	Abandonware bool   `json:"abandonware"`
}

func (req *CreateGameRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Platform, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.Publisher, validation.Length(0, 100)),
		validation.Field(&req.ReleaseYear, validation.Min(1950), validation.Max(2100)),
	)
}
