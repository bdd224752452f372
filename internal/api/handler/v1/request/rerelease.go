package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

const MaxCommentLength = 500

type CastVoteRequest struct {
	Comment string `json:"comment"`
}

func (req *CastVoteRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Comment, validation.RuneLength(0, MaxCommentLength)),
	)
}

type FulfillRequest struct {
	FulfilledDate *time.Time `json:"fulfilled_date"`
}

func (req *FulfillRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.FulfilledDate, validation.Max(time.Now().Add(24*time.Hour)).Error("fulfilled_date cannot be in the future")),
	)
}
