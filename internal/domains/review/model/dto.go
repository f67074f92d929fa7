package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"bookreview-backend/internal/shared/utils"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// CreateReviewRequest request to create review
type CreateReviewRequest struct {
	BookID  uuid.UUID `json:"book_id"`
	Text    string    `json:"text"`
	Score   int       `json:"score"`
	UpVotes int       `json:"up_votes"`
}

func (r CreateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.By(utils.RequiredUUID)),
		validation.Field(&r.Text,
			validation.Required.Error("text is required"),
			validation.Length(1, MaxTextLength),
		),
		// Required also rejects 0, which Min skips
		validation.Field(&r.Score,
			validation.Required.Error("score must be between 1 and 5"),
			validation.Min(MinScore).Error("score must be between 1 and 5"),
			validation.Max(MaxScore).Error("score must be between 1 and 5"),
		),
		validation.Field(&r.UpVotes,
			validation.Min(0).Error("up_votes must be >= 0"),
		),
	)
}

// UpdateReviewRequest request to update review
// BookID moves the review to another book.
type UpdateReviewRequest struct {
	BookID  *uuid.UUID `json:"book_id"`
	Text    *string    `json:"text"`
	Score   *int       `json:"score"`
	UpVotes *int       `json:"up_votes"`
}

func (r UpdateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.By(utils.RequiredUUID)),
		validation.Field(&r.Text,
			validation.When(r.Text != nil,
				validation.Required.Error("text cannot be blank"),
				validation.Length(1, MaxTextLength),
			),
		),
		validation.Field(&r.Score,
			validation.When(r.Score != nil,
				validation.Required.Error("score must be between 1 and 5"),
				validation.Min(MinScore).Error("score must be between 1 and 5"),
				validation.Max(MaxScore).Error("score must be between 1 and 5"),
			),
		),
		validation.Field(&r.UpVotes,
			validation.When(r.UpVotes != nil,
				validation.Min(0).Error("up_votes must be >= 0"),
			),
		),
	)
}
