package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/vibecard/internal/cardservice"
	"github.com/starford/vibecard/internal/models"
)

// ComposeCardRequest is the request body for composing a card.
type ComposeCardRequest struct {
	Vibe          string `json:"vibe" example:"birthday" validate:"required"`
	RecipientName string `json:"recipient_name" example:"Maya" validate:"required"`
	SenderName    string `json:"sender_name" example:"Liam" validate:"required"`
	Message       string `json:"message" example:""`
	PhotoURL      string `json:"photo_url,omitempty" example:"https://example.com/us.jpg"`
}

// Validate checks field shapes. Missing names are left to the card flow so
// they surface as missing_required_field.
func (r ComposeCardRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Vibe, validation.Required, isVibe),
		validation.Field(&r.RecipientName, validation.Length(0, 200)),
		validation.Field(&r.SenderName, validation.Length(0, 200)),
		validation.Field(&r.Message, validation.Length(0, 2000)),
		validation.Field(&r.PhotoURL, validation.Length(0, 2048)),
	)
}

func (r ComposeCardRequest) input() cardservice.ComposeInput {
	return cardservice.ComposeInput{
		Vibe:          r.Vibe,
		RecipientName: r.RecipientName,
		SenderName:    r.SenderName,
		Message:       r.Message,
		PhotoURL:      r.PhotoURL,
	}
}

// EncodeCardRequest is the request body for encoding a finished card.
type EncodeCardRequest struct {
	ComposeCardRequest
}

// GenerateMessageRequest is the request body for generating a message.
type GenerateMessageRequest struct {
	Vibe          string `json:"vibe" example:"sorry" validate:"required"`
	RecipientName string `json:"recipient_name" example:"Alex" validate:"required"`
}

// Validate checks field shapes.
func (r GenerateMessageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Vibe, validation.Required, isVibe),
		validation.Field(&r.RecipientName, validation.Length(0, 200)),
	)
}

// CardResponse is a card with its share link (aliased from the domain layer).
type CardResponse = cardservice.Result

// MessageResponse carries a generated message.
type MessageResponse struct {
	Message string `json:"message" example:"Shine on, legend." validate:"required"`
}

// PhotoUploadResponse is returned after an image is embedded.
type PhotoUploadResponse struct {
	Photo     models.Photo `json:"photo" validate:"required"`
	MIME      string       `json:"mime" example:"image/png" validate:"required"`
	Size      int64        `json:"size" example:"12345" validate:"required"`
	SHA256    string       `json:"sha256" example:"9f86d081884c7d65..." validate:"required"`
	Shareable bool         `json:"shareable" example:"false"`
}

// VibesResponse lists the vibes a card can have.
type VibesResponse struct {
	Vibes []string `json:"vibes" validate:"required"`
}

// isVibe accepts any casing ParseVibe accepts.
var isVibe = validation.By(func(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := models.ParseVibe(s); err != nil {
		return validation.NewError("validation_vibe_unknown", "must be one of love, propose, sorry, friend, birthday")
	}
	return nil
})
