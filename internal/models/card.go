// Package models defines the domain types for vibecard.
package models

import (
	"fmt"
	"strings"

	"github.com/starford/vibecard/internal/apperr"
)

// Vibe is the emotional category that selects a card's theme and the
// flavour of a generated message.
type Vibe string

// Known vibes.
const (
	VibeLove     Vibe = "LOVE"
	VibePropose  Vibe = "PROPOSE"
	VibeSorry    Vibe = "SORRY"
	VibeFriend   Vibe = "FRIEND"
	VibeBirthday Vibe = "BIRTHDAY"
)

// Vibes lists every vibe in display order.
var Vibes = []Vibe{VibeLove, VibePropose, VibeSorry, VibeFriend, VibeBirthday}

// ParseVibe matches s case-insensitively against the fixed set of vibes.
func ParseVibe(s string) (Vibe, error) {
	up := Vibe(strings.ToUpper(strings.TrimSpace(s)))
	for _, v := range Vibes {
		if v == up {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", apperr.ErrUnrecognizedVibe, s)
}

// Valid reports whether v is one of the known vibes.
func (v Vibe) Valid() bool {
	for _, known := range Vibes {
		if v == known {
			return true
		}
	}
	return false
}

// Param returns the lower-case form used in links.
func (v Vibe) Param() string {
	return strings.ToLower(string(v))
}

func (v Vibe) String() string { return string(v) }

// Photo references a card picture: either an external URL or an embedded
// data: URI. Embedded photos only live as long as the session that made them.
type Photo string

// Embedded reports whether p carries its bytes inline.
func (p Photo) Embedded() bool {
	return strings.HasPrefix(string(p), "data:")
}

// Shareable reports whether p survives encoding into a link.
func (p Photo) Shareable() bool {
	return p != "" && !p.Embedded()
}

// Card is the serializable unit of user-entered card data.
type Card struct {
	Vibe          Vibe   `json:"vibe"`
	RecipientName string `json:"recipient_name"`
	SenderName    string `json:"sender_name"`
	Message       string `json:"message"`
	Photo         Photo  `json:"photo,omitempty"`
}

// NewCard returns the empty card a fresh session starts with.
func NewCard() Card {
	return Card{Vibe: VibeLove}
}

// Screen is the step of the card flow the user is on.
type Screen string

// Screens.
const (
	ScreenSelection Screen = "SELECTION"
	ScreenEdit      Screen = "EDIT"
	ScreenReveal    Screen = "REVEAL"
)

// Field names an editable card field.
type Field string

// Editable fields.
const (
	FieldRecipientName Field = "recipientName"
	FieldSenderName    Field = "senderName"
	FieldMessage       Field = "message"
	FieldPhoto         Field = "photo"
)

// Set assigns value to the named field of c.
func (c *Card) Set(f Field, value string) error {
	switch f {
	case FieldRecipientName:
		c.RecipientName = value
	case FieldSenderName:
		c.SenderName = value
	case FieldMessage:
		c.Message = value
	case FieldPhoto:
		c.Photo = Photo(value)
	default:
		return fmt.Errorf("%w: %q", apperr.ErrUnknownField, f)
	}
	return nil
}

// Missing returns the required fields that are still empty. Names are
// taken as typed; a name of spaces counts as given.
func (c Card) Missing() []Field {
	var out []Field
	if c.RecipientName == "" {
		out = append(out, FieldRecipientName)
	}
	if c.SenderName == "" {
		out = append(out, FieldSenderName)
	}
	return out
}
