// Package cardservice runs the card flow headlessly for callers that hold no
// session of their own: the HTTP API, the MCP tools and the CLI.
package cardservice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/vibecard/internal/apperr"
	"github.com/starford/vibecard/internal/codec"
	"github.com/starford/vibecard/internal/controller"
	"github.com/starford/vibecard/internal/message"
	"github.com/starford/vibecard/internal/models"
)

// ComposeInput is everything a user would type into the editor.
type ComposeInput struct {
	Vibe          string `json:"vibe"`
	RecipientName string `json:"recipient_name"`
	SenderName    string `json:"sender_name"`
	Message       string `json:"message"`
	PhotoURL      string `json:"photo_url,omitempty"`
	// PhotoData is an uploaded image. It shows on the returned card only and
	// never reaches the link.
	PhotoData     []byte `json:"-"`
	PhotoFilename string `json:"-"`
}

// Result is a finished card and its link.
type Result struct {
	Card  models.Card `json:"card"`
	Query string      `json:"query"`
	URL   string      `json:"url"`
}

// Service coordinates the controller, codec and message provider.
type Service struct {
	provider message.Provider
	baseURL  string
	logger   *slog.Logger
}

// NewService creates a new card service. baseURL is the page share links
// point at.
func NewService(provider message.Provider, baseURL string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{provider: provider, baseURL: baseURL, logger: logger}
}

// BaseURL returns the page share links point at.
func (s *Service) BaseURL() string { return s.baseURL }

// Compose walks a fresh controller through select, edit and finalize. A
// blank message is generated by the provider.
func (s *Service) Compose(ctx context.Context, in ComposeInput) (*Result, error) {
	vibe, err := models.ParseVibe(in.Vibe)
	if err != nil {
		return nil, err
	}

	loc := controller.NewMemoryLocation("")
	c := controller.New(s.provider, loc, controller.WithLogger(s.logger))

	if err := c.SelectVibe(vibe); err != nil {
		return nil, err
	}
	for _, f := range []struct {
		field models.Field
		value string
	}{
		{models.FieldRecipientName, in.RecipientName},
		{models.FieldSenderName, in.SenderName},
		{models.FieldMessage, in.Message},
	} {
		if err := c.UpdateField(f.field, f.value); err != nil {
			return nil, err
		}
	}

	switch {
	case len(in.PhotoData) > 0:
		if err := c.AttachPhotoData(in.PhotoData, in.PhotoFilename); err != nil {
			return nil, err
		}
	case strings.TrimSpace(in.PhotoURL) != "":
		if err := c.AttachPhoto(in.PhotoURL); err != nil {
			return nil, err
		}
	}

	if err := c.Finalize(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("card composed",
		slog.String("vibe", vibe.Param()),
		slog.Bool("generated", strings.TrimSpace(in.Message) == ""))

	return &Result{
		Card:  c.Card(),
		Query: loc.Search(),
		URL:   codec.ShareURL(s.baseURL, loc.Search()),
	}, nil
}

// Encode builds the link for a finished card without generating anything.
func (s *Service) Encode(card models.Card) (*Result, error) {
	if missing := card.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("cardservice: encode: %w: %s", apperr.ErrMissingRequiredField, missing[0])
	}
	query, err := codec.Encode(card)
	if err != nil {
		return nil, err
	}
	return &Result{Card: card, Query: query, URL: codec.ShareURL(s.baseURL, query)}, nil
}

// Open loads a shared link the way a browser landing on it would. link may
// be a full URL, with or without a scheme, or a bare query string. Decode
// failures are returned as is.
func (s *Service) Open(link string) (*Result, error) {
	query := strings.TrimSpace(link)
	if i := strings.IndexByte(query, '?'); i >= 0 {
		query = query[i+1:]
	} else if strings.Contains(query, "://") {
		// A full URL with no query carries no card.
		query = ""
	}
	if i := strings.IndexByte(query, '#'); i >= 0 {
		query = query[:i]
	}

	loc := controller.NewMemoryLocation(query)
	c := controller.New(s.provider, loc, controller.WithLogger(s.logger))
	if err := c.SyncFromLocation(); err != nil {
		return nil, err
	}
	return &Result{
		Card:  c.Card(),
		Query: loc.Search(),
		URL:   codec.ShareURL(s.baseURL, loc.Search()),
	}, nil
}

// GenerateMessage asks the provider for a message without building a card.
func (s *Service) GenerateMessage(ctx context.Context, vibe, recipient string) (string, error) {
	v, err := models.ParseVibe(vibe)
	if err != nil {
		return "", err
	}
	if recipient == "" {
		return "", fmt.Errorf("cardservice: generate: %w: %s", apperr.ErrMissingRequiredField, models.FieldRecipientName)
	}
	return s.provider.Generate(ctx, v, recipient), nil
}
