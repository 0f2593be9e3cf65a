// Package controller holds the live card and the screen the user is on, and
// keeps both in step with the location's query string.
//
// A Controller is confined to the goroutine that drives one session and is
// not safe for concurrent use. The only blocking call is the message
// provider inside Finalize; while it runs, State().Processing is true and
// the caller is expected not to submit again. Every edit (vibe, field,
// photo) is mirrored into the location right away; SyncToLocation only
// replaces the entry when the query changes. No cancellation or timeout is
// added here: if the provider hangs, the controller stays processing until
// ctx is done or the provider returns.
package controller

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/vibecard/internal/apperr"
	"github.com/starford/vibecard/internal/codec"
	"github.com/starford/vibecard/internal/message"
	"github.com/starford/vibecard/internal/models"
	"github.com/starford/vibecard/internal/photo"
)

// State is a snapshot of the controller.
type State struct {
	Screen     models.Screen `json:"screen"`
	Card       models.Card   `json:"card"`
	Processing bool          `json:"processing"`
	Unveiled   bool          `json:"unveiled"`
}

// Controller is the single owner of a session's card and screen.
type Controller struct {
	card       models.Card
	screen     models.Screen
	processing bool
	unveiled   bool

	provider message.Provider
	location Location
	logger   *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// New creates a controller at SELECTION with an empty card.
func New(provider message.Provider, location Location, opts ...Option) *Controller {
	c := &Controller{
		card:     models.NewCard(),
		screen:   models.ScreenSelection,
		provider: provider,
		location: location,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	return State{
		Screen:     c.screen,
		Card:       c.card,
		Processing: c.processing,
		Unveiled:   c.unveiled,
	}
}

// Screen returns the current screen.
func (c *Controller) Screen() models.Screen { return c.screen }

// Card returns a copy of the current card.
func (c *Controller) Card() models.Card { return c.card }

// SelectVibe picks the card's vibe and opens the editor.
func (c *Controller) SelectVibe(v models.Vibe) error {
	if err := c.expect(models.ScreenSelection); err != nil {
		return err
	}
	if !v.Valid() {
		return fmt.Errorf("controller: select vibe: %w: %q", apperr.ErrUnrecognizedVibe, v)
	}
	c.card.Vibe = v
	c.screen = models.ScreenEdit
	return c.syncEdit("select vibe")
}

// Back leaves the editor for the selection screen, keeping what was typed.
func (c *Controller) Back() error {
	if err := c.expect(models.ScreenEdit); err != nil {
		return err
	}
	c.screen = models.ScreenSelection
	return nil
}

// UpdateField sets one card field. Values are stored as given; escaping is
// the renderer's job.
func (c *Controller) UpdateField(f models.Field, value string) error {
	if err := c.expect(models.ScreenEdit); err != nil {
		return err
	}
	if err := c.card.Set(f, value); err != nil {
		return fmt.Errorf("controller: update field: %w", err)
	}
	return c.syncEdit("update field")
}

// AttachPhoto sets an external photo URL.
func (c *Controller) AttachPhoto(url string) error {
	if err := c.expect(models.ScreenEdit); err != nil {
		return err
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return fmt.Errorf("controller: attach photo: %w: %s", apperr.ErrMissingRequiredField, models.FieldPhoto)
	}
	c.card.Photo = models.Photo(url)
	return c.syncEdit("attach photo")
}

// AttachPhotoData embeds an uploaded image. The photo shows for this session
// only; it is left out of the share link.
func (c *Controller) AttachPhotoData(data []byte, filename string) error {
	if err := c.expect(models.ScreenEdit); err != nil {
		return err
	}
	p, err := photo.Embed(data, filename)
	if err != nil {
		return fmt.Errorf("controller: attach photo: %w", err)
	}
	c.card.Photo = p
	return c.syncEdit("attach photo")
}

// Finalize checks the required names, fills a blank message from the
// provider, and moves to REVEAL. On a missing name nothing changes.
func (c *Controller) Finalize(ctx context.Context) error {
	if err := c.expect(models.ScreenEdit); err != nil {
		return err
	}
	if missing := c.card.Missing(); len(missing) > 0 {
		return fmt.Errorf("controller: finalize: %w: %s", apperr.ErrMissingRequiredField, missing[0])
	}

	if strings.TrimSpace(c.card.Message) == "" {
		c.processing = true
		msg := c.provider.Generate(ctx, c.card.Vibe, c.card.RecipientName)
		c.processing = false
		if msg == "" {
			msg = message.Fallback
		}
		c.card.Message = msg
	}

	c.screen = models.ScreenReveal
	c.unveiled = false
	if _, err := c.SyncToLocation(); err != nil {
		return fmt.Errorf("controller: finalize: %w", err)
	}
	return nil
}

// Unveil marks the revealed card as opened.
func (c *Controller) Unveil() error {
	if err := c.expect(models.ScreenReveal); err != nil {
		return err
	}
	c.unveiled = true
	return nil
}

// Restart drops the card and returns to SELECTION with a clean address.
func (c *Controller) Restart() {
	c.card = models.NewCard()
	c.screen = models.ScreenSelection
	c.processing = false
	c.unveiled = false
	c.location.Push("")
}

// SyncFromLocation adopts the card encoded in the location and shows it.
// Any decode failure sends the user to SELECTION; the error is returned for
// logging only and is never meant for display.
func (c *Controller) SyncFromLocation() error {
	card, err := codec.Decode(c.location.Search())
	if err != nil {
		c.screen = models.ScreenSelection
		c.unveiled = false
		c.logger.Debug("no shared card in location", slog.String("error", err.Error()))
		return err
	}
	c.card = card
	c.screen = models.ScreenReveal
	c.unveiled = false
	return nil
}

// SyncToLocation mirrors the card into the location while editing or
// revealing. The location is only touched when the query would change; the
// return value reports whether it did.
func (c *Controller) SyncToLocation() (bool, error) {
	if c.screen != models.ScreenEdit && c.screen != models.ScreenReveal {
		return false, nil
	}
	query, err := codec.Encode(c.card)
	if err != nil {
		return false, err
	}
	if c.location.Search() == query {
		return false, nil
	}
	c.location.Replace(query)
	return true, nil
}

// syncEdit mirrors an edit into the location so a reload keeps the draft.
func (c *Controller) syncEdit(op string) error {
	if _, err := c.SyncToLocation(); err != nil {
		return fmt.Errorf("controller: %s: %w", op, err)
	}
	return nil
}

func (c *Controller) expect(s models.Screen) error {
	if c.screen != s {
		return fmt.Errorf("controller: %w: on %s, need %s", apperr.ErrInvalidTransition, c.screen, s)
	}
	return nil
}
