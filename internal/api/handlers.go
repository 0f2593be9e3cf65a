package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/starford/vibecard/internal/apperr"
	"github.com/starford/vibecard/internal/cardservice"
	"github.com/starford/vibecard/internal/codec"
	"github.com/starford/vibecard/internal/models"
	"github.com/starford/vibecard/internal/photo"
)

const maxBodyBytes = 1 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *cardservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *cardservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListVibes handles GET /api/vibes.
//
//	@Summary		List the vibes a card can have
//	@Tags			cards
//	@Produce		json
//	@Success		200	{object}	VibesResponse
//	@Security		BearerAuth
//	@Router			/vibes [get]
func (h *Handler) ListVibes(w http.ResponseWriter, _ *http.Request) {
	out := make([]string, len(models.Vibes))
	for i, v := range models.Vibes {
		out[i] = v.Param()
	}
	writeJSON(w, http.StatusOK, VibesResponse{Vibes: out})
}

// ComposeCard handles POST /api/cards.
//
//	@Summary		Compose a card, generating the message when it is blank
//	@Tags			cards
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ComposeCardRequest	true	"Card to compose"
//	@Success		201		{object}	CardResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/cards [post]
func (h *Handler) ComposeCard(w http.ResponseWriter, r *http.Request) {
	var req ComposeCardRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	res, err := h.svc.Compose(r.Context(), req.input())
	if err != nil {
		h.fail(w, "compose card failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// EncodeCard handles POST /api/cards/encode.
//
//	@Summary		Build the share link for a finished card
//	@Tags			cards
//	@Accept			json
//	@Produce		json
//	@Param			body	body		EncodeCardRequest	true	"Finished card"
//	@Success		200		{object}	CardResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/cards/encode [post]
func (h *Handler) EncodeCard(w http.ResponseWriter, r *http.Request) {
	var req EncodeCardRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	vibe, err := models.ParseVibe(req.Vibe)
	if err != nil {
		h.fail(w, "encode card failed", err)
		return
	}

	res, err := h.svc.Encode(models.Card{
		Vibe:          vibe,
		RecipientName: req.RecipientName,
		SenderName:    req.SenderName,
		Message:       req.Message,
		Photo:         models.Photo(req.PhotoURL),
	})
	if err != nil {
		h.fail(w, "encode card failed", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// DecodeCard handles GET /api/cards/decode.
//
//	@Summary		Read the card carried by a share link
//	@Tags			cards
//	@Produce		json
//	@Param			link	query		string	false	"Full share link"
//	@Param			v		query		string	false	"Vibe"
//	@Param			d		query		string	false	"Payload"
//	@Param			p		query		string	false	"Photo URL"
//	@Success		200		{object}	CardResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/cards/decode [get]
func (h *Handler) DecodeCard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	link := q.Get("link")
	if link == "" {
		// Re-encode only the card parameters so unrelated ones are ignored.
		card := url.Values{}
		for _, k := range []string{codec.ParamVibe, codec.ParamPayload, codec.ParamPhoto} {
			if v, ok := q[k]; ok {
				card[k] = v
			}
		}
		link = card.Encode()
	}

	res, err := h.svc.Open(link)
	if err != nil {
		h.fail(w, "decode card failed", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GenerateMessage handles POST /api/messages.
//
//	@Summary		Generate a message for a vibe and recipient
//	@Tags			messages
//	@Accept			json
//	@Produce		json
//	@Param			body	body		GenerateMessageRequest	true	"Vibe and recipient"
//	@Success		200		{object}	MessageResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/messages [post]
func (h *Handler) GenerateMessage(w http.ResponseWriter, r *http.Request) {
	var req GenerateMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	msg, err := h.svc.GenerateMessage(r.Context(), req.Vibe, req.RecipientName)
	if err != nil {
		h.fail(w, "generate message failed", err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

// UploadPhoto handles POST /api/photos (multipart/form-data, field "file").
// The image comes back embedded; it is for previews and is never shareable.
//
//	@Summary		Embed an uploaded photo for the current session
//	@Tags			photos
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Image file"
//	@Success		201		{object}	PhotoUploadResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/photos [post]
func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, photo.MaxSize+maxBodyBytes)

	if err := r.ParseMultipartForm(photo.MaxSize); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, photo.MaxSize+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read file"))
		return
	}

	p, err := photo.Embed(data, header.Filename)
	if err != nil {
		h.fail(w, "upload photo failed", err)
		return
	}
	_, mime, err := photo.Decode(p)
	if err != nil {
		h.fail(w, "upload photo failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, PhotoUploadResponse{
		Photo:     p,
		MIME:      mime,
		Size:      int64(len(data)),
		SHA256:    photo.Digest(data),
		Shareable: p.Shareable(),
	})
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	status, body := domainError(err)
	if status >= http.StatusInternalServerError {
		slog.Error(msg, slog.String("error", err.Error()))
	} else if !apperr.IsDecodeFailure(err) {
		slog.Debug(msg, slog.String("error", err.Error()))
	}
	writeJSON(w, status, body)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	return true
}
