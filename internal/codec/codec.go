// Package codec converts cards to and from the query string of a share link.
//
// Wire layout:
//
//	v  lower-case vibe name
//	d  base64(recipient|sender|message), standard alphabet, padded, UTF-8
//	p  external photo URL, verbatim; omitted for embedded photos
//
// Pipes and backslashes inside a field are backslash-escaped so that names and
// messages containing "|" survive a round trip. Links written without escapes
// decode the same way they always did.
package codec

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/starford/vibecard/internal/apperr"
	"github.com/starford/vibecard/internal/models"
)

// Query parameter names.
const (
	ParamVibe    = "v"
	ParamPayload = "d"
	ParamPhoto   = "p"
)

const (
	delimiter = '|'
	escape    = '\\'
)

// Encode packs card into a query string without the leading "?".
// Parameters are emitted in the order v, d, p.
func Encode(card models.Card) (string, error) {
	if !card.Vibe.Valid() {
		return "", fmt.Errorf("codec: encode: %w: %q", apperr.ErrUnrecognizedVibe, card.Vibe)
	}

	payload := joinFields(card.RecipientName, card.SenderName, card.Message)

	var b strings.Builder
	b.WriteString(ParamVibe)
	b.WriteByte('=')
	b.WriteString(url.QueryEscape(card.Vibe.Param()))
	b.WriteByte('&')
	b.WriteString(ParamPayload)
	b.WriteByte('=')
	b.WriteString(url.QueryEscape(base64.StdEncoding.EncodeToString([]byte(payload))))
	if card.Photo.Shareable() {
		b.WriteByte('&')
		b.WriteString(ParamPhoto)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(string(card.Photo)))
	}
	return b.String(), nil
}

// Decode rebuilds a card from a query string. A leading "?" is accepted.
// Every failure wraps one of apperr.ErrMissingParameters,
// apperr.ErrUnrecognizedVibe or apperr.ErrMalformedPayload.
func Decode(query string) (models.Card, error) {
	// Bad escapes elsewhere in the query must not hide v and d.
	values, _ := url.ParseQuery(strings.TrimPrefix(query, "?"))

	rawVibe := values.Get(ParamVibe)
	rawPayload := values.Get(ParamPayload)
	if rawVibe == "" || rawPayload == "" {
		return models.Card{}, fmt.Errorf("codec: decode: %w: need %q and %q", apperr.ErrMissingParameters, ParamVibe, ParamPayload)
	}

	vibe, err := models.ParseVibe(rawVibe)
	if err != nil {
		return models.Card{}, fmt.Errorf("codec: decode: %w", err)
	}

	raw, err := decodeBase64(rawPayload)
	if err != nil {
		return models.Card{}, fmt.Errorf("codec: decode: %w: %v", apperr.ErrMalformedPayload, err)
	}
	if !utf8.Valid(raw) {
		return models.Card{}, fmt.Errorf("codec: decode: %w: payload is not UTF-8", apperr.ErrMalformedPayload)
	}

	fields := splitFields(string(raw))
	if len(fields) < 2 {
		return models.Card{}, fmt.Errorf("codec: decode: %w: want at least 2 fields, got %d", apperr.ErrMalformedPayload, len(fields))
	}

	card := models.Card{
		Vibe:          vibe,
		RecipientName: fields[0],
		SenderName:    fields[1],
		Photo:         models.Photo(values.Get(ParamPhoto)),
	}
	if len(fields) > 2 {
		card.Message = fields[2]
	}
	return card, nil
}

// ShareURL appends query to base, replacing any query base already carries.
func ShareURL(base, query string) string {
	if i := strings.IndexByte(base, '?'); i >= 0 {
		base = base[:i]
	}
	if query == "" {
		return base
	}
	return base + "?" + query
}

// decodeBase64 accepts padded and unpadded input. Spaces are put back to "+"
// since form decoding turns an unescaped "+" into a space and base64 never
// contains spaces.
func decodeBase64(s string) ([]byte, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "+")
	data, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}
	if data, rawErr := base64.RawStdEncoding.DecodeString(s); rawErr == nil {
		return data, nil
	}
	return nil, err
}

func joinFields(fields ...string) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(delimiter)
		}
		for j := 0; j < len(f); j++ {
			if f[j] == delimiter || f[j] == escape {
				b.WriteByte(escape)
			}
			b.WriteByte(f[j])
		}
	}
	return b.String()
}

// splitFields splits on unescaped delimiters. An escape followed by anything
// other than a delimiter or another escape is kept as a literal backslash.
func splitFields(s string) []string {
	var (
		fields []string
		cur    strings.Builder
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == escape && i+1 < len(s) && (s[i+1] == delimiter || s[i+1] == escape):
			cur.WriteByte(s[i+1])
			i++
		case c == delimiter:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(fields, cur.String())
}
