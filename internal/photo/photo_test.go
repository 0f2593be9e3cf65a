package photo

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/starford/vibecard/internal/apperr"
	"github.com/starford/vibecard/internal/models"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestEmbedAndDecode(t *testing.T) {
	p, err := Embed(pngHeader, "me.png")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if !strings.HasPrefix(string(p), "data:image/png;base64,") {
		t.Errorf("photo = %q", p)
	}
	if !p.Embedded() || p.Shareable() {
		t.Error("embedded photo must not be shareable")
	}

	data, mime, err := Decode(p)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if mime != "image/png" {
		t.Errorf("mime = %q", mime)
	}
	if !bytes.Equal(data, pngHeader) {
		t.Error("decoded bytes differ")
	}
}

func TestEmbed_NoFilename(t *testing.T) {
	if _, err := Embed([]byte("GIF89a\x01\x00\x01\x00"), ""); err != nil {
		t.Errorf("gif without filename: %v", err)
	}
}

func TestEmbed_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		filename string
	}{
		{"empty", nil, "a.png"},
		{"text", []byte("hello world"), ""},
		{"pdf", []byte("%PDF-1.7\n"), "doc.pdf"},
		{"mismatch", pngHeader, "photo.jpg"},
		{"bad extension", pngHeader, "photo.bmp"},
		{"too large", append(append([]byte{}, pngHeader...), make([]byte, MaxSize)...), "big.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Embed(tt.data, tt.filename); !errors.Is(err, apperr.ErrUnsupportedPhoto) {
				t.Errorf("err = %v, want ErrUnsupportedPhoto", err)
			}
		})
	}
}

func TestDecode_Rejects(t *testing.T) {
	for _, ref := range []string{
		"https://example.com/a.png",
		"data:image/png;base64",
		"data:image/png,raw",
		"data:application/pdf;base64,JVBERi0=",
		"data:image/png;base64,!!!",
	} {
		if _, _, err := Decode(models.Photo(ref)); !errors.Is(err, apperr.ErrUnsupportedPhoto) {
			t.Errorf("Decode(%q) err = %v", ref, err)
		}
	}
}

func TestDigest(t *testing.T) {
	const want = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got := Digest([]byte("hello")); got != want {
		t.Errorf("Digest = %s", got)
	}
}
