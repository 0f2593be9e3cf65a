package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/starford/vibecard/internal/cardservice"
	"github.com/starford/vibecard/internal/photo"
	"github.com/starford/vibecard/internal/testutil"
)

const testBase = "https://cards.example.com/"

// testEnv builds a router over a recording provider.
// An empty authToken means disabled mode.
func testEnv(t *testing.T, authToken string) (*testutil.RecordingProvider, http.Handler) {
	t.Helper()
	provider := &testutil.RecordingProvider{Message: "Shine on, legend."}
	svc := cardservice.NewService(provider, testBase, testutil.QuietLogger())
	return provider, NewRouter(svc, authToken != "", authToken)
}

func doJSON(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestComposeCard(t *testing.T) {
	provider, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/cards", map[string]string{
		"vibe": "birthday", "recipient_name": "Maya", "sender_name": "Liam", "message": "",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("compose status = %d, body = %s", w.Code, w.Body.String())
	}
	var res CardResponse
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	if res.Card.Message != "Shine on, legend." {
		t.Errorf("message = %q", res.Card.Message)
	}
	wantQuery := "v=birthday&d=" + testutil.Payload("Maya|Liam|Shine on, legend.")
	if res.Query != wantQuery {
		t.Errorf("query = %q, want %q", res.Query, wantQuery)
	}
	if res.URL != testBase+"?"+wantQuery {
		t.Errorf("url = %q", res.URL)
	}
	if len(provider.Calls()) != 1 {
		t.Errorf("provider calls = %d", len(provider.Calls()))
	}
}

func TestComposeCard_MissingName(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/cards", map[string]string{
		"vibe": "love", "recipient_name": "", "sender_name": "Sam",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	var body errResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Code != "missing_required_field" {
		t.Errorf("code = %q", body.Code)
	}
}

func TestComposeCard_InvalidBody(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodPost, "/cards", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/cards", map[string]string{
		"vibe": "angry", "recipient_name": "A", "sender_name": "B",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown vibe status = %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/cards", map[string]string{
		"vibe": "Birthday", "recipient_name": "A", "sender_name": "B", "message": "Hi",
	})
	if w.Code != http.StatusCreated {
		t.Errorf("mixed-case vibe status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestEncodeCard(t *testing.T) {
	provider, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/cards/encode", map[string]string{
		"vibe": "SORRY", "recipient_name": "Alex", "sender_name": "Sam", "photo_url": "https://example.com/a.jpg",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var res CardResponse
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	want := "v=sorry&d=" + testutil.Payload("Alex|Sam|") + "&p=" + url.QueryEscape("https://example.com/a.jpg")
	if res.Query != want {
		t.Errorf("query = %q, want %q", res.Query, want)
	}
	if len(provider.Calls()) != 0 {
		t.Error("encode must not generate")
	}
}

func TestDecodeCard(t *testing.T) {
	_, router := testEnv(t, "")

	target := "/cards/decode?v=sorry&d=" + testutil.Payload("Alex|Sam|") + "&utm_source=chat"
	w := doJSON(t, router, http.MethodGet, target, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var res CardResponse
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	if res.Card.RecipientName != "Alex" || res.Card.SenderName != "Sam" || res.Card.Message != "" {
		t.Errorf("card = %+v", res.Card)
	}
	if strings.Contains(res.Query, "utm_source") {
		t.Errorf("query kept unrelated params: %q", res.Query)
	}
}

func TestDecodeCard_Link(t *testing.T) {
	_, router := testEnv(t, "")

	link := testBase + "?v=friend&d=" + testutil.Payload("Jo|Kim|hype")
	w := doJSON(t, router, http.MethodGet, "/cards/decode?link="+url.QueryEscape(link), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var res CardResponse
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	if res.Card.Message != "hype" {
		t.Errorf("message = %q", res.Card.Message)
	}
}

func TestDecodeCard_Failures(t *testing.T) {
	_, router := testEnv(t, "")

	tests := []struct {
		target string
		code   string
	}{
		{"/cards/decode?v=UNKNOWN&d=" + testutil.Payload("A|B|C"), "unrecognized_vibe"},
		{"/cards/decode?v=love", "missing_parameters"},
		{"/cards/decode?v=love&d=" + testutil.Payload("Alex"), "malformed_payload"},
	}
	for _, tt := range tests {
		w := doJSON(t, router, http.MethodGet, tt.target, nil)
		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: status = %d", tt.target, w.Code)
			continue
		}
		var body errResponse
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body.Code != tt.code {
			t.Errorf("%s: code = %q, want %q", tt.target, body.Code, tt.code)
		}
	}
}

func TestGenerateMessage(t *testing.T) {
	provider, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/messages", map[string]string{"vibe": "love", "recipient_name": "Maya"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var res MessageResponse
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	if res.Message != "Shine on, legend." {
		t.Errorf("message = %q", res.Message)
	}
	if c := provider.Calls(); len(c) != 1 || c[0].Recipient != "Maya" {
		t.Errorf("calls = %+v", c)
	}

	w = doJSON(t, router, http.MethodPost, "/messages", map[string]string{"vibe": "love"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing recipient status = %d", w.Code)
	}
}

func TestListVibes(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodGet, "/vibes", nil)
	var res VibesResponse
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	if strings.Join(res.Vibes, ",") != "love,propose,sorry,friend,birthday" {
		t.Errorf("vibes = %v", res.Vibes)
	}
}

func uploadRequest(t *testing.T, filename string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write(data)
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/photos", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadPhoto(t *testing.T) {
	_, router := testEnv(t, "")

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "us.png", png))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var res PhotoUploadResponse
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	if res.MIME != "image/png" || res.Size != int64(len(png)) || res.Shareable {
		t.Errorf("response = %+v", res)
	}
	if !res.Photo.Embedded() {
		t.Errorf("photo = %q", res.Photo)
	}
	if res.SHA256 != photo.Digest(png) {
		t.Errorf("sha256 = %q", res.SHA256)
	}
}

func TestUploadPhoto_Rejected(t *testing.T) {
	_, router := testEnv(t, "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "notes.txt", []byte("just text")))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/photos", strings.NewReader("x"))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("non-multipart status = %d", w.Code)
	}
}

func TestAuthTokenMode(t *testing.T) {
	_, router := testEnv(t, "secret")

	req := httptest.NewRequest(http.MethodGet, "/vibes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/vibes", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/vibes", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid token = %d, want 200", w.Code)
	}
}
