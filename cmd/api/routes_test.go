package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cam-hm/vietnamese-tts/internal/data"
	"github.com/cam-hm/vietnamese-tts/internal/speech"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type stubProvider struct {
	voices  []speech.Voice
	formats []string
	audio   []byte
	err     error
	calls   int
}

func (p *stubProvider) Name() string {
	return "stub"
}

func (p *stubProvider) Voices() []speech.Voice {
	return p.voices
}

func (p *stubProvider) Formats() []string {
	if p.formats == nil {
		return []string{speech.FormatMP3, speech.FormatWAV, speech.FormatOggOpus}
	}
	return p.formats
}

func (p *stubProvider) DefaultSpeakingRate() float64 {
	return 1.0
}

func (p *stubProvider) Synthesize(_ context.Context, _ speech.Request) ([]byte, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.audio, nil
}

func newTestServer(t *testing.T, provider speech.Provider) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config := &ServerConfig{
		Port:           ":0",
		Environment:    "development",
		AllowedOrigins: []string{"*"},
		StaticDir:      "testdata-missing",
	}
	return NewServer(config, provider, nil, log.New(io.Discard, "", 0))
}

func newHistoryServer(t *testing.T, provider speech.Provider) (*Server, *data.Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	repo := data.NewRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	config := &ServerConfig{
		Port:           ":0",
		Environment:    "development",
		AllowedOrigins: []string{"*"},
		StaticDir:      "testdata-missing",
	}
	return NewServer(config, provider, repo, log.New(io.Discard, "", 0)), repo
}

func doJSON(s *Server, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestSynthesizeReturnsAudio(t *testing.T) {
	stub := &stubProvider{audio: []byte{0x00, 0x01}}
	s := newTestServer(t, stub)

	w := doJSON(s, http.MethodPost, "/api/synthesize", map[string]any{
		"text":          "Hello world",
		"voice":         "935a9060-373c-49e4-b078-f4ea6326987a",
		"speaking_rate": 1.0,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	if !bytes.Equal(w.Body.Bytes(), []byte{0x00, 0x01}) {
		t.Errorf("body = %v, want stub audio bytes", w.Body.Bytes())
	}
	if got := w.Header().Get("Content-Type"); got != "audio/mpeg" {
		t.Errorf("Content-Type = %q, want audio/mpeg", got)
	}
	if got := w.Header().Get("Content-Disposition"); got != "attachment; filename=narration.mp3" {
		t.Errorf("Content-Disposition = %q", got)
	}
	if stub.calls != 1 {
		t.Errorf("provider called %d times, want 1", stub.calls)
	}
}

func TestSynthesizeEmptyTextRejectedBeforeVendorCall(t *testing.T) {
	stub := &stubProvider{audio: []byte("x")}
	s := newTestServer(t, stub)

	w := doJSON(s, http.MethodPost, "/api/synthesize", map[string]any{
		"text":  "",
		"voice": "v1",
	})

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	if stub.calls != 0 {
		t.Errorf("provider called %d times, want 0", stub.calls)
	}

	var resp ValidationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if len(resp.Detail) == 0 || resp.Detail[0].Field != "text" {
		t.Errorf("validation detail = %+v, want text field error", resp.Detail)
	}
}

func TestSynthesizeRateOutOfRangeRejected(t *testing.T) {
	stub := &stubProvider{}
	s := newTestServer(t, stub)

	w := doJSON(s, http.MethodPost, "/api/synthesize", map[string]any{
		"text":          "Hello",
		"voice":         "v1",
		"speaking_rate": 9.0,
	})

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	if stub.calls != 0 {
		t.Errorf("provider called %d times, want 0", stub.calls)
	}
	if !strings.Contains(w.Body.String(), "speaking_rate") {
		t.Errorf("body %s does not name the failing field", w.Body.String())
	}
}

func TestSynthesizeVendorErrorBecomes500(t *testing.T) {
	stub := &stubProvider{
		err: errors.Join(speech.ErrSynthesis, errors.New("service error: quota exceeded")),
	}
	s := newTestServer(t, stub)

	w := doJSON(s, http.MethodPost, "/api/synthesize", map[string]any{
		"text":  "Hello world",
		"voice": "v1",
	})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if !strings.Contains(resp.Detail, "quota exceeded") {
		t.Errorf("detail = %q, want vendor message passed through", resp.Detail)
	}
}

func TestSynthesizeFormatControlsHeaders(t *testing.T) {
	stub := &stubProvider{audio: []byte("riff")}
	s := newTestServer(t, stub)

	w := doJSON(s, http.MethodPost, "/api/synthesize", map[string]any{
		"text":   "Hello",
		"voice":  "en-GB-Neural2-B",
		"format": "wav",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != "audio/wav" {
		t.Errorf("Content-Type = %q, want audio/wav", got)
	}
	if got := w.Header().Get("Content-Disposition"); got != "attachment; filename=narration.wav" {
		t.Errorf("Content-Disposition = %q", got)
	}
}

func TestSynthesizeFormatUnsupportedByProvider(t *testing.T) {
	stub := &stubProvider{formats: []string{speech.FormatMP3}, audio: []byte("x")}
	s := newTestServer(t, stub)

	w := doJSON(s, http.MethodPost, "/api/synthesize", map[string]any{
		"text":   "Hello",
		"voice":  "v1",
		"format": "wav",
	})

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	if stub.calls != 0 {
		t.Errorf("provider called %d times, want 0", stub.calls)
	}
	if !strings.Contains(w.Body.String(), "format") {
		t.Errorf("body %s does not name the failing field", w.Body.String())
	}
}

func TestSynthesizeMalformedBody(t *testing.T) {
	s := newTestServer(t, &stubProvider{})

	req := httptest.NewRequest(http.MethodPost, "/api/synthesize", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSynthesizeRecordsEffectiveRateInHistory(t *testing.T) {
	stub := &stubProvider{audio: []byte("mp3")}
	s, repo := newHistoryServer(t, stub)

	w := doJSON(s, http.MethodPost, "/api/synthesize", map[string]any{
		"text":  "Hello world",
		"voice": "v1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	records, err := repo.Recent(1)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("history has %d records, want 1", len(records))
	}

	rec := records[0]
	if rec.SpeakingRate != stub.DefaultSpeakingRate() {
		t.Errorf("recorded rate = %v, want provider default %v", rec.SpeakingRate, stub.DefaultSpeakingRate())
	}
	if rec.Status != data.StatusOK {
		t.Errorf("status = %q, want %q", rec.Status, data.StatusOK)
	}
	if rec.TextLength != len("Hello world") {
		t.Errorf("text length = %d, want %d", rec.TextLength, len("Hello world"))
	}

	w = doJSON(s, http.MethodGet, "/api/history", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("history status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"provider":"stub"`) {
		t.Errorf("history body = %s", w.Body.String())
	}
}

func TestListVoices(t *testing.T) {
	stub := &stubProvider{voices: []speech.Voice{
		{ID: "v1", Name: "Linh", Gender: "female"},
		{ID: "v2", Name: "Minh", Gender: "male"},
	}}
	s := newTestServer(t, stub)

	w := doJSON(s, http.MethodGet, "/api/voices", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Voices []speech.Voice `json:"voices"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(resp.Voices) != 2 {
		t.Errorf("voices = %+v, want 2 entries", resp.Voices)
	}
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t, &stubProvider{})

	w := doJSON(s, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}
