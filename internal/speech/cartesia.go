package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	cartesiaWSURL    = "wss://api.cartesia.ai/tts/websocket"
	cartesiaVersion  = "2025-04-16"
	cartesiaModelID  = "sonic-3"
	cartesiaLanguage = "vi"

	defaultCartesiaRate = 1.0
)

var cartesiaVoices = []Voice{
	{ID: "935a9060-373c-49e4-b078-f4ea6326987a", Name: "Linh - Vietnamese Female ⭐", Gender: "female"},
	{ID: "0e58d60a-2f1a-4252-81bd-3db6af45fb41", Name: "Minh - Vietnamese Male ⭐", Gender: "male"},
}

type CartesiaProvider struct {
	apiKey string
	wsURL  string
}

func NewCartesiaProvider(apiKey string) *CartesiaProvider {
	return &CartesiaProvider{
		apiKey: apiKey,
		wsURL:  cartesiaWSURL,
	}
}

func (p *CartesiaProvider) Name() string {
	return "cartesia"
}

func (p *CartesiaProvider) Voices() []Voice {
	return cartesiaVoices
}

// Cartesia is asked for an mp3 container only; other formats are rejected
// before synthesis.
func (p *CartesiaProvider) Formats() []string {
	return []string{FormatMP3}
}

func (p *CartesiaProvider) DefaultSpeakingRate() float64 {
	return defaultCartesiaRate
}

type cartesiaRequest struct {
	ContextID    string               `json:"context_id"`
	ModelID      string               `json:"model_id"`
	Transcript   string               `json:"transcript"`
	Voice        cartesiaVoiceSpec    `json:"voice"`
	Language     string               `json:"language"`
	OutputFormat cartesiaOutputFormat `json:"output_format"`
}

type cartesiaVoiceSpec struct {
	Mode     string           `json:"mode"`
	ID       string           `json:"id"`
	Controls cartesiaControls `json:"__experimental_controls"`
}

type cartesiaControls struct {
	Speed string `json:"speed"`
}

type cartesiaOutputFormat struct {
	Container  string `json:"container"`
	SampleRate int    `json:"sample_rate"`
	BitRate    int    `json:"bit_rate"`
}

type cartesiaMessage struct {
	Type  string `json:"type"`
	Data  string `json:"data"`
	Done  bool   `json:"done"`
	Error string `json:"error"`
}

func (p *CartesiaProvider) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	rate := p.DefaultSpeakingRate()
	if req.SpeakingRate != nil {
		rate = *req.SpeakingRate
	}

	u, err := url.Parse(p.wsURL)
	if err != nil {
		return nil, errors.Join(ErrSynthesis, fmt.Errorf("invalid service URL: %w", err))
	}

	q := u.Query()
	q.Set("api_key", p.apiKey)
	q.Set("cartesia_version", cartesiaVersion)
	u.RawQuery = q.Encode()

	c, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil {
			return nil, errors.Join(ErrSynthesis, fmt.Errorf("websocket connection failed with status %d: %w", resp.StatusCode, err))
		}
		return nil, errors.Join(ErrSynthesis, fmt.Errorf("websocket connection failed: %w", err))
	}
	defer c.Close()

	payload := cartesiaRequest{
		ContextID:  uuid.New().String(),
		ModelID:    cartesiaModelID,
		Transcript: req.Text,
		Voice: cartesiaVoiceSpec{
			Mode:     "id",
			ID:       req.Voice,
			Controls: cartesiaControls{Speed: SpeedLabel(rate)},
		},
		Language: cartesiaLanguage,
		OutputFormat: cartesiaOutputFormat{
			Container:  "mp3",
			SampleRate: 44100,
			BitRate:    128000,
		},
	}

	if err := c.WriteJSON(payload); err != nil {
		return nil, errors.Join(ErrSynthesis, fmt.Errorf("failed to send synthesis request: %w", err))
	}

	return readAudioResponse(c)
}

// readAudioResponse drains the websocket, concatenating base64 audio chunks
// in receipt order until the service reports done or an error.
func readAudioResponse(c *websocket.Conn) ([]byte, error) {
	var audioBuffer bytes.Buffer

	for {
		var msg cartesiaMessage
		if err := c.ReadJSON(&msg); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				break
			}
			return nil, errors.Join(ErrSynthesis, fmt.Errorf("failed to read message: %w", err))
		}

		switch {
		case msg.Type == "error":
			return nil, errors.Join(ErrSynthesis, fmt.Errorf("service error: %s", msg.Error))
		case msg.Type == "chunk":
			chunk, err := base64.StdEncoding.DecodeString(msg.Data)
			if err != nil {
				return nil, errors.Join(ErrSynthesis, fmt.Errorf("failed to decode audio chunk: %w", err))
			}
			audioBuffer.Write(chunk)
		case msg.Type == "done" || msg.Done:
			return audioBuffer.Bytes(), nil
		}
	}

	if audioBuffer.Len() == 0 {
		return nil, ErrNoAudio
	}

	return audioBuffer.Bytes(), nil
}
