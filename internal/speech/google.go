package speech

import (
	"context"
	"errors"
	"fmt"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
)

// Defaults tuned for documentary narration: slightly slower and lower than
// the vendor's neutral voice.
const (
	defaultGoogleRate  = 0.9
	defaultGooglePitch = -2.0
)

var googleVoices = []Voice{
	{ID: "en-GB-Studio-B", Name: "George - British Male (Studio)", Gender: "male", Tier: "studio"},
	{ID: "en-GB-Studio-C", Name: "Charlotte - British Female (Studio)", Gender: "female", Tier: "studio"},
	{ID: "en-GB-Chirp3-HD-Charon", Name: "Charon - British Male (Ultra Natural)", Gender: "male", Tier: "chirp3"},
	{ID: "en-GB-Neural2-A", Name: "Amelia - British Female (Neural)", Gender: "female", Tier: "neural2"},
	{ID: "en-GB-Neural2-B", Name: "Oliver - British Male (Neural)", Gender: "male", Tier: "neural2"},
	{ID: "en-US-Studio-O", Name: "Olivia - American Female (Studio)", Gender: "female", Tier: "studio"},
	{ID: "en-US-Neural2-J", Name: "James - American Male (Neural)", Gender: "male", Tier: "neural2"},
}

type GoogleProvider struct {
	client *texttospeech.Client
}

// NewGoogleProvider builds the gRPC client from application default
// credentials; missing credentials surface here, before the server starts.
func NewGoogleProvider(ctx context.Context) (*GoogleProvider, error) {
	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create texttospeech client: %w", err)
	}
	return &GoogleProvider{client: client}, nil
}

func (p *GoogleProvider) Name() string {
	return "google"
}

func (p *GoogleProvider) Voices() []Voice {
	return googleVoices
}

func (p *GoogleProvider) Formats() []string {
	return []string{FormatMP3, FormatWAV, FormatOggOpus}
}

func (p *GoogleProvider) DefaultSpeakingRate() float64 {
	return defaultGoogleRate
}

func (p *GoogleProvider) Close() error {
	return p.client.Close()
}

func audioEncoding(format string) texttospeechpb.AudioEncoding {
	switch format {
	case FormatWAV:
		return texttospeechpb.AudioEncoding_LINEAR16
	case FormatOggOpus:
		return texttospeechpb.AudioEncoding_OGG_OPUS
	default:
		return texttospeechpb.AudioEncoding_MP3
	}
}

func buildSynthesisRequest(req Request) *texttospeechpb.SynthesizeSpeechRequest {
	rate := defaultGoogleRate
	if req.SpeakingRate != nil {
		rate = *req.SpeakingRate
	}
	pitch := defaultGooglePitch
	if req.Pitch != nil {
		pitch = *req.Pitch
	}

	return &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: req.Text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: LanguageCode(req.Voice),
			Name:         req.Voice,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: audioEncoding(req.Format),
			SpeakingRate:  Clamp(rate, MinSpeakingRate, MaxSpeakingRate),
			Pitch:         Clamp(pitch, MinPitch, MaxPitch),
		},
	}
}

func (p *GoogleProvider) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	resp, err := p.client.SynthesizeSpeech(ctx, buildSynthesisRequest(req))
	if err != nil {
		return nil, errors.Join(ErrSynthesis, fmt.Errorf("synthesis request failed: %w", err))
	}

	if len(resp.AudioContent) == 0 {
		return nil, ErrNoAudio
	}

	return resp.AudioContent, nil
}
