package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Provider is the capability every TTS backend implements. Voices is pure
// and never fails; Synthesize is one stateless round trip to the vendor
// ending in audio bytes or an error joined with ErrSynthesis.
type Provider interface {
	Name() string
	Voices() []Voice
	// Formats lists the audio formats the backend can produce; an empty
	// request format maps to the first entry.
	Formats() []string
	// DefaultSpeakingRate is the rate applied when a request omits one.
	DefaultSpeakingRate() float64
	Synthesize(ctx context.Context, req Request) ([]byte, error)
}

// NewProvider builds the backend selected by name. A missing credential is
// reported here so the process can refuse to start.
func NewProvider(ctx context.Context, name string) (Provider, error) {
	switch name {
	case "", "cartesia":
		apiKey := os.Getenv("CARTESIA_API_KEY")
		if apiKey == "" {
			return nil, errors.New("CARTESIA_API_KEY environment variable is required")
		}
		return NewCartesiaProvider(apiKey), nil
	case "google":
		return NewGoogleProvider(ctx)
	default:
		return nil, fmt.Errorf("unknown TTS provider: %s", name)
	}
}
