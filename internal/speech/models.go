package speech

import (
	"errors"
	"strings"
)

const (
	MaxTextLength   = 5000
	MinSpeakingRate = 0.25
	MaxSpeakingRate = 4.0
	MinPitch        = -20.0
	MaxPitch        = 20.0
)

const (
	FormatMP3     = "mp3"
	FormatWAV     = "wav"
	FormatOggOpus = "ogg_opus"
)

var (
	ErrSynthesis = errors.New("synthesis failed")
	ErrNoAudio   = errors.New("no audio data received")
)

type Request struct {
	Text         string   `json:"text"`
	Voice        string   `json:"voice"`
	SpeakingRate *float64 `json:"speaking_rate"`
	Pitch        *float64 `json:"pitch"`
	Format       string   `json:"format"`
}

type Voice struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Gender string `json:"gender"`
	Tier   string `json:"tier,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}
