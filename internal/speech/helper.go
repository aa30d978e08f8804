package speech

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// SpeedLabel maps a continuous speaking rate onto the five discrete speed
// labels accepted by Cartesia. The breakpoints are not symmetric around 1.0
// and the checks must run in this order; first match wins.
func SpeedLabel(rate float64) string {
	switch {
	case rate < 0.8:
		return "slowest"
	case rate < 0.95:
		return "slow"
	case rate > 1.3:
		return "fastest"
	case rate > 1.1:
		return "fast"
	default:
		return "normal"
	}
}

func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// LanguageCode derives a BCP-47 language code from a voice name such as
// "en-GB-Neural2-B". Names with fewer than two segments come back unchanged.
func LanguageCode(voiceName string) string {
	parts := strings.SplitN(voiceName, "-", 3)
	if len(parts) < 2 {
		return voiceName
	}
	return parts[0] + "-" + parts[1]
}

func ContentType(format string) string {
	switch format {
	case FormatWAV:
		return "audio/wav"
	case FormatOggOpus:
		return "audio/ogg"
	default:
		return "audio/mpeg"
	}
}

func FileExtension(format string) string {
	switch format {
	case FormatWAV:
		return "wav"
	case FormatOggOpus:
		return "ogg"
	default:
		return "mp3"
	}
}

func validateText(text string) *FieldError {
	if strings.TrimSpace(text) == "" {
		return &FieldError{Field: "text", Message: "must not be empty"}
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return &FieldError{Field: "text", Message: fmt.Sprintf("must be at most %d characters", MaxTextLength)}
	}
	return nil
}

func validateSpeakingRate(rate *float64) *FieldError {
	if rate == nil {
		return nil
	}
	if *rate < MinSpeakingRate || *rate > MaxSpeakingRate {
		return &FieldError{
			Field:   "speaking_rate",
			Message: fmt.Sprintf("must be between %g and %g", MinSpeakingRate, MaxSpeakingRate),
		}
	}
	return nil
}

func validateFormat(format string) *FieldError {
	switch format {
	case "", FormatMP3, FormatWAV, FormatOggOpus:
		return nil
	}
	return &FieldError{
		Field:   "format",
		Message: fmt.Sprintf("must be one of %s, %s, %s", FormatMP3, FormatWAV, FormatOggOpus),
	}
}

// UnsupportedFormat reports a field error when the requested format is not
// one the selected backend can produce. An empty format always passes; it
// maps to the backend's default container.
func UnsupportedFormat(format string, supported []string) *ValidationError {
	if format == "" {
		return nil
	}
	for _, f := range supported {
		if f == format {
			return nil
		}
	}
	return &ValidationError{Fields: []FieldError{{
		Field:   "format",
		Message: fmt.Sprintf("must be one of %s", strings.Join(supported, ", ")),
	}}}
}

// Validate rejects a request before any vendor call is made. Pitch is not
// validated here; providers that use it clamp it instead.
func (r *Request) Validate() error {
	var fields []FieldError

	if err := validateText(r.Text); err != nil {
		fields = append(fields, *err)
	}
	if err := validateSpeakingRate(r.SpeakingRate); err != nil {
		fields = append(fields, *err)
	}
	if err := validateFormat(r.Format); err != nil {
		fields = append(fields, *err)
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	return nil
}
