package data

import (
	"os"
	"strconv"
	"unicode/utf8"
)

func GetEnvAsIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// truncateDetail cuts on a rune boundary so stored diagnostics stay valid
// UTF-8.
func truncateDetail(detail string) string {
	if len(detail) <= maxDetailLen {
		return detail
	}

	cut := maxDetailLen
	for cut > 0 && !utf8.RuneStart(detail[cut]) {
		cut--
	}
	return detail[:cut]
}
