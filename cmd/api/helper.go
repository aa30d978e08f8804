package main

import (
	"log"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/cam-hm/vietnamese-tts/internal/speech"

	"github.com/gin-gonic/gin"
)

func GetEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetEnvAsIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

func InitLogger(env string) *log.Logger {
	flags := log.Ldate | log.Ltime
	if env == "development" {
		flags |= log.Lshortfile
	}
	return log.New(os.Stdout, "", flags)
}

func (s *Server) SendError(c *gin.Context, code int, detail string) {
	c.JSON(code, ErrorResponse{Detail: detail})
}

func (s *Server) SendValidationError(c *gin.Context, verr *speech.ValidationError) {
	c.JSON(http.StatusUnprocessableEntity, ValidationResponse{Detail: verr.Fields})
}

func RandString(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
