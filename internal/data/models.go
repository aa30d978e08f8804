package data

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrDatabase = errors.New("database error")
)

const (
	StatusOK    = "ok"
	StatusError = "error"

	maxDetailLen = 1024
)

type DataConfig struct {
	HistoryLimit int
}

type Repository struct {
	DB     *gorm.DB
	Config *DataConfig
}

type Base struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// SynthesisRecord is one row per synthesis call, successful or not. The text
// itself is never stored, only its length.
type SynthesisRecord struct {
	Base
	Provider     string  `gorm:"size:32;not null;index" json:"provider"`
	Voice        string  `gorm:"size:255;not null" json:"voice"`
	TextLength   int     `gorm:"not null" json:"text_length"`
	SpeakingRate float64 `json:"speaking_rate"`
	Status       string  `gorm:"size:16;not null;index" json:"status"`
	Detail       string  `gorm:"size:1024" json:"detail,omitempty"`
	DurationMs   int64   `json:"duration_ms"`
	AudioBytes   int     `json:"audio_bytes"`
}

func LoadConfig() *DataConfig {
	return &DataConfig{
		HistoryLimit: GetEnvAsIntWithDefault("HISTORY_LIMIT", 50),
	}
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:     db,
		Config: LoadConfig(),
	}
}

func (r *Repository) AutoMigrate() error {
	if err := r.DB.AutoMigrate(&SynthesisRecord{}); err != nil {
		return errors.Join(ErrDatabase, err)
	}
	return nil
}
