package main

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cam-hm/vietnamese-tts/internal/data"
	"github.com/cam-hm/vietnamese-tts/internal/speech"

	"github.com/gin-gonic/gin"
)

func (s *Server) SetupRoutes() {
	s.router.GET("/health", s.HealthCheck)

	api := s.router.Group("/api")
	{
		api.GET("/voices", s.HandleListVoices)
		api.POST("/synthesize", s.HandleSynthesize)
		if s.repo != nil {
			api.GET("/history", s.HandleHistory)
		}
	}

	s.SetupStaticRoutes()
}

// SetupStaticRoutes serves the bundled front-end when the static directory
// exists; the API works without it.
func (s *Server) SetupStaticRoutes() {
	info, err := os.Stat(s.config.StaticDir)
	if err != nil || !info.IsDir() {
		return
	}

	s.router.Static("/static", s.config.StaticDir)
	s.router.StaticFile("/", filepath.Join(s.config.StaticDir, "index.html"))
}

func (s *Server) HandleListVoices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"voices": s.provider.Voices()})
}

func (s *Server) HandleSynthesize(c *gin.Context) {
	var req speech.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		s.SendError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		var verr *speech.ValidationError
		if errors.As(err, &verr) {
			s.SendValidationError(c, verr)
			return
		}
		s.SendError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if verr := speech.UnsupportedFormat(req.Format, s.provider.Formats()); verr != nil {
		s.SendValidationError(c, verr)
		return
	}

	start := time.Now()
	audio, err := s.provider.Synthesize(c.Request.Context(), req)
	s.recordSynthesis(req, audio, err, time.Since(start))

	if err != nil {
		s.logger.Printf("synthesis error: %v", err)
		s.SendError(c, http.StatusInternalServerError, err.Error())
		return
	}

	s.metrics.SynthesisCount.Add(1)

	c.Header("Content-Disposition", "attachment; filename=narration."+speech.FileExtension(req.Format))
	c.Data(http.StatusOK, speech.ContentType(req.Format), audio)
}

func (s *Server) HandleHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	records, err := s.repo.Recent(limit)
	if err != nil {
		s.logger.Printf("history query error: %v", err)
		s.SendError(c, http.StatusInternalServerError, "failed to fetch history")
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": records})
}

func (s *Server) recordSynthesis(req speech.Request, audio []byte, synthErr error, elapsed time.Duration) {
	if s.repo == nil {
		return
	}

	rate := s.provider.DefaultSpeakingRate()
	if req.SpeakingRate != nil {
		rate = *req.SpeakingRate
	}

	record := &data.SynthesisRecord{
		Provider:     s.provider.Name(),
		Voice:        req.Voice,
		TextLength:   len(req.Text),
		SpeakingRate: rate,
		Status:       data.StatusOK,
		DurationMs:   elapsed.Milliseconds(),
		AudioBytes:   len(audio),
	}
	if synthErr != nil {
		record.Status = data.StatusError
		record.Detail = synthErr.Error()
	}

	if err := s.repo.Record(record); err != nil {
		s.logger.Printf("history record error: %v", err)
	}
}
