package service

import (
	"context"
	"math"
	"strings"

	"manova/internal/clients/openai"
	"manova/internal/model"
	"manova/internal/platform/logger"
)

// EmbeddingDim is the vector length of the provider's embedding model.
// The deterministic fallback produces the same length.
const EmbeddingDim = 1536

// EmbeddingService turns response text into a fixed-length vector. It never
// fails: any provider problem yields a deterministic pseudo-embedding so the
// pipeline downstream never stalls on an outage.
type EmbeddingService struct {
	log *logger.Logger
	ai  openai.Client
}

// NewEmbeddingService creates a new embedding service.
func NewEmbeddingService(log *logger.Logger, ai openai.Client) *EmbeddingService {
	return &EmbeddingService{
		log: log.With("service", "embedding"),
		ai:  ai,
	}
}

// EmbedResponse builds the canonical text for a scored response and embeds it.
func (s *EmbeddingService) EmbedResponse(ctx context.Context, resp model.SurveyResponse, assessment model.StressAssessment) []float32 {
	text := strings.Join([]string{
		"Question: " + resp.QuestionText,
		"Answer: " + resp.AnswerText,
		"Domain: " + string(resp.Domain),
		"Tag: " + string(assessment.Tag),
	}, "\n")
	return s.Embed(ctx, text)
}

// Embed returns the embedding for the given text, falling back locally on
// any provider failure.
func (s *EmbeddingService) Embed(ctx context.Context, text string) []float32 {
	normalized := strings.Join(strings.Fields(text), " ")
	if normalized == "" {
		normalized = "empty text"
	}

	if s.ai != nil {
		vec, err := s.ai.Embed(ctx, normalized)
		if err == nil && len(vec) > 0 {
			return vec
		}
		if err != nil && err != openai.ErrDisabled {
			s.log.Warn("embedding provider failed, using fallback vector", "error", err)
		}
	}
	return fallbackVector(normalized)
}

// fallbackVector derives a deterministic pseudo-embedding from a rolling
// hash of the text. Identical input always yields the identical vector.
func fallbackVector(text string) []float32 {
	var seed uint32
	for _, r := range text {
		seed = seed*31 + uint32(r)
	}

	vec := make([]float32, EmbeddingDim)
	base := float64(seed)
	for i := range vec {
		f := base + float64(i)
		vec[i] = float32((math.Sin(0.1*f) + math.Cos(0.2*f)) * 0.01)
	}
	return vec
}
