package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manova/internal/model"
	"manova/internal/platform/logger"
)

func TestScoreHeuristicMissingSupport(t *testing.T) {
	s := NewScorerService(logger.NewNop(), nil)

	// A positive thing that never happens is high stress, and in the work
	// domain the support gap is read as a recognition problem.
	a := s.ScoreHeuristic(model.SurveyResponse{
		QuestionID:   "q1",
		QuestionText: "How often do you feel supported at work?",
		AnswerText:   "Never",
		Domain:       model.DomainWorkCareer,
	})

	assert.Equal(t, 9, a.Score)
	assert.Equal(t, model.TagRecognitionDeficit, a.Tag)
	assert.Equal(t, model.CauseBurnout, a.CauseTag)
	assert.Equal(t, model.IntensityHigh, a.Intensity)
	assert.Equal(t, model.ColorRed, a.LabelColor)
	assert.NotEmpty(t, a.Reason)
}

func TestScoreHeuristicConstantOverwhelm(t *testing.T) {
	s := NewScorerService(logger.NewNop(), nil)

	a := s.ScoreHeuristic(model.SurveyResponse{
		QuestionID:   "q2",
		QuestionText: "How overwhelmed do you feel by your workload?",
		AnswerText:   "Very Often",
		Domain:       model.DomainWorkCareer,
	})

	assert.Equal(t, 9, a.Score)
	assert.Equal(t, model.TagBurnoutRisk, a.Tag)
	assert.Equal(t, model.CauseBurnout, a.CauseTag)
	assert.Equal(t, model.IntensityHigh, a.Intensity)
	assert.Equal(t, model.ColorRed, a.LabelColor)
}

func TestScoreHeuristicTruthTable(t *testing.T) {
	s := NewScorerService(logger.NewNop(), nil)

	tests := []struct {
		name     string
		question string
		answer   string
		score    int
	}{
		{"positive rarely", "Do you feel valued by your family?", "rarely", 9},
		{"positive sometimes", "Do you feel valued by your family?", "sometimes", 5},
		{"positive often", "Do you feel valued by your family?", "very often", 2},
		{"negative often", "How often do you feel drained?", "mostly", 9},
		{"negative sometimes", "How often do you feel drained?", "somewhat", 5},
		{"negative never", "How often do you feel drained?", "not at all", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := s.ScoreHeuristic(model.SurveyResponse{
				QuestionID:   "q",
				QuestionText: tt.question,
				AnswerText:   tt.answer,
				Domain:       model.DomainPersonalLife,
			})
			assert.Equal(t, tt.score, a.Score)
		})
	}
}

func TestScoreHeuristicLowStressCauseStaysLow(t *testing.T) {
	s := NewScorerService(logger.NewNop(), nil)

	// Low-stress verdicts keep the low_stress cause regardless of domain.
	a := s.ScoreHeuristic(model.SurveyResponse{
		QuestionID:   "q",
		QuestionText: "How often do you feel supported by your partner?",
		AnswerText:   "Very often, completely",
		Domain:       model.DomainPersonalLife,
	})
	assert.Equal(t, model.TagLowStress, a.Tag)
	assert.Equal(t, model.CauseLowStress, a.CauseTag)
	assert.Equal(t, model.ColorGreen, a.LabelColor)
}

func TestScoreHeuristicStressKeywordScan(t *testing.T) {
	s := NewScorerService(logger.NewNop(), nil)

	// Unclear question intent, but the answer itself carries stress language.
	a := s.ScoreHeuristic(model.SurveyResponse{
		QuestionID:   "q",
		QuestionText: "How was your week?",
		AnswerText:   "I felt really anxious most days",
		Domain:       model.DomainHealth,
	})
	assert.Equal(t, 7, a.Score)
	assert.Equal(t, model.IntensityHigh, a.Intensity)
}

func TestScoreHeuristicDefault(t *testing.T) {
	s := NewScorerService(logger.NewNop(), nil)

	a := s.ScoreHeuristic(model.SurveyResponse{
		QuestionID:   "q",
		QuestionText: "How was your week?",
		AnswerText:   "It was fine, nothing special",
		Domain:       model.DomainWorkCareer,
	})
	assert.Equal(t, 5, a.Score)
	assert.Equal(t, model.IntensityModerate, a.Intensity)
	assert.Equal(t, model.ColorYellow, a.LabelColor)
	// Score 5 in the work domain gets the mid-band cause.
	assert.Equal(t, model.CauseCareerStagnation, a.CauseTag)
}

func TestScoreHeuristicNeverNotShadowedByOften(t *testing.T) {
	s := NewScorerService(logger.NewNop(), nil)

	// "never" must win even when the free text also contains "often".
	a := s.ScoreHeuristic(model.SurveyResponse{
		QuestionID:   "q",
		QuestionText: "How often do you feel supported at work?",
		AnswerText:   "Never, though people often say they will help",
		Domain:       model.DomainWorkCareer,
	})
	assert.Equal(t, 9, a.Score)
}

func TestScoreUsesAIWhenValid(t *testing.T) {
	ai := &fakeAI{chatContent: `{"score": 8, "tag": "Burnout Risk", "causeTag": "burnout", "reason": "Persistent exhaustion."}`}
	s := NewScorerService(logger.NewNop(), ai)

	a := s.Score(context.Background(), model.SurveyResponse{
		QuestionID:   "q1",
		QuestionText: "How drained do you feel?",
		AnswerText:   "completely",
		Domain:       model.DomainWorkCareer,
	})

	require.Equal(t, 1, ai.chatCalls)
	assert.Equal(t, 8, a.Score)
	assert.Equal(t, model.TagBurnoutRisk, a.Tag)
	// Bands always derive from the score, never from the model.
	assert.Equal(t, model.IntensityHigh, a.Intensity)
	assert.Equal(t, model.ColorRed, a.LabelColor)
}

func TestScoreFallsBackOnProviderError(t *testing.T) {
	ai := &fakeAI{chatErr: errors.New("upstream timeout")}
	s := NewScorerService(logger.NewNop(), ai)

	a := s.Score(context.Background(), model.SurveyResponse{
		QuestionID:   "q1",
		QuestionText: "How often do you feel supported at work?",
		AnswerText:   "Never",
		Domain:       model.DomainWorkCareer,
	})

	// Same verdict as the pure heuristic.
	assert.Equal(t, 9, a.Score)
	assert.Equal(t, model.TagRecognitionDeficit, a.Tag)
}

func TestScoreRejectsOutOfVocabularyAI(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad tag", `{"score": 8, "tag": "Existential Dread", "causeTag": "burnout", "reason": "x"}`},
		{"bad cause", `{"score": 8, "tag": "Burnout Risk", "causeTag": "doom", "reason": "x"}`},
		{"score out of range", `{"score": 14, "tag": "Burnout Risk", "causeTag": "burnout", "reason": "x"}`},
		{"missing reason", `{"score": 8, "tag": "Burnout Risk", "causeTag": "burnout", "reason": "  "}`},
		{"not json", `the user seems stressed`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScorerService(logger.NewNop(), &fakeAI{chatContent: tt.content})
			a := s.Score(context.Background(), model.SurveyResponse{
				QuestionID:   "q1",
				QuestionText: "How often do you feel supported at work?",
				AnswerText:   "Never",
				Domain:       model.DomainWorkCareer,
			})
			// Falls back to the heuristic verdict.
			assert.Equal(t, 9, a.Score)
			assert.Equal(t, model.TagRecognitionDeficit, a.Tag)
		})
	}
}
