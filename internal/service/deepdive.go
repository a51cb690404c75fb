package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"manova/internal/clients/openai"
	"manova/internal/config"
	"manova/internal/model"
	"manova/internal/platform/logger"
)

// DeepDiveService produces root causes and coping suggestions for
// high-stress responses. The AI path is optional; the static per-domain
// tables are the fallback and never fail.
type DeepDiveService struct {
	log *logger.Logger
	ai  openai.Client
	cfg *config.AnalysisConfig
}

// NewDeepDiveService creates a new deep-dive generator.
func NewDeepDiveService(log *logger.Logger, ai openai.Client, cfg *config.AnalysisConfig) *DeepDiveService {
	return &DeepDiveService{
		log: log.With("service", "deepdive"),
		ai:  ai,
		cfg: cfg,
	}
}

// ShouldGenerate is the gate for deep-dive generation, exposed so callers
// can check it independently.
func (s *DeepDiveService) ShouldGenerate(a model.StressAssessment) bool {
	return a.Score >= s.cfg.HighStressCutoff || a.Intensity == model.IntensityHigh
}

// Generate returns causes and solutions for a high-stress response. Never
// returns an error: every AI failure is replaced by the domain table.
func (s *DeepDiveService) Generate(ctx context.Context, resp model.SurveyResponse, assessment model.StressAssessment) model.DeepDiveInsight {
	if s.ai != nil {
		if insight, err := s.generateAI(ctx, resp, assessment); err == nil {
			return insight
		} else if err != openai.ErrDisabled {
			s.log.Warn("deep dive generation failed, using fallback table",
				"questionId", resp.QuestionID, "error", err)
		}
	}
	return s.fallbackInsight(resp.QuestionID, resp.Domain)
}

const deepDiveSystemPrompt = `You are a compassionate mental-wellness coach. You suggest likely root causes and practical coping steps. Respond with ONLY valid JSON.`

type aiDeepDiveResult struct {
	Causes    []string `json:"causes"`
	Solutions []string `json:"solutions"`
}

func (s *DeepDiveService) generateAI(ctx context.Context, resp model.SurveyResponse, assessment model.StressAssessment) (model.DeepDiveInsight, error) {
	prompt := fmt.Sprintf(`A user reported a high-stress experience. Return ONLY valid JSON:
{
  "causes": ["cause 1", "cause 2", "cause 3"],
  "solutions": ["suggestion 1", "suggestion 2", "suggestion 3"]
}

Life area: %s
Question: %s
Answer: %s
Stress score: %d/10 (%s)
Identified pattern: %s

Give exactly 3 likely root causes and exactly 3 practical, gentle coping suggestions. Keep each under 25 words. Do not diagnose.`,
		resp.Domain, resp.QuestionText, resp.AnswerText,
		assessment.Score, assessment.Intensity, assessment.Tag)

	content, err := s.ai.ChatJSON(ctx, deepDiveSystemPrompt, prompt)
	if err != nil {
		return model.DeepDiveInsight{}, err
	}

	var result aiDeepDiveResult
	if err := json.Unmarshal([]byte(stripCodeFences(content)), &result); err != nil {
		return model.DeepDiveInsight{}, fmt.Errorf("deep dive response parse: %w", err)
	}
	if len(result.Causes) == 0 || len(result.Solutions) == 0 {
		return model.DeepDiveInsight{}, fmt.Errorf("deep dive response missing causes or solutions")
	}

	return model.DeepDiveInsight{
		QuestionID:  resp.QuestionID,
		Causes:      clampStrings(result.Causes, 3),
		Solutions:   clampStrings(result.Solutions, 3),
		GeneratedBy: model.GeneratedByAI,
		CreatedAt:   time.Now(),
	}, nil
}

// fallbackTable holds pre-written causes and solutions per domain.
type fallbackEntry struct {
	Causes    []string
	Solutions []string
}

var deepDiveFallbacks = map[model.Domain]fallbackEntry{
	model.DomainWorkCareer: {
		Causes: []string{
			"Workload that consistently exceeds the hours available",
			"Feeling that effort goes unnoticed or unrecognized",
			"Unclear expectations about responsibilities or priorities",
		},
		Solutions: []string{
			"List this week's tasks and agree on the top three with your manager",
			"Block one short break between meetings to reset",
			"Write down one accomplishment at the end of each day",
		},
	},
	model.DomainFinancial: {
		Causes: []string{
			"Expenses feeling unpredictable from month to month",
			"Worry about an emergency with no savings buffer",
			"Comparing financial progress with peers",
		},
		Solutions: []string{
			"Track spending for one week without judging it",
			"Set up a small automatic transfer to savings, even a token amount",
			"Pick one recurring cost to review this month",
		},
	},
	model.DomainPersonalLife: {
		Causes: []string{
			"Too little genuinely restful time with people you trust",
			"Unspoken tension that keeps resurfacing in a close relationship",
			"Saying yes to obligations out of guilt",
		},
		Solutions: []string{
			"Schedule one low-pressure catch-up with someone who energizes you",
			"Name one small boundary and practice stating it plainly",
			"Reserve one evening this week that belongs only to you",
		},
	},
	model.DomainHealth: {
		Causes: []string{
			"Sleep that is too short or too irregular to be restorative",
			"Physical symptoms amplifying worry, which worsens the symptoms",
			"Putting off a check-up that would settle the uncertainty",
		},
		Solutions: []string{
			"Keep a consistent wind-down time for the next three nights",
			"Take a ten-minute walk outside once a day",
			"Book the appointment you have been postponing",
		},
	},
	model.DomainSelfWorth: {
		Causes: []string{
			"Measuring your value by output rather than effort",
			"An inner critic that discounts every success",
			"Comparing your inside to other people's outside",
		},
		Solutions: []string{
			"Write down three things you handled well this week, however small",
			"Notice one self-critical thought and restate it as you would to a friend",
			"Spend time on one activity you enjoy purely for itself",
		},
	},
}

// genericFallback covers unrecognized domains.
var genericFallback = fallbackEntry{
	Causes: []string{
		"Accumulated demands without enough recovery time",
		"Carrying a worry alone instead of voicing it",
		"Uncertainty about how the situation will develop",
	},
	Solutions: []string{
		"Take three slow breaths and name what is weighing on you",
		"Share the concern with one person you trust",
		"Choose a single small step you can take today",
	},
}

func (s *DeepDiveService) fallbackInsight(questionID string, domain model.Domain) model.DeepDiveInsight {
	entry, ok := deepDiveFallbacks[domain]
	if !ok {
		entry = genericFallback
	}
	return model.DeepDiveInsight{
		QuestionID:  questionID,
		Causes:      append([]string(nil), entry.Causes...),
		Solutions:   append([]string(nil), entry.Solutions...),
		GeneratedBy: model.GeneratedByFallback,
		CreatedAt:   time.Now(),
	}
}

// stripCodeFences removes a Markdown code-fence wrapper some models put
// around JSON output.
func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func clampStrings(in []string, n int) []string {
	out := make([]string, 0, n)
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == n {
			break
		}
	}
	return out
}
