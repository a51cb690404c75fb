package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"manova/internal/clients/openai"
	"manova/internal/model"
	"manova/internal/platform/logger"
)

// questionIntent is whether a question asks about a positive experience
// (support, recognition) or a negative one (burnout, conflict).
type questionIntent int

const (
	intentUnclear questionIntent = iota
	intentPositive
	intentNegative
)

// answerFrequency is how often the answer says the experience happens.
type answerFrequency int

const (
	frequencyUnclear answerFrequency = iota
	frequencyLow
	frequencyMedium
	frequencyHigh
)

var positiveIntentKeywords = []string{
	"support", "recognition", "energy", "meaningful", "positive",
	"satisfaction", "acknowledgment", "valued", "understood", "complete",
}

var negativeIntentKeywords = []string{
	"drained", "exhausted", "overwhelmed", "conflict", "stress",
	"burnout", "difficult", "pressure", "beyond capacity",
}

var highFrequencyKeywords = []string{"often", "very often", "mostly", "completely"}
var mediumFrequencyKeywords = []string{"sometimes", "somewhat", "a little"}
var lowFrequencyKeywords = []string{"never", "not at all", "rarely"}

// answerStressKeywords is the generic scan used when the question's intent
// is unclear.
var answerStressKeywords = []string{
	"overwhelmed", "stressed", "anxious", "worried", "exhausted", "burned out",
}

// Default verdicts for the unclear-intent path. The manageable default of 5
// matches the shipped calibration; it was never derived from data.
const (
	stressKeywordScore = 7
	defaultScore       = 5
)

// truthTableEntry is the base verdict for one (intent, frequency) pair
// before domain refinement.
type truthTableEntry struct {
	Score    int
	Tag      model.StressTag
	CauseTag model.CauseTag
	Reason   string
}

// scoreTruthTable resolves (intent, frequency) to a base verdict.
// Lacking a positive thing is as stressful as having a negative one.
var scoreTruthTable = map[questionIntent]map[answerFrequency]truthTableEntry{
	intentPositive: {
		frequencyLow:    {9, model.TagSupportDeficiency, model.CauseLackOfSupport, "A positive experience is almost never present, which signals a significant unmet need."},
		frequencyMedium: {5, model.TagRecognitionDeficit, model.CauseInsecurity, "A positive experience is only sometimes present, leaving room for doubt."},
		frequencyHigh:   {2, model.TagLowStress, model.CauseLowStress, "A positive experience is consistently present."},
	},
	intentNegative: {
		frequencyHigh:   {9, model.TagEnergyDepletion, model.CauseEmotionalExhaustion, "A negative experience happens almost all the time."},
		frequencyMedium: {5, model.TagWorkloadOverwhelm, model.CauseOverwork, "A negative experience happens regularly but not constantly."},
		frequencyLow:    {2, model.TagLowStress, model.CauseLowStress, "A negative experience rarely happens."},
	},
}

// domainRemap refines one base tag inside a specific domain.
type domainRemap struct {
	Tag       model.StressTag
	HighCause model.CauseTag // score >= high-stress cutoff
	LowCause  model.CauseTag // below the cutoff
}

// domainRules holds the remap table for one domain plus score-band cause
// defaults for tags without a specific rule.
type domainRules struct {
	ByTag     map[model.StressTag]domainRemap
	HighCause model.CauseTag // score >= 7
	MidCause  model.CauseTag // score 4-6
}

var domainRuleTable = map[model.Domain]domainRules{
	model.DomainWorkCareer: {
		ByTag: map[model.StressTag]domainRemap{
			model.TagSupportDeficiency: {model.TagRecognitionDeficit, model.CauseBurnout, model.CauseInsecurity},
			model.TagEnergyDepletion:   {model.TagBurnoutRisk, model.CauseBurnout, model.CauseBurnout},
		},
		HighCause: model.CauseOverwork,
		MidCause:  model.CauseCareerStagnation,
	},
	model.DomainPersonalLife: {
		ByTag: map[model.StressTag]domainRemap{
			model.TagSupportDeficiency: {model.TagRelationshipStrain, model.CauseLoneliness, model.CauseLoneliness},
			model.TagEnergyDepletion:   {model.TagRelationshipStrain, model.CauseRelationshipStress, model.CauseRelationshipStress},
		},
		HighCause: model.CauseRelationshipStress,
		MidCause:  model.CauseBoundaryIssues,
	},
	model.DomainFinancial: {
		ByTag: map[model.StressTag]domainRemap{
			model.TagSupportDeficiency: {model.TagFinancialAnxiety, model.CauseFinancialFear, model.CauseFinancialFear},
			model.TagEnergyDepletion:   {model.TagFinancialAnxiety, model.CauseFinancialFear, model.CauseFinancialFear},
		},
		HighCause: model.CauseFinancialFear,
		MidCause:  model.CauseFinancialFear,
	},
	model.DomainHealth: {
		ByTag: map[model.StressTag]domainRemap{
			model.TagSupportDeficiency: {model.TagHealthConcern, model.CauseHealthAnxiety, model.CauseHealthAnxiety},
			model.TagEnergyDepletion:   {model.TagHealthConcern, model.CauseHealthAnxiety, model.CauseHealthAnxiety},
		},
		HighCause: model.CauseHealthAnxiety,
		MidCause:  model.CauseHealthAnxiety,
	},
	model.DomainSelfWorth: {
		ByTag: map[model.StressTag]domainRemap{
			model.TagSupportDeficiency: {model.TagIdentityStrain, model.CauseInadequacy, model.CauseInsecurity},
			model.TagEnergyDepletion:   {model.TagIdentityStrain, model.CauseInadequacy, model.CauseSelfWorth},
		},
		HighCause: model.CauseInadequacy,
		MidCause:  model.CauseSelfWorth,
	},
}

// ScorerService turns a survey response into a stress assessment. The AI
// path is optional; the local heuristic is the mandatory fallback and the
// two are indistinguishable in shape.
type ScorerService struct {
	log *logger.Logger
	ai  openai.Client
}

// NewScorerService creates a new scorer.
func NewScorerService(log *logger.Logger, ai openai.Client) *ScorerService {
	return &ScorerService{
		log: log.With("service", "scorer"),
		ai:  ai,
	}
}

// Score assesses one survey response. Never returns an error: every failure
// on the AI path is logged and replaced by the heuristic result.
func (s *ScorerService) Score(ctx context.Context, resp model.SurveyResponse) model.StressAssessment {
	if s.ai != nil {
		if assessment, err := s.scoreAI(ctx, resp); err == nil {
			return assessment
		} else if err != openai.ErrDisabled {
			s.log.Warn("ai scoring failed, using heuristic",
				"questionId", resp.QuestionID, "error", err)
		}
	}
	return s.ScoreHeuristic(resp)
}

// ScoreHeuristic runs the local rule-based scorer.
func (s *ScorerService) ScoreHeuristic(resp model.SurveyResponse) model.StressAssessment {
	question := strings.ToLower(resp.QuestionText)
	answer := strings.ToLower(resp.AnswerText)

	intent := classifyIntent(question)
	frequency := classifyFrequency(answer)

	entry := resolveBase(intent, frequency, answer)
	score, tag, causeTag, reason := entry.Score, entry.Tag, entry.CauseTag, entry.Reason

	tag, causeTag = applyDomainRules(resp.Domain, tag, causeTag, score)

	return model.StressAssessment{
		QuestionID: resp.QuestionID,
		Domain:     resp.Domain,
		Score:      score,
		Tag:        tag,
		CauseTag:   causeTag,
		Intensity:  model.IntensityForScore(score),
		LabelColor: model.ColorForScore(score),
		Reason:     reason,
	}
}

func classifyIntent(question string) questionIntent {
	positive := containsAny(question, positiveIntentKeywords)
	negative := containsAny(question, negativeIntentKeywords)
	switch {
	case positive && !negative:
		return intentPositive
	case negative && !positive:
		return intentNegative
	default:
		return intentUnclear
	}
}

func classifyFrequency(answer string) answerFrequency {
	// Low before high: "never" must not be shadowed by a stray "often" later
	// in a free-text answer, and the sets are disjoint by construction.
	switch {
	case containsAny(answer, lowFrequencyKeywords):
		return frequencyLow
	case containsAny(answer, mediumFrequencyKeywords):
		return frequencyMedium
	case containsAny(answer, highFrequencyKeywords):
		return frequencyHigh
	default:
		return frequencyUnclear
	}
}

func resolveBase(intent questionIntent, frequency answerFrequency, answer string) truthTableEntry {
	if byFreq, ok := scoreTruthTable[intent]; ok {
		if entry, ok := byFreq[frequency]; ok {
			return entry
		}
	}
	// Unclear intent or frequency: generic stress-word scan of the answer.
	if containsAny(answer, answerStressKeywords) {
		return truthTableEntry{
			Score:    stressKeywordScore,
			Tag:      model.TagEmotionalDisconnection,
			CauseTag: model.CauseAnxiety,
			Reason:   "The answer itself contains strong stress language.",
		}
	}
	return truthTableEntry{
		Score:    defaultScore,
		Tag:      model.TagEmotionalDisconnection,
		CauseTag: model.CauseUncertainty,
		Reason:   "The answer did not clearly signal stress; treated as manageable.",
	}
}

func applyDomainRules(domain model.Domain, tag model.StressTag, causeTag model.CauseTag, score int) (model.StressTag, model.CauseTag) {
	if tag == model.TagLowStress {
		return tag, model.CauseLowStress
	}
	rules, ok := domainRuleTable[domain]
	if !ok {
		return tag, causeTag
	}
	if remap, ok := rules.ByTag[tag]; ok {
		if score >= 7 {
			return remap.Tag, remap.HighCause
		}
		return remap.Tag, remap.LowCause
	}
	switch {
	case score >= 7 && rules.HighCause != "":
		return tag, rules.HighCause
	case score >= 4 && rules.MidCause != "":
		return tag, rules.MidCause
	}
	return tag, causeTag
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// --- AI path ---

const scorerSystemPrompt = `You are a mental-wellness analyst. You rate how much stress a survey answer reveals. Respond with ONLY valid JSON.`

// aiScoreResult is the strict shape demanded from the model.
type aiScoreResult struct {
	Score    int    `json:"score"`
	Tag      string `json:"tag"`
	CauseTag string `json:"causeTag"`
	Reason   string `json:"reason"`
}

func (s *ScorerService) scoreAI(ctx context.Context, resp model.SurveyResponse) (model.StressAssessment, error) {
	prompt := s.buildScorerPrompt(resp)
	content, err := s.ai.ChatJSON(ctx, scorerSystemPrompt, prompt)
	if err != nil {
		return model.StressAssessment{}, err
	}

	var result aiScoreResult
	if err := json.Unmarshal([]byte(stripCodeFences(content)), &result); err != nil {
		return model.StressAssessment{}, fmt.Errorf("scorer response parse: %w", err)
	}

	// Out-of-vocabulary or out-of-range output is never trusted.
	if result.Score < 1 || result.Score > 10 {
		return model.StressAssessment{}, fmt.Errorf("score %d out of range", result.Score)
	}
	tag := model.StressTag(result.Tag)
	if !tag.IsValid() {
		return model.StressAssessment{}, fmt.Errorf("tag %q not in vocabulary", result.Tag)
	}
	causeTag := model.CauseTag(result.CauseTag)
	if !causeTag.IsValid() {
		return model.StressAssessment{}, fmt.Errorf("causeTag %q not in vocabulary", result.CauseTag)
	}
	if strings.TrimSpace(result.Reason) == "" {
		return model.StressAssessment{}, fmt.Errorf("missing reason")
	}

	// Intensity and color are always derived from the score, never taken
	// from the model.
	return model.StressAssessment{
		QuestionID: resp.QuestionID,
		Domain:     resp.Domain,
		Score:      result.Score,
		Tag:        tag,
		CauseTag:   causeTag,
		Intensity:  model.IntensityForScore(result.Score),
		LabelColor: model.ColorForScore(result.Score),
		Reason:     strings.TrimSpace(result.Reason),
	}, nil
}

func (s *ScorerService) buildScorerPrompt(resp model.SurveyResponse) string {
	tags := make([]string, len(model.AllStressTags))
	for i, t := range model.AllStressTags {
		tags[i] = string(t)
	}
	causes := make([]string, len(model.AllCauseTags))
	for i, c := range model.AllCauseTags {
		causes[i] = string(c)
	}

	return fmt.Sprintf(`Rate the stress revealed by this survey answer. Return ONLY valid JSON matching this schema:
{
  "score": 1 to 10,
  "tag": one of [%s],
  "causeTag": one of [%s],
  "reason": "one sentence explaining the rating"
}

Life area: %s
Question: %s
Answer: %s

Rules:
- If the question asks about a POSITIVE experience (support, recognition, feeling valued) and the answer says it rarely or never happens, that is HIGH stress (8-10).
- If the question asks about a NEGATIVE experience (feeling drained, overwhelmed, conflict) and the answer says it happens very often, that is HIGH stress (8-10).
- Consistent positive experiences or rare negative ones are LOW stress (1-3).
- Use only the listed tag and causeTag values.`,
		strings.Join(tags, ", "), strings.Join(causes, ", "),
		resp.Domain, resp.QuestionText, resp.AnswerText)
}
