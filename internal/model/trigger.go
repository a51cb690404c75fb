package model

import "time"

// RecurrenceFinding is the result of a similarity lookup for one
// high-stress response against the user's history.
type RecurrenceFinding struct {
	IsRecurring       bool    `json:"isRecurring" bson:"isRecurring"`
	MatchCount        int     `json:"matchCount" bson:"matchCount"`
	AverageSimilarity float64 `json:"averageSimilarity" bson:"averageSimilarity"` // 0-1
	Domain            Domain  `json:"domain" bson:"domain"`
}

// Priority is the escalation level of a trigger decision.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityModerate Priority = "moderate"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// rank orders priorities for comparisons.
func (p Priority) rank() int {
	switch p {
	case PriorityCritical:
		return 3
	case PriorityHigh:
		return 2
	case PriorityModerate:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether p is at or above other.
func (p Priority) AtLeast(other Priority) bool {
	return p.rank() >= other.rank()
}

// FollowUpQuestion is a targeted multiple-choice probe suggested when a
// specific domain fires.
type FollowUpQuestion struct {
	Domain  Domain   `json:"domain" bson:"domain"`
	Text    string   `json:"text" bson:"text"`
	Options []string `json:"options" bson:"options"`
}

// TriggerDecision is the aggregator's output: whether to escalate to a
// deep-dive conversation and how to present it. Pure function of its inputs.
type TriggerDecision struct {
	ShouldTrigger   bool               `json:"shouldTrigger" bson:"shouldTrigger"`
	Priority        Priority           `json:"priority" bson:"priority"`
	Confidence      float64            `json:"confidence" bson:"confidence"` // 0-1, heuristic
	FocusAreas      []Domain           `json:"focusAreas" bson:"focusAreas"`
	Recommendations []string           `json:"recommendations" bson:"recommendations"`
	Message         string             `json:"message" bson:"message"`
	FollowUps       []FollowUpQuestion `json:"followUps,omitempty" bson:"followUps,omitempty"`
	EvaluatedAt     time.Time          `json:"evaluatedAt" bson:"evaluatedAt"`
}

// CheckIn is one completed survey submission with everything the analysis
// pipeline derived from it.
type CheckIn struct {
	ID           string              `json:"id" bson:"_id,omitempty"`
	UserID       string              `json:"userId" bson:"userId"`
	Responses    []SurveyResponse    `json:"responses" bson:"responses"`
	Assessments  []StressAssessment  `json:"assessments" bson:"assessments"`
	Insights     []DeepDiveInsight   `json:"insights,omitempty" bson:"insights,omitempty"`
	Recurrences  []RecurrenceFinding `json:"recurrences,omitempty" bson:"recurrences,omitempty"`
	Decision     TriggerDecision     `json:"decision" bson:"decision"`
	AverageScore float64             `json:"averageScore" bson:"averageScore"`
	SubmittedAt  time.Time           `json:"submittedAt" bson:"submittedAt"`
}
