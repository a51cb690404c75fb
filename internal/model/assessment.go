package model

import "time"

// StressTag classifies what kind of stress an answer revealed.
type StressTag string

const (
	TagLowStress              StressTag = "Low Stress"
	TagSupportDeficiency      StressTag = "Support Deficiency"
	TagRecognitionDeficit     StressTag = "Recognition Deficit"
	TagEnergyDepletion        StressTag = "Energy Depletion"
	TagWorkloadOverwhelm      StressTag = "Workload Overwhelm"
	TagEmotionalDisconnection StressTag = "Emotional Disconnection"
	TagBurnoutRisk            StressTag = "Burnout Risk"
	TagRelationshipStrain     StressTag = "Relationship Strain"
	TagFinancialAnxiety       StressTag = "Financial Anxiety"
	TagHealthConcern          StressTag = "Health Concern"
	TagIdentityStrain         StressTag = "Identity Strain"
)

// AllStressTags is the closed tag vocabulary. Output from the AI path is
// clamped to this set before it is trusted.
var AllStressTags = []StressTag{
	TagLowStress,
	TagSupportDeficiency,
	TagRecognitionDeficit,
	TagEnergyDepletion,
	TagWorkloadOverwhelm,
	TagEmotionalDisconnection,
	TagBurnoutRisk,
	TagRelationshipStrain,
	TagFinancialAnxiety,
	TagHealthConcern,
	TagIdentityStrain,
}

// IsValid reports whether t is in the tag vocabulary.
func (t StressTag) IsValid() bool {
	for _, v := range AllStressTags {
		if v == t {
			return true
		}
	}
	return false
}

// CauseTag is the machine-readable root-cause label attached to an assessment.
type CauseTag string

const (
	CauseLowStress           CauseTag = "low_stress"
	CauseBurnout             CauseTag = "burnout"
	CauseInsecurity          CauseTag = "insecurity"
	CauseOverwork            CauseTag = "overwork"
	CauseCareerStagnation    CauseTag = "career_stagnation"
	CauseLoneliness          CauseTag = "loneliness"
	CauseRelationshipStress  CauseTag = "relationship_stress"
	CauseBoundaryIssues      CauseTag = "boundary_issues"
	CauseFinancialFear       CauseTag = "financial_fear"
	CauseHealthAnxiety       CauseTag = "health_anxiety"
	CauseInadequacy          CauseTag = "inadequacy"
	CauseSelfWorth           CauseTag = "self_worth"
	CauseAnxiety             CauseTag = "anxiety"
	CauseEmotionalExhaustion CauseTag = "emotional_exhaustion"
	CauseLackOfSupport       CauseTag = "lack_of_support"
	CauseWorkLifeImbalance   CauseTag = "work_life_imbalance"
	CauseUncertainty         CauseTag = "uncertainty"
	CauseSocialIsolation     CauseTag = "social_isolation"
	CauseSleepDisruption     CauseTag = "sleep_disruption"
	CausePerfectionism       CauseTag = "perfectionism"
)

// AllCauseTags is the closed cause vocabulary.
var AllCauseTags = []CauseTag{
	CauseLowStress,
	CauseBurnout,
	CauseInsecurity,
	CauseOverwork,
	CauseCareerStagnation,
	CauseLoneliness,
	CauseRelationshipStress,
	CauseBoundaryIssues,
	CauseFinancialFear,
	CauseHealthAnxiety,
	CauseInadequacy,
	CauseSelfWorth,
	CauseAnxiety,
	CauseEmotionalExhaustion,
	CauseLackOfSupport,
	CauseWorkLifeImbalance,
	CauseUncertainty,
	CauseSocialIsolation,
	CauseSleepDisruption,
	CausePerfectionism,
}

// IsValid reports whether c is in the cause vocabulary.
func (c CauseTag) IsValid() bool {
	for _, v := range AllCauseTags {
		if v == c {
			return true
		}
	}
	return false
}

// Intensity is the coarse stress band derived from the numeric score.
type Intensity string

const (
	IntensityLow      Intensity = "Low"
	IntensityModerate Intensity = "Moderate"
	IntensityHigh     Intensity = "High"
)

// LabelColor is the UI color band derived from the numeric score.
type LabelColor string

const (
	ColorGreen  LabelColor = "green"
	ColorYellow LabelColor = "yellow"
	ColorRed    LabelColor = "red"
)

// IntensityForScore maps a 1-10 stress score to its band.
// 1-3 Low, 4-6 Moderate, 7-10 High.
func IntensityForScore(score int) Intensity {
	switch {
	case score <= 3:
		return IntensityLow
	case score <= 6:
		return IntensityModerate
	default:
		return IntensityHigh
	}
}

// ColorForScore maps a 1-10 stress score to its label color.
func ColorForScore(score int) LabelColor {
	switch {
	case score <= 3:
		return ColorGreen
	case score <= 6:
		return ColorYellow
	default:
		return ColorRed
	}
}

// SurveyResponse is one answered check-in question, consumed by the scorer.
type SurveyResponse struct {
	QuestionID   string `json:"questionId" bson:"questionId"`
	QuestionText string `json:"questionText" bson:"questionText"`
	AnswerText   string `json:"answerText" bson:"answerText"`
	Domain       Domain `json:"domain" bson:"domain"`
	UserID       string `json:"userId,omitempty" bson:"userId,omitempty"`
}

// StressAssessment is the scorer's verdict for one response.
// Intensity and LabelColor are always a function of Score; immutable once produced.
type StressAssessment struct {
	QuestionID string     `json:"questionId" bson:"questionId"`
	Domain     Domain     `json:"domain" bson:"domain"`
	Score      int        `json:"score" bson:"score"` // 1-10
	Tag        StressTag  `json:"tag" bson:"tag"`
	CauseTag   CauseTag   `json:"causeTag" bson:"causeTag"`
	Intensity  Intensity  `json:"intensity" bson:"intensity"`
	LabelColor LabelColor `json:"labelColor" bson:"labelColor"`
	Reason     string     `json:"reason" bson:"reason"`
}

// HighStress reports whether this assessment crosses the deep-dive cutoff.
func (a *StressAssessment) HighStress() bool {
	return a.Score >= 7 || a.Intensity == IntensityHigh
}

// GeneratedBy records which path produced a deep-dive insight.
type GeneratedBy string

const (
	GeneratedByAI       GeneratedBy = "ai"
	GeneratedByFallback GeneratedBy = "fallback"
)

// DeepDiveInsight holds root causes and coping suggestions for a
// high-stress response.
type DeepDiveInsight struct {
	QuestionID  string      `json:"questionId" bson:"questionId"`
	Causes      []string    `json:"causes" bson:"causes"`       // exactly 3
	Solutions   []string    `json:"solutions" bson:"solutions"` // exactly 3
	GeneratedBy GeneratedBy `json:"generatedBy" bson:"generatedBy"`
	CreatedAt   time.Time   `json:"createdAt" bson:"createdAt"`
}
