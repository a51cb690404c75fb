package service

import (
	"sort"
	"time"

	"manova/internal/config"
	"manova/internal/model"
)

// TriggerService combines current assessments, recurrence findings and an
// optional historical baseline into a single escalation decision. Pure
// function of its inputs; callers supply the relevant window of history.
type TriggerService struct {
	cfg *config.AnalysisConfig
}

// NewTriggerService creates a new aggregator.
func NewTriggerService(cfg *config.AnalysisConfig) *TriggerService {
	return &TriggerService{cfg: cfg}
}

// Decide evaluates one completed check-in. baseline, when non-nil, is the
// user's historical average score.
func (s *TriggerService) Decide(assessments []model.StressAssessment, findings []model.RecurrenceFinding, baseline *float64) model.TriggerDecision {
	decision := model.TriggerDecision{
		Priority:    model.PriorityLow,
		EvaluatedAt: time.Now(),
	}
	if len(assessments) == 0 {
		decision.Message = priorityMessages[model.PriorityLow]
		decision.Recommendations = append([]string(nil), priorityRecommendations[model.PriorityLow]...)
		return decision
	}

	// Per-domain averages over the current survey.
	domainTotals := make(map[model.Domain]int)
	domainCounts := make(map[model.Domain]int)
	highCount := 0
	total := 0
	for _, a := range assessments {
		domainTotals[a.Domain] += a.Score
		domainCounts[a.Domain]++
		total += a.Score
		if a.Score >= s.cfg.HighStressCutoff {
			highCount++
		}
	}
	currentAvg := float64(total) / float64(len(assessments))

	domainAvg := make(map[model.Domain]float64, len(domainTotals))
	maxDomainAvg := 0.0
	elevatedDomains := 0
	for d, sum := range domainTotals {
		avg := float64(sum) / float64(domainCounts[d])
		domainAvg[d] = avg
		if avg > maxDomainAvg {
			maxDomainAvg = avg
		}
		if avg >= 6 {
			elevatedDomains++
		}
	}

	recurringCount := 0
	for _, f := range findings {
		if f.IsRecurring {
			recurringCount++
		}
	}

	// Priority ladder, first match wins from the top.
	critical := maxDomainAvg >= 8 || highCount >= 5
	high := recurringCount >= s.cfg.MinRecurringFindings || highCount >= 3 || maxDomainAvg >= 6
	moderate := elevatedDomains >= 2
	lowModerate := recurringCount >= 1 || highCount >= 1

	switch {
	case critical:
		decision.Priority = model.PriorityCritical
		decision.ShouldTrigger = true
	case high:
		decision.Priority = model.PriorityHigh
		decision.ShouldTrigger = true
	case moderate, lowModerate:
		decision.Priority = model.PriorityModerate
		decision.ShouldTrigger = true
	default:
		decision.Priority = model.PriorityLow
	}

	// Confidence accumulates a fixed increment per contributing factor.
	// Heuristic, not a calibrated probability.
	confidence := 0.0
	if highCount >= 1 {
		confidence += s.cfg.ConfidenceHighStress
	}
	if recurringCount >= 1 {
		confidence += s.cfg.ConfidenceRecurring
	}
	if critical {
		confidence += s.cfg.ConfidenceCritical
	}
	if elevatedDomains >= 2 {
		confidence += s.cfg.ConfidenceMultiDomain
	}

	// A sharp rise over the historical baseline triggers on its own.
	if baseline != nil && *baseline > 0 && currentAvg > *baseline*(1+s.cfg.BaselineDeviation) {
		decision.ShouldTrigger = true
		confidence += s.cfg.ConfidenceBaseline
		if decision.Priority == model.PriorityLow {
			decision.Priority = model.PriorityModerate
		}
		decision.Recommendations = append(decision.Recommendations,
			"Your stress levels are noticeably higher than your recent average. It may help to reflect on what changed.")
	}
	decision.Confidence = clamp01(confidence)

	decision.FocusAreas = focusAreas(assessments, findings, domainAvg, s.cfg.HighStressCutoff)
	decision.Message = priorityMessages[decision.Priority]
	decision.Recommendations = append(decision.Recommendations, priorityRecommendations[decision.Priority]...)

	if decision.ShouldTrigger {
		for _, d := range decision.FocusAreas {
			if fq, ok := followUpQuestions[d]; ok {
				decision.FollowUps = append(decision.FollowUps, fq)
			}
		}
	}

	return decision
}

func focusAreas(assessments []model.StressAssessment, findings []model.RecurrenceFinding, domainAvg map[model.Domain]float64, cutoff int) []model.Domain {
	seen := make(map[model.Domain]bool)
	for _, a := range assessments {
		if a.Score >= cutoff || domainAvg[a.Domain] >= 6 {
			seen[a.Domain] = true
		}
	}
	for _, f := range findings {
		if f.IsRecurring {
			seen[f.Domain] = true
		}
	}

	areas := make([]model.Domain, 0, len(seen))
	for d := range seen {
		areas = append(areas, d)
	}
	sort.Slice(areas, func(i, j int) bool { return areas[i] < areas[j] })
	return areas
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

var priorityMessages = map[model.Priority]string{
	model.PriorityLow:      "You're doing well overall. Keep checking in with yourself.",
	model.PriorityModerate: "Some areas could use a little attention. A short reflection might help.",
	model.PriorityHigh:     "You've been carrying elevated stress. Let's look at what's behind it together.",
	model.PriorityCritical: "Your responses suggest you're under serious strain right now. Please consider reaching out for support today.",
}

var priorityRecommendations = map[model.Priority][]string{
	model.PriorityLow: {
		"Keep up the habits that are working for you.",
	},
	model.PriorityModerate: {
		"Pick one focus area and try a small change this week.",
		"A brief daily mood log can make patterns easier to see.",
	},
	model.PriorityHigh: {
		"Consider a deep-dive conversation to unpack the biggest stressor.",
		"Protect some recovery time in your schedule this week.",
	},
	model.PriorityCritical: {
		"Talking to a mental-health professional can make an immediate difference.",
		"If you feel unsafe, contact a crisis line or someone you trust right now.",
		"Consider a deep-dive conversation when you feel ready.",
	},
}

// followUpQuestions are targeted probes presented when a domain fires.
var followUpQuestions = map[model.Domain]model.FollowUpQuestion{
	model.DomainWorkCareer: {
		Domain: model.DomainWorkCareer,
		Text:   "What part of your work situation weighs on you most right now?",
		Options: []string{
			"The sheer amount of work",
			"Not feeling recognized",
			"Conflict with colleagues or manager",
			"Worry about job security",
		},
	},
	model.DomainPersonalLife: {
		Domain: model.DomainPersonalLife,
		Text:   "What feels hardest in your personal life at the moment?",
		Options: []string{
			"Feeling disconnected from people",
			"Tension in a close relationship",
			"No time that is truly my own",
			"Something else",
		},
	},
	model.DomainFinancial: {
		Domain: model.DomainFinancial,
		Text:   "What part of your finances worries you most?",
		Options: []string{
			"Covering everyday expenses",
			"Debt",
			"No savings buffer",
			"Long-term security",
		},
	},
	model.DomainHealth: {
		Domain: model.DomainHealth,
		Text:   "What health concern is on your mind most?",
		Options: []string{
			"Sleep",
			"Energy levels",
			"A specific symptom",
			"Keeping up healthy habits",
		},
	},
	model.DomainSelfWorth: {
		Domain: model.DomainSelfWorth,
		Text:   "When do you notice being hardest on yourself?",
		Options: []string{
			"When comparing myself to others",
			"After a mistake at work",
			"In social situations",
			"Most of the time",
		},
	},
}
