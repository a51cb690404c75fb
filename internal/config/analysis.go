package config

import "fmt"

// AnalysisConfig holds the tunable constants of the stress-analysis pipeline.
// The defaults reproduce the calibration the product shipped with; they are
// env-overridable because none of them were derived from data.
type AnalysisConfig struct {
	// SimilarityThreshold is the minimum cosine similarity for a past
	// response to count as a recurrence match.
	SimilarityThreshold float64

	// MinRecurrenceMatches is how many matches findRecurrence needs to
	// flag a single response as recurring.
	MinRecurrenceMatches int

	// MinRecurringFindings is how many recurring responses the aggregator
	// needs to escalate to high priority.
	MinRecurringFindings int

	// HighStressCutoff is the score at or above which a response is
	// high-stress (deep dive, embedding record).
	HighStressCutoff int

	// KeepRecentVectors bounds how many embedding records cleanup retains
	// per user.
	KeepRecentVectors int

	// BaselineDeviation is the fractional increase over the historical
	// average that forces a trigger on its own (0.25 = +25%).
	BaselineDeviation float64

	// Confidence increments per contributing factor.
	ConfidenceHighStress  float64
	ConfidenceRecurring   float64
	ConfidenceCritical    float64
	ConfidenceMultiDomain float64
	ConfidenceBaseline    float64
}

// DefaultAnalysisConfig returns the analysis tuning from the environment.
func DefaultAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		SimilarityThreshold:   getEnvFloat("ANALYSIS_SIMILARITY_THRESHOLD", 0.85),
		MinRecurrenceMatches:  getEnvInt("ANALYSIS_MIN_RECURRENCE_MATCHES", 1),
		MinRecurringFindings:  getEnvInt("ANALYSIS_MIN_RECURRING_FINDINGS", 2),
		HighStressCutoff:      getEnvInt("ANALYSIS_HIGH_STRESS_CUTOFF", 7),
		KeepRecentVectors:     getEnvInt("ANALYSIS_KEEP_RECENT_VECTORS", 50),
		BaselineDeviation:     getEnvFloat("ANALYSIS_BASELINE_DEVIATION", 0.25),
		ConfidenceHighStress:  0.3,
		ConfidenceRecurring:   0.4,
		ConfidenceCritical:    0.5,
		ConfidenceMultiDomain: 0.2,
		ConfidenceBaseline:    0.2,
	}
}

// Validate rejects thresholds the pipeline cannot operate with.
func (c *AnalysisConfig) Validate() error {
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold >= 1 {
		return fmt.Errorf("similarity threshold must be in (0,1), got %v", c.SimilarityThreshold)
	}
	if c.HighStressCutoff < 1 || c.HighStressCutoff > 10 {
		return fmt.Errorf("high stress cutoff must be in [1,10], got %d", c.HighStressCutoff)
	}
	if c.MinRecurrenceMatches < 1 {
		return fmt.Errorf("min recurrence matches must be >= 1, got %d", c.MinRecurrenceMatches)
	}
	if c.MinRecurringFindings < 1 {
		return fmt.Errorf("min recurring findings must be >= 1, got %d", c.MinRecurringFindings)
	}
	if c.KeepRecentVectors < 1 {
		return fmt.Errorf("keep recent vectors must be >= 1, got %d", c.KeepRecentVectors)
	}
	if c.BaselineDeviation <= 0 {
		return fmt.Errorf("baseline deviation must be positive, got %v", c.BaselineDeviation)
	}
	return nil
}
