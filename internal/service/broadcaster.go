package service

// Event types published to a user's websocket stream.
const (
	EventAnalysisStarted = "analysis_started"
	EventAssessmentReady = "assessment_ready"
	EventDeepDiveReady   = "deep_dive_ready"
	EventTriggerDecision = "trigger_decision"
)

// Broadcaster pushes events to a user's live connections (avoids an import
// cycle with the websocket transport).
type Broadcaster interface {
	Publish(userID string, event string, payload interface{})
}
