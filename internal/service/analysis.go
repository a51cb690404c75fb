package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"manova/internal/cache"
	"manova/internal/config"
	"manova/internal/model"
	"manova/internal/platform/logger"
	"manova/internal/repository"
	"manova/internal/vector"
)

// scoreParallelism bounds concurrent scoring calls within one submission.
const scoreParallelism = 4

// baselineWindow is how many past check-ins feed the historical average.
const baselineWindow = 10

// AnalysisService runs the full pipeline for one check-in submission:
// score every response, deep-dive the high-stress ones, record and match
// embeddings, then aggregate into a trigger decision.
type AnalysisService struct {
	log           *logger.Logger
	cfg           *config.AnalysisConfig
	scorer        *ScorerService
	deepDive      *DeepDiveService
	embedder      *EmbeddingService
	recurrence    *RecurrenceService
	trigger       *TriggerService
	checkInRepo   repository.CheckInRepo
	decisionCache cache.DecisionCache
	baselineCache cache.BaselineCache
	broadcaster   Broadcaster
}

// NewAnalysisService creates the pipeline orchestrator.
func NewAnalysisService(
	log *logger.Logger,
	cfg *config.AnalysisConfig,
	scorer *ScorerService,
	deepDive *DeepDiveService,
	embedder *EmbeddingService,
	recurrence *RecurrenceService,
	trigger *TriggerService,
	checkInRepo repository.CheckInRepo,
	decisionCache cache.DecisionCache,
	baselineCache cache.BaselineCache,
) *AnalysisService {
	return &AnalysisService{
		log:           log.With("service", "analysis"),
		cfg:           cfg,
		scorer:        scorer,
		deepDive:      deepDive,
		embedder:      embedder,
		recurrence:    recurrence,
		trigger:       trigger,
		checkInRepo:   checkInRepo,
		decisionCache: decisionCache,
		baselineCache: baselineCache,
	}
}

// SetBroadcaster sets the broadcaster for live events.
func (s *AnalysisService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SubmitCheckIn analyzes a completed survey and persists the result.
// Only malformed caller input produces an error; provider outages degrade
// to local fallbacks inside the component services.
func (s *AnalysisService) SubmitCheckIn(ctx context.Context, userID string, responses []model.SurveyResponse) (*model.CheckIn, error) {
	if userID == "" {
		return nil, &ValidationError{Message: "userId is required"}
	}
	if len(responses) == 0 {
		return nil, &ValidationError{Message: "at least one survey response is required"}
	}
	for i := range responses {
		if responses[i].QuestionID == "" || responses[i].AnswerText == "" {
			return nil, &ValidationError{Message: fmt.Sprintf("response %d is missing questionId or answerText", i)}
		}
		domain, ok := model.ParseDomain(string(responses[i].Domain))
		if !ok {
			return nil, &ValidationError{Message: fmt.Sprintf("response %d has unknown domain %q", i, responses[i].Domain)}
		}
		responses[i].Domain = domain
		responses[i].UserID = userID
	}

	s.publish(userID, EventAnalysisStarted, map[string]interface{}{
		"responseCount": len(responses),
	})

	// Score every response. Order in the result matches submission order;
	// the calls themselves may run in parallel.
	assessments := make([]model.StressAssessment, len(responses))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(scoreParallelism)
	for i := range responses {
		i := i
		g.Go(func() error {
			assessments[i] = s.scorer.Score(gctx, responses[i])
			return nil
		})
	}
	// Scoring never errors; the group only propagates context cancellation.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.publish(userID, EventAssessmentReady, map[string]interface{}{
		"assessments": assessments,
	})

	// High-stress responses get the expensive treatment: deep dive,
	// embedding, recurrence lookup. Each step degrades independently.
	var insights []model.DeepDiveInsight
	var findings []model.RecurrenceFinding
	for i, assessment := range assessments {
		if !s.deepDive.ShouldGenerate(assessment) {
			continue
		}

		insight := s.deepDive.Generate(ctx, responses[i], assessment)
		insights = append(insights, insight)

		vec := s.embedder.EmbedResponse(ctx, responses[i], assessment)

		// Query before recording so a response never matches itself.
		finding := s.recurrence.FindRecurrence(ctx, userID, vec, assessment.Domain, 3)
		findings = append(findings, finding)

		if err := s.recurrence.Record(ctx, userID, vec, vector.Metadata{
			Domain:      string(assessment.Domain),
			QuestionID:  assessment.QuestionID,
			StressScore: assessment.Score,
			Emotion:     string(assessment.Tag),
			Intensity:   string(assessment.Intensity),
			CauseTag:    string(assessment.CauseTag),
		}); err != nil {
			s.log.Warn("embedding record failed", "questionId", assessment.QuestionID, "error", err)
		}
	}

	baseline := s.historicalBaseline(ctx, userID)
	decision := s.trigger.Decide(assessments, findings, baseline)

	total := 0
	for _, a := range assessments {
		total += a.Score
	}
	checkIn := &model.CheckIn{
		UserID:       userID,
		Responses:    responses,
		Assessments:  assessments,
		Insights:     insights,
		Recurrences:  findings,
		Decision:     decision,
		AverageScore: float64(total) / float64(len(assessments)),
		SubmittedAt:  time.Now(),
	}
	if err := s.checkInRepo.Create(ctx, checkIn); err != nil {
		return nil, fmt.Errorf("persist check-in: %w", err)
	}

	if err := s.decisionCache.Set(ctx, userID, &decision); err != nil {
		s.log.Warn("decision cache set failed", "error", err)
	}
	if err := s.baselineCache.Invalidate(ctx, userID); err != nil {
		s.log.Warn("baseline cache invalidate failed", "error", err)
	}

	if len(insights) > 0 {
		s.publish(userID, EventDeepDiveReady, map[string]interface{}{
			"insights": insights,
		})
	}
	s.publish(userID, EventTriggerDecision, decision)

	// Prune old embedding records off the request path.
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("recovered from panic in cleanup", "panic", r)
			}
		}()
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.recurrence.Cleanup(cleanupCtx, userID, s.cfg.KeepRecentVectors)
	}()

	return checkIn, nil
}

// LatestDecision returns the most recent trigger decision for the user,
// from cache when possible, otherwise from the newest stored check-in.
func (s *AnalysisService) LatestDecision(ctx context.Context, userID string) (*model.TriggerDecision, error) {
	if decision, err := s.decisionCache.Get(ctx, userID); err == nil && decision != nil {
		return decision, nil
	} else if err != nil {
		s.log.Warn("decision cache get failed", "error", err)
	}

	checkIns, err := s.checkInRepo.GetByUserID(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(checkIns) == 0 {
		return nil, ErrNotFound
	}
	return &checkIns[0].Decision, nil
}

// historicalBaseline returns the user's average score over the last few
// check-ins, or nil when there is no usable history. Failures here never
// block the submission.
func (s *AnalysisService) historicalBaseline(ctx context.Context, userID string) *float64 {
	if cached, err := s.baselineCache.Get(ctx, userID); err == nil && cached != nil {
		return cached
	} else if err != nil {
		s.log.Warn("baseline cache get failed", "error", err)
	}

	checkIns, err := s.checkInRepo.GetByUserID(ctx, userID, baselineWindow)
	if err != nil {
		s.log.Warn("baseline history lookup failed", "error", err)
		return nil
	}
	if len(checkIns) == 0 {
		return nil
	}

	var total float64
	for _, c := range checkIns {
		total += c.AverageScore
	}
	baseline := total / float64(len(checkIns))

	if err := s.baselineCache.Set(ctx, userID, baseline); err != nil {
		s.log.Warn("baseline cache set failed", "error", err)
	}
	return &baseline
}

func (s *AnalysisService) publish(userID, event string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.Publish(userID, event, payload)
	}
}
