package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"manova/internal/config"
	"manova/internal/model"
	"manova/internal/platform/logger"
	"manova/internal/vector"
)

// RecurrenceService stores embeddings of high-stress responses and checks
// new ones against the user's history. A response is recurring when enough
// close neighbors share its domain and are also high-stress.
type RecurrenceService struct {
	log   *logger.Logger
	store vector.Store
	cfg   *config.AnalysisConfig
}

// NewRecurrenceService creates a new recurrence detector.
func NewRecurrenceService(log *logger.Logger, store vector.Store, cfg *config.AnalysisConfig) *RecurrenceService {
	return &RecurrenceService{
		log:   log.With("service", "recurrence"),
		store: store,
		cfg:   cfg,
	}
}

// Record appends an embedding record for the user. Duplicate submissions
// create distinct records. Upsert failures are returned so the caller can
// decide to retry; they never abort the rest of the pipeline.
func (s *RecurrenceService) Record(ctx context.Context, userID string, vec []float32, meta vector.Metadata) error {
	id := fmt.Sprintf("%s_%d_%s", userID, time.Now().UnixMilli(), uuid.New().String()[:8])
	meta.UserID = userID
	if meta.Timestamp == 0 {
		meta.Timestamp = time.Now().UnixMilli()
	}
	if err := s.store.Upsert(ctx, vector.Record{ID: id, Values: vec, Metadata: meta}); err != nil {
		return fmt.Errorf("record embedding: %w", err)
	}
	return nil
}

// FindRecurrence queries the store for the nearest neighbors of vec among
// the user's records and filters to same-domain high-stress matches above
// the similarity threshold. Query failures degrade to "no recurrence".
func (s *RecurrenceService) FindRecurrence(ctx context.Context, userID string, vec []float32, domain model.Domain, topK int) model.RecurrenceFinding {
	if topK <= 0 {
		topK = 3
	}
	finding := model.RecurrenceFinding{Domain: domain}

	matches, err := s.store.Query(ctx, userID, vec, topK)
	if err != nil {
		s.log.Warn("recurrence query failed, treating as no recurrence", "error", err)
		return finding
	}

	var totalSim float64
	for _, m := range matches {
		if m.Score <= s.cfg.SimilarityThreshold {
			continue
		}
		// Domain isolation is a hard invariant: a near-identical answer
		// filed under a different life area must not cross-trigger.
		if m.Metadata.Domain != string(domain) {
			continue
		}
		if m.Metadata.StressScore < s.cfg.HighStressCutoff {
			continue
		}
		finding.MatchCount++
		totalSim += m.Score
	}
	if finding.MatchCount > 0 {
		finding.AverageSimilarity = totalSim / float64(finding.MatchCount)
	}
	finding.IsRecurring = finding.MatchCount >= s.cfg.MinRecurrenceMatches
	return finding
}

// Cleanup prunes the user's oldest records beyond keepRecent. Best effort:
// failures are logged and never affect the pipeline.
func (s *RecurrenceService) Cleanup(ctx context.Context, userID string, keepRecent int) {
	if keepRecent <= 0 {
		keepRecent = s.cfg.KeepRecentVectors
	}

	ids, err := s.store.ListIDs(ctx, userID)
	if err != nil {
		s.log.Warn("cleanup list failed", "error", err)
		return
	}
	if len(ids) <= keepRecent {
		return
	}

	// Ids embed the record's unix-ms timestamp, so ordering needs no
	// metadata fetch.
	sort.Slice(ids, func(i, j int) bool {
		return timestampFromID(ids[i], userID) > timestampFromID(ids[j], userID)
	})
	stale := ids[keepRecent:]
	if err := s.store.Delete(ctx, stale); err != nil {
		s.log.Warn("cleanup delete failed", "count", len(stale), "error", err)
		return
	}
	s.log.Debug("pruned embedding records", "deleted", len(stale), "kept", keepRecent)
}

func timestampFromID(id, userID string) int64 {
	rest := strings.TrimPrefix(id, userID+"_")
	parts := strings.SplitN(rest, "_", 2)
	if len(parts) == 0 {
		return 0
	}
	ts, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0
	}
	return ts
}
