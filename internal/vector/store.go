package vector

import (
	"context"

	"manova/internal/clients/pinecone"
	"manova/internal/platform/logger"
)

// Metadata travels with every stored embedding and drives the recurrence
// filters (same user, same domain, high stress).
type Metadata struct {
	UserID      string `json:"userId"`
	Domain      string `json:"domain"`
	QuestionID  string `json:"questionId"`
	StressScore int    `json:"stressScore"`
	Emotion     string `json:"emotion"`
	Intensity   string `json:"intensity"`
	CauseTag    string `json:"causeTag"`
	Timestamp   int64  `json:"timestamp"` // unix ms
}

func (m Metadata) toMap() map[string]any {
	return map[string]any{
		"userId":      m.UserID,
		"domain":      m.Domain,
		"questionId":  m.QuestionID,
		"stressScore": m.StressScore,
		"emotion":     m.Emotion,
		"intensity":   m.Intensity,
		"causeTag":    m.CauseTag,
		"timestamp":   m.Timestamp,
	}
}

func metadataFromMap(raw map[string]any) Metadata {
	m := Metadata{}
	if v, ok := raw["userId"].(string); ok {
		m.UserID = v
	}
	if v, ok := raw["domain"].(string); ok {
		m.Domain = v
	}
	if v, ok := raw["questionId"].(string); ok {
		m.QuestionID = v
	}
	if v, ok := raw["stressScore"].(float64); ok {
		m.StressScore = int(v)
	}
	if v, ok := raw["emotion"].(string); ok {
		m.Emotion = v
	}
	if v, ok := raw["intensity"].(string); ok {
		m.Intensity = v
	}
	if v, ok := raw["causeTag"].(string); ok {
		m.CauseTag = v
	}
	if v, ok := raw["timestamp"].(float64); ok {
		m.Timestamp = int64(v)
	}
	return m
}

// Record is one embedding to store.
type Record struct {
	ID       string
	Values   []float32
	Metadata Metadata
}

// Match is one similarity result. Score is the store's cosine similarity;
// callers only threshold it.
type Match struct {
	ID       string
	Score    float64
	Metadata Metadata
}

// Store abstracts the vector database. The managed implementation owns
// durability and indexing; this interface owns nothing but the calls.
type Store interface {
	Upsert(ctx context.Context, rec Record) error
	// Query returns the topK nearest neighbors among the given user's records.
	Query(ctx context.Context, userID string, vec []float32, topK int) ([]Match, error)
	// ListIDs returns all record ids belonging to the user (for cleanup).
	ListIDs(ctx context.Context, userID string) ([]string, error)
	Delete(ctx context.Context, ids []string) error
}

// PineconeStore is the managed-index implementation.
type PineconeStore struct {
	log       *logger.Logger
	pc        pinecone.Client
	namespace string
}

// NewPineconeStore wraps a data-plane client in the Store interface.
func NewPineconeStore(log *logger.Logger, pc pinecone.Client, namespace string) *PineconeStore {
	if namespace == "" {
		namespace = "manova"
	}
	return &PineconeStore{
		log:       log.With("service", "PineconeStore"),
		pc:        pc,
		namespace: namespace,
	}
}

func (s *PineconeStore) Upsert(ctx context.Context, rec Record) error {
	_, err := s.pc.Upsert(ctx, pinecone.UpsertRequest{
		Namespace: s.namespace,
		Vectors: []pinecone.Vector{{
			ID:       rec.ID,
			Values:   rec.Values,
			Metadata: rec.Metadata.toMap(),
		}},
	})
	return err
}

func (s *PineconeStore) Query(ctx context.Context, userID string, vec []float32, topK int) ([]Match, error) {
	resp, err := s.pc.Query(ctx, pinecone.QueryRequest{
		Namespace:       s.namespace,
		Vector:          vec,
		TopK:            topK,
		Filter:          map[string]any{"userId": map[string]any{"$eq": userID}},
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, err
	}
	out := make([]Match, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		out = append(out, Match{
			ID:       m.ID,
			Score:    m.Score,
			Metadata: metadataFromMap(m.Metadata),
		})
	}
	return out, nil
}

func (s *PineconeStore) ListIDs(ctx context.Context, userID string) ([]string, error) {
	// Record ids are prefixed "{userId}_" so prefix listing stays per-user.
	return s.pc.ListIDs(ctx, s.namespace, userID+"_", 100)
}

func (s *PineconeStore) Delete(ctx context.Context, ids []string) error {
	return s.pc.DeleteIDs(ctx, s.namespace, ids)
}
