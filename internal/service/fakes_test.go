package service

import (
	"context"
	"errors"
	"sync"

	"manova/internal/model"
	"manova/internal/repository"
)

// fakeAI is a scripted provider client for tests.
type fakeAI struct {
	chatContent string
	chatErr     error
	embedVec    []float32
	embedErr    error
	chatCalls   int
}

func (f *fakeAI) ChatJSON(_ context.Context, _, _ string) (string, error) {
	f.chatCalls++
	if f.chatErr != nil {
		return "", f.chatErr
	}
	return f.chatContent, nil
}

func (f *fakeAI) Embed(_ context.Context, _ string) ([]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	return f.embedVec, nil
}

// fakeCheckInRepo keeps check-ins in memory, newest first.
type fakeCheckInRepo struct {
	mu       sync.Mutex
	checkIns []*model.CheckIn
	failNext error
}

func (r *fakeCheckInRepo) Create(_ context.Context, checkIn *model.CheckIn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	checkIn.ID = "checkin-" + string(rune('a'+len(r.checkIns)))
	r.checkIns = append([]*model.CheckIn{checkIn}, r.checkIns...)
	return nil
}

func (r *fakeCheckInRepo) GetByID(_ context.Context, id string) (*model.CheckIn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.checkIns {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeCheckInRepo) GetByUserID(_ context.Context, userID string, limit int64) ([]*model.CheckIn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.CheckIn
	for _, c := range r.checkIns {
		if c.UserID == userID {
			out = append(out, c)
			if limit > 0 && int64(len(out)) == limit {
				break
			}
		}
	}
	return out, nil
}

// fakeDecisionCache stores the last decision per user.
type fakeDecisionCache struct {
	mu        sync.Mutex
	decisions map[string]*model.TriggerDecision
}

func newFakeDecisionCache() *fakeDecisionCache {
	return &fakeDecisionCache{decisions: make(map[string]*model.TriggerDecision)}
}

func (c *fakeDecisionCache) Set(_ context.Context, userID string, decision *model.TriggerDecision) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.decisions[userID] = decision
	return nil
}

func (c *fakeDecisionCache) Get(_ context.Context, userID string) (*model.TriggerDecision, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.decisions[userID], nil
}

// fakeBaselineCache stores baselines per user.
type fakeBaselineCache struct {
	mu        sync.Mutex
	baselines map[string]float64
}

func newFakeBaselineCache() *fakeBaselineCache {
	return &fakeBaselineCache{baselines: make(map[string]float64)}
}

func (c *fakeBaselineCache) Set(_ context.Context, userID string, baseline float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baselines[userID] = baseline
	return nil
}

func (c *fakeBaselineCache) Get(_ context.Context, userID string) (*float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.baselines[userID]; ok {
		return &b, nil
	}
	return nil, nil
}

func (c *fakeBaselineCache) Invalidate(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.baselines, userID)
	return nil
}

// fakeUserRepo is an in-memory user store keyed by email.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
	next  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	user.ID = "user-" + string(rune('0'+r.next))
	r.users[user.Email] = user
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// captureBroadcaster records published events.
type captureBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (b *captureBroadcaster) Publish(_ string, event string, _ interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *captureBroadcaster) Events() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.events...)
}
