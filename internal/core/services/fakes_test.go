package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/planner-api/internal/core/domain"
	"github.com/custodia-labs/planner-api/internal/core/ports/driven"
)

type fakeFactory struct {
	client *fakePlannerClient
	err    error
	tokens []string
}

func (f *fakeFactory) ForToken(token string) (driven.PlannerClient, error) {
	f.tokens = append(f.tokens, token)
	if f.err != nil {
		return nil, f.err
	}
	return f.client, nil
}

// fakePlannerClient serves canned Planner data keyed by plan ID.
type fakePlannerClient struct {
	plans       []domain.Plan
	plansErr    error
	categories  map[string]map[string]string
	categoryErr map[string]error
	tasks       map[string][]domain.Task
	taskErr     map[string]error
	// delay holds ListTasks until it elapses or the context ends.
	delay map[string]time.Duration
	// plansBlock holds ListPlans until the context ends.
	plansBlock bool

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (c *fakePlannerClient) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	if c.plansBlock {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if c.plansErr != nil {
		return nil, c.plansErr
	}
	return c.plans, nil
}

func (c *fakePlannerClient) GetCategoryDescriptions(ctx context.Context, planID string) (map[string]string, error) {
	if err := c.categoryErr[planID]; err != nil {
		return nil, err
	}
	return c.categories[planID], nil
}

func (c *fakePlannerClient) ListTasks(ctx context.Context, planID string) ([]domain.Task, error) {
	n := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	for {
		peak := c.maxInFlight.Load()
		if n <= peak || c.maxInFlight.CompareAndSwap(peak, n) {
			break
		}
	}

	if d := c.delay[planID]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := c.taskErr[planID]; err != nil {
		return nil, err
	}
	return copyTasks(c.tasks[planID]), nil
}

type fallbackCall struct {
	token  string
	planID string
	ctxErr error
}

type fakeFallback struct {
	mu    sync.Mutex
	tasks map[string][]domain.Task
	err   error
	calls []fallbackCall
}

func (f *fakeFallback) ListPlanTasks(ctx context.Context, token, planID string) ([]domain.Task, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fallbackCall{token: token, planID: planID, ctxErr: ctx.Err()})
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return copyTasks(f.tasks[planID]), nil
}

func copyTasks(tasks []domain.Task) []domain.Task {
	if tasks == nil {
		return nil
	}
	out := make([]domain.Task, len(tasks))
	copy(out, tasks)
	return out
}

type fakeIdentityProvider struct {
	result    *domain.TokenResult
	err       error
	exchanged []string
}

func (p *fakeIdentityProvider) AuthCodeURL(state string) string {
	return "https://login.example.com/authorize?state=" + state
}

func (p *fakeIdentityProvider) ExchangeCode(ctx context.Context, code string) (*domain.TokenResult, error) {
	p.exchanged = append(p.exchanged, code)
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

type failingStates struct{}

func (failingStates) Generate() (string, error) { return "", errors.New("entropy exhausted") }
func (failingStates) Validate(string) error     { return errors.New("never valid") }
