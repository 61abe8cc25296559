package api

import (
	"context"
	"time"

	"github.com/custodia-labs/planner-api/internal/core/domain"
)

type fakeAuth struct {
	redirect   domain.LoginRedirect
	target     string
	lastParams domain.CallbackParams
}

func (f *fakeAuth) BeginLogin() domain.LoginRedirect { return f.redirect }

func (f *fakeAuth) CompleteLogin(_ context.Context, params domain.CallbackParams) string {
	f.lastParams = params
	return f.target
}

type fakeTasks struct {
	tasks     []domain.Task
	err       error
	lastToken string
	called    bool
}

func (f *fakeTasks) ListTasks(_ context.Context, token string) ([]domain.Task, error) {
	f.called = true
	f.lastToken = token
	return f.tasks, f.err
}

func newTestServer(auth *fakeAuth, tasks *fakeTasks, cfg Config) *Server {
	if cfg.StateTTL == 0 {
		cfg.StateTTL = 10 * time.Minute
	}
	return New(cfg, Deps{Auth: auth, Tasks: tasks})
}
