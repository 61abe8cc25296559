package driving

import (
	"context"

	"github.com/custodia-labs/planner-api/internal/core/domain"
)

// AuthService drives the browser sign-in flow.
type AuthService interface {
	// BeginLogin returns the redirect that starts sign-in.
	BeginLogin() domain.LoginRedirect

	// CompleteLogin handles the provider callback and returns the front-end
	// URL to redirect to. It never fails; errors are encoded in the URL.
	CompleteLogin(ctx context.Context, params domain.CallbackParams) string
}

// TaskService aggregates Planner tasks for a caller.
type TaskService interface {
	// ListTasks returns every task across the caller's plans, flattened in
	// plan order.
	ListTasks(ctx context.Context, token string) ([]domain.Task, error)
}
