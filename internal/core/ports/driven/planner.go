package driven

import (
	"context"

	"github.com/custodia-labs/planner-api/internal/core/domain"
)

// IdentityProvider builds authorization URLs and redeems authorization codes.
type IdentityProvider interface {
	// AuthCodeURL returns the provider's authorize URL carrying state.
	AuthCodeURL(state string) string

	// ExchangeCode redeems an authorization code for an access token.
	// A code the provider refuses is reported as a domain.Error of kind
	// KindProviderRejected with the provider's description in Detail.
	ExchangeCode(ctx context.Context, code string) (*domain.TokenResult, error)
}

// TaskLister lists the tasks of one plan.
type TaskLister interface {
	ListTasks(ctx context.Context, planID string) ([]domain.Task, error)
}

// PlannerClient reads Planner data on behalf of one caller.
type PlannerClient interface {
	TaskLister

	// ListPlans returns the plans visible to the caller. Categories is not
	// populated.
	ListPlans(ctx context.Context) ([]domain.Plan, error)

	// GetCategoryDescriptions returns the plan's category key to label mapping.
	GetCategoryDescriptions(ctx context.Context, planID string) (map[string]string, error)
}

// PlannerClientFactory creates a PlannerClient bound to a bearer token.
type PlannerClientFactory interface {
	ForToken(token string) (PlannerClient, error)
}

// FallbackTaskLister fetches a plan's tasks with a direct REST request.
type FallbackTaskLister interface {
	ListPlanTasks(ctx context.Context, token, planID string) ([]domain.Task, error)
}
