package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/planner-api/internal/core/domain"
	"github.com/custodia-labs/planner-api/internal/core/ports/driven"
	"github.com/custodia-labs/planner-api/internal/core/ports/driving"
	"github.com/custodia-labs/planner-api/internal/logger"
)

// Ensure TaskAggregator implements the interface.
var _ driving.TaskService = (*TaskAggregator)(nil)

// Defaults applied when TaskAggregatorConfig leaves a field zero.
const (
	DefaultPlanTimeout     = 15 * time.Second
	DefaultPlanConcurrency = 4
)

// TaskAggregatorConfig tunes the per-plan fan-out.
type TaskAggregatorConfig struct {
	// PlanTimeout bounds the plan listing and each per-plan stage.
	PlanTimeout time.Duration
	// Concurrency is the number of plans fetched at once.
	Concurrency int
}

// TaskAggregator flattens the tasks of every plan visible to the caller.
// It keeps no state between requests.
type TaskAggregator struct {
	clients     driven.PlannerClientFactory
	fallback    driven.FallbackTaskLister
	planTimeout time.Duration
	concurrency int
}

// NewTaskAggregator creates a TaskAggregator.
func NewTaskAggregator(
	clients driven.PlannerClientFactory,
	fallback driven.FallbackTaskLister,
	cfg TaskAggregatorConfig,
) *TaskAggregator {
	if cfg.PlanTimeout <= 0 {
		cfg.PlanTimeout = DefaultPlanTimeout
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultPlanConcurrency
	}
	return &TaskAggregator{
		clients:     clients,
		fallback:    fallback,
		planTimeout: cfg.PlanTimeout,
		concurrency: cfg.Concurrency,
	}
}

// ListTasks returns the caller's tasks in plan order, then upstream order.
// Only a failure to list plans, or a canceled request, is an error; any
// other per-plan failure skips that plan.
func (a *TaskAggregator) ListTasks(ctx context.Context, token string) ([]domain.Task, error) {
	client, err := a.clients.ForToken(token)
	if err != nil {
		return nil, domain.NewError(domain.KindInternal, "create planner client", err)
	}

	plansCtx, cancel := context.WithTimeout(ctx, a.planTimeout)
	plans, err := client.ListPlans(plansCtx)
	cancel()
	if err != nil {
		return nil, domain.NewError(domain.KindUpstream, "list plans", err)
	}

	// One slot per plan keeps output order independent of completion order.
	results := make([][]domain.Task, len(plans))

	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, plan := range plans {
		g.Go(func() error {
			results[i] = a.planTasks(ctx, client, token, plan)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, domain.NewError(domain.KindUpstream, "list tasks", err)
	}

	tasks := []domain.Task{}
	for _, planTasks := range results {
		tasks = append(tasks, planTasks...)
	}

	logger.Debug("tasks: aggregated %d tasks from %d plans", len(tasks), len(plans))
	return tasks, nil
}

// planTasks fetches one plan's labels and tasks and resolves tags.
// Returns nil when the plan has to be skipped.
func (a *TaskAggregator) planTasks(
	ctx context.Context, client driven.PlannerClient, token string, plan domain.Plan,
) []domain.Task {
	detailsCtx, cancel := context.WithTimeout(ctx, a.planTimeout)
	categories, err := client.GetCategoryDescriptions(detailsCtx, plan.ID)
	cancel()
	if err != nil {
		logger.Warn("tasks: skipping plan %s: category descriptions: %v", plan.ID, err)
		return nil
	}
	plan.Categories = categories

	tasks, err := a.fetchTasks(ctx, client, token, plan.ID)
	if err != nil {
		logger.Warn("tasks: skipping plan %s: %v", plan.ID, err)
		return nil
	}

	name := plan.DisplayName()
	for i := range tasks {
		tags, missing := plan.ResolveTags(tasks[i].AppliedCategories)
		for _, key := range missing {
			logger.Warn("tasks: plan %s task %s: no label for %s", plan.ID, tasks[i].ID, key)
		}
		tasks[i].Tags = tags
		tasks[i].Plan = name
	}

	return tasks
}

// fetchTasks lists tasks through the SDK and falls back to one REST request.
func (a *TaskAggregator) fetchTasks(
	ctx context.Context, client driven.TaskLister, token, planID string,
) ([]domain.Task, error) {
	primaryCtx, cancel := context.WithTimeout(ctx, a.planTimeout)
	tasks, err := client.ListTasks(primaryCtx, planID)
	cancel()
	if err == nil {
		return tasks, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	logger.Warn("tasks: SDK listing failed for plan %s, trying REST: %v", planID, err)

	fallbackCtx, cancel := context.WithTimeout(ctx, a.planTimeout)
	defer cancel()
	return a.fallback.ListPlanTasks(fallbackCtx, token, planID)
}
