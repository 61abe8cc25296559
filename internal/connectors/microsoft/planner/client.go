package planner

import (
	"context"
	"fmt"
	"net/http"

	abstractions "github.com/microsoft/kiota-abstractions-go"
	azureauth "github.com/microsoft/kiota-authentication-azure-go"
	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
	"github.com/microsoftgraph/msgraph-sdk-go/models"

	"github.com/custodia-labs/planner-api/internal/connectors/microsoft"
	"github.com/custodia-labs/planner-api/internal/core/domain"
	"github.com/custodia-labs/planner-api/internal/core/ports/driven"
	"github.com/custodia-labs/planner-api/internal/logger"
)

// Ensure the SDK client types implement the interfaces.
var (
	_ driven.PlannerClientFactory = (*ClientFactory)(nil)
	_ driven.PlannerClient        = (*Client)(nil)
)

// graphHosts are the only hosts the SDK attaches the caller token to.
var graphHosts = []string{
	"graph.microsoft.com",
	"graph.microsoft.us",
	"dod-graph.microsoft.us",
	"microsoftgraph.chinacloudapi.cn",
}

// ClientFactory builds a Graph SDK client per caller token.
type ClientFactory struct {
	httpClient  *http.Client
	rateLimiter *microsoft.RateLimiter
}

// NewClientFactory creates a factory whose clients share one outbound limiter
// and HTTP client. A nil httpClient uses microsoft.NewHTTPClient.
func NewClientFactory(httpClient *http.Client, rateLimiter *microsoft.RateLimiter) *ClientFactory {
	if httpClient == nil {
		httpClient = microsoft.NewHTTPClient()
	}
	return &ClientFactory{httpClient: httpClient, rateLimiter: rateLimiter}
}

// ForToken returns a client that authenticates every call with token.
func (f *ClientFactory) ForToken(token string) (driven.PlannerClient, error) {
	authProvider, err := azureauth.NewAzureIdentityAuthenticationProviderWithScopesAndValidHosts(
		NewStaticCredential(token), []string{microsoft.GraphDefaultScope}, graphHosts)
	if err != nil {
		return nil, fmt.Errorf("create graph auth provider: %w", err)
	}

	adapter, err := msgraphsdk.NewGraphRequestAdapterWithParseNodeFactoryAndSerializationWriterFactoryAndHttpClient(
		authProvider, nil, nil, f.httpClient)
	if err != nil {
		return nil, fmt.Errorf("create graph request adapter: %w", err)
	}

	return NewClient(adapter, f.rateLimiter), nil
}

// Client reads Planner data through the Microsoft Graph SDK.
type Client struct {
	graph       *msgraphsdk.GraphServiceClient
	rateLimiter *microsoft.RateLimiter
}

// NewClient creates a client on top of a Graph request adapter.
func NewClient(adapter abstractions.RequestAdapter, rateLimiter *microsoft.RateLimiter) *Client {
	return &Client{
		graph:       msgraphsdk.NewGraphServiceClient(adapter),
		rateLimiter: rateLimiter,
	}
}

// ListPlans returns the plans of the signed-in user, following pagination.
func (c *Client) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.graph.Me().Planner().Plans().Get(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("list plans: %w: empty response", microsoft.ErrMalformedResponse)
	}

	var plans []domain.Plan
	for {
		for _, p := range resp.GetValue() {
			plans = append(plans, fromSDKPlan(p))
		}

		next := deref(resp.GetOdataNextLink())
		if next == "" {
			break
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}
		resp, err = c.graph.Me().Planner().Plans().WithUrl(next).Get(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("list plans: %w", err)
		}
		if resp == nil {
			return nil, fmt.Errorf("list plans: %w: empty response", microsoft.ErrMalformedResponse)
		}
	}

	logger.Debug("planner: found %d plans", len(plans))
	return plans, nil
}

// GetCategoryDescriptions returns the category labels of a plan.
func (c *Client) GetCategoryDescriptions(ctx context.Context, planID string) (map[string]string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	details, err := c.graph.Planner().Plans().ByPlannerPlanId(planID).Details().Get(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("get details of plan %s: %w", planID, err)
	}
	if details == nil {
		return nil, fmt.Errorf("get details of plan %s: %w: empty response", planID, microsoft.ErrMalformedResponse)
	}

	return fromSDKCategories(details.GetCategoryDescriptions()), nil
}

// ListTasks returns the tasks of a plan in upstream order.
func (c *Client) ListTasks(ctx context.Context, planID string) ([]domain.Task, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	builder := c.graph.Planner().Plans().ByPlannerPlanId(planID).Tasks()
	resp, err := builder.Get(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list tasks of plan %s: %w", planID, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("list tasks of plan %s: %w: empty response", planID, microsoft.ErrMalformedResponse)
	}

	var tasks []domain.Task
	for {
		tasks = appendSDKTasks(tasks, resp)

		next := deref(resp.GetOdataNextLink())
		if next == "" {
			break
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}
		resp, err = builder.WithUrl(next).Get(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("list tasks of plan %s: %w", planID, err)
		}
		if resp == nil {
			return nil, fmt.Errorf("list tasks of plan %s: %w: empty response", planID, microsoft.ErrMalformedResponse)
		}
	}

	return tasks, nil
}

func appendSDKTasks(tasks []domain.Task, page models.PlannerTaskCollectionResponseable) []domain.Task {
	for _, t := range page.GetValue() {
		tasks = append(tasks, fromSDKTask(t))
	}
	return tasks
}
