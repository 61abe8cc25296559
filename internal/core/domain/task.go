package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Plan is a Planner plan visible to the signed-in user.
type Plan struct {
	ID    string
	Title string
	// Categories maps a category key (category1..category25) to its label.
	Categories map[string]string
}

// DisplayName returns the title used to label the plan's tasks.
// Falls back to the plan ID when the plan has no title.
func (p Plan) DisplayName() string {
	if p.Title != "" {
		return p.Title
	}
	return p.ID
}

// ResolveTags maps category keys to their labels.
// Keys with no label in the plan are returned in missing, in input order.
func (p Plan) ResolveTags(keys []string) (tags, missing []string) {
	tags = make([]string, 0, len(keys))
	for _, key := range keys {
		label, ok := p.Categories[key]
		if !ok {
			missing = append(missing, key)
			continue
		}
		tags = append(tags, label)
	}
	return tags, missing
}

// Task is a Planner task normalised from either Graph response shape.
type Task struct {
	ID      string
	Title   string
	DueDate *time.Time
	// Completed is the percent complete, 0 to 100.
	Completed int
	// AppliedCategories holds the raw category keys set on the task.
	AppliedCategories []string
	// Tags holds the resolved category labels.
	Tags []string
	// Plan is the title of the plan the task belongs to.
	Plan string
}

// SortCategoryKeys orders category keys by their numeric suffix so that
// category2 sorts before category10. Keys without a numeric suffix sort
// lexically after numbered keys.
func SortCategoryKeys(keys []string) {
	sort.SliceStable(keys, func(i, j int) bool {
		ni, okI := categoryNumber(keys[i])
		nj, okJ := categoryNumber(keys[j])
		switch {
		case okI && okJ:
			return ni < nj
		case okI != okJ:
			return okI
		default:
			return keys[i] < keys[j]
		}
	})
}

func categoryNumber(key string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(key, "category"))
	if err != nil || !strings.HasPrefix(key, "category") {
		return 0, false
	}
	return n, true
}

// TokenResult is the outcome of an authorization code exchange.
type TokenResult struct {
	AccessToken string
	// ExpiresIn is the token lifetime in seconds reported by the provider.
	ExpiresIn int64
}

// LoginRedirect is where the browser is sent to start signing in.
type LoginRedirect struct {
	URL string
	// State is the anti-forgery token bound to this login attempt.
	// Empty when the redirect points back to the front-end with an error.
	State string
}

// CallbackParams carries the inputs of an auth callback request.
type CallbackParams struct {
	Code        string
	State       string
	CookieState string
	// ProviderError and ProviderErrorDescription are set by the identity
	// provider when the user cancels or consent fails.
	ProviderError            string
	ProviderErrorDescription string
}
