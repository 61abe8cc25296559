package planner

import (
	"fmt"
	"time"

	"github.com/microsoftgraph/msgraph-sdk-go/models"
	"github.com/tidwall/gjson"

	"github.com/custodia-labs/planner-api/internal/core/domain"
	"github.com/custodia-labs/planner-api/internal/logger"
)

// fromSDKPlan converts an SDK plan. Categories is filled in later.
func fromSDKPlan(p models.PlannerPlanable) domain.Plan {
	return domain.Plan{
		ID:    deref(p.GetId()),
		Title: deref(p.GetTitle()),
	}
}

// fromSDKCategories flattens the 25 fixed category slots into a map.
// Slots without a label are left out.
func fromSDKCategories(d models.PlannerCategoryDescriptionsable) map[string]string {
	out := make(map[string]string)
	if d == nil {
		return out
	}

	labels := []*string{
		d.GetCategory1(), d.GetCategory2(), d.GetCategory3(), d.GetCategory4(), d.GetCategory5(),
		d.GetCategory6(), d.GetCategory7(), d.GetCategory8(), d.GetCategory9(), d.GetCategory10(),
		d.GetCategory11(), d.GetCategory12(), d.GetCategory13(), d.GetCategory14(), d.GetCategory15(),
		d.GetCategory16(), d.GetCategory17(), d.GetCategory18(), d.GetCategory19(), d.GetCategory20(),
		d.GetCategory21(), d.GetCategory22(), d.GetCategory23(), d.GetCategory24(), d.GetCategory25(),
	}
	for i, label := range labels {
		if label == nil || *label == "" {
			continue
		}
		out[fmt.Sprintf("category%d", i+1)] = *label
	}
	return out
}

// fromSDKTask converts a task returned by the Graph SDK.
func fromSDKTask(t models.PlannerTaskable) domain.Task {
	task := domain.Task{
		ID:    deref(t.GetId()),
		Title: deref(t.GetTitle()),
	}

	if due := t.GetDueDateTime(); due != nil {
		d := due.UTC()
		task.DueDate = &d
	}
	if pc := t.GetPercentComplete(); pc != nil {
		task.Completed = int(*pc)
	}
	if applied := t.GetAppliedCategories(); applied != nil {
		task.AppliedCategories = appliedKeys(applied.GetAdditionalData())
	}

	return task
}

// boolValue is satisfied by untyped JSON booleans from the serialiser.
type boolValue interface {
	GetValue() *bool
}

// appliedKeys returns the category keys whose flag is true, sorted.
func appliedKeys(data map[string]any) []string {
	keys := make([]string, 0, len(data))
	for key, v := range data {
		if isTrue(v) {
			keys = append(keys, key)
		}
	}
	domain.SortCategoryKeys(keys)
	return keys
}

func isTrue(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case *bool:
		return b != nil && *b
	case boolValue:
		p := b.GetValue()
		return p != nil && *p
	default:
		return false
	}
}

// fromRawTask converts one element of a raw REST task listing. Field names
// are accepted in camelCase or snake_case.
func fromRawTask(r gjson.Result) domain.Task {
	task := domain.Task{
		ID:        firstOf(r, "id").String(),
		Title:     firstOf(r, "title").String(),
		Completed: int(firstOf(r, "percentComplete", "percent_complete").Int()),
	}

	if due := firstOf(r, "dueDateTime", "due_date_time"); due.Exists() && due.String() != "" {
		parsed, err := time.Parse(time.RFC3339Nano, due.String())
		if err != nil {
			logger.Debug("planner: task %s has unparseable due date %q", task.ID, due.String())
		} else {
			d := parsed.UTC()
			task.DueDate = &d
		}
	}

	keys := []string{}
	firstOf(r, "appliedCategories", "applied_categories").ForEach(func(key, value gjson.Result) bool {
		if value.Type == gjson.True {
			keys = append(keys, key.String())
		}
		return true
	})
	domain.SortCategoryKeys(keys)
	task.AppliedCategories = keys

	return task
}

// firstOf returns the first path present in r.
func firstOf(r gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
