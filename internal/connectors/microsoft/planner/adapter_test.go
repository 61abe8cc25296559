package planner

import (
	"testing"
	"time"

	"github.com/microsoftgraph/msgraph-sdk-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func strPtr(s string) *string { return &s }

func TestFromSDKPlan(t *testing.T) {
	p := models.NewPlannerPlan()
	p.SetId(strPtr("plan-1"))
	p.SetTitle(strPtr("Roadmap"))

	plan := fromSDKPlan(p)

	assert.Equal(t, "plan-1", plan.ID)
	assert.Equal(t, "Roadmap", plan.Title)
	assert.Nil(t, plan.Categories)
}

func TestFromSDKCategories(t *testing.T) {
	d := models.NewPlannerCategoryDescriptions()
	d.SetCategory1(strPtr("Urgent"))
	d.SetCategory3(strPtr("Blocked"))
	d.SetCategory4(strPtr(""))
	d.SetCategory25(strPtr("Last"))

	got := fromSDKCategories(d)

	assert.Equal(t, map[string]string{
		"category1":  "Urgent",
		"category3":  "Blocked",
		"category25": "Last",
	}, got)
}

func TestFromSDKCategories_Nil(t *testing.T) {
	got := fromSDKCategories(nil)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFromSDKTask(t *testing.T) {
	due := time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	pc := int32(50)
	yes, no := true, false

	applied := models.NewPlannerAppliedCategories()
	applied.SetAdditionalData(map[string]any{
		"category10": &yes,
		"category2":  true,
		"category3":  &no,
	})

	task := models.NewPlannerTask()
	task.SetId(strPtr("t1"))
	task.SetTitle(strPtr("Ship it"))
	task.SetDueDateTime(&due)
	task.SetPercentComplete(&pc)
	task.SetAppliedCategories(applied)

	got := fromSDKTask(task)

	assert.Equal(t, "t1", got.ID)
	assert.Equal(t, "Ship it", got.Title)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), *got.DueDate)
	assert.Equal(t, 50, got.Completed)
	assert.Equal(t, []string{"category2", "category10"}, got.AppliedCategories)
}

func TestFromSDKTask_Empty(t *testing.T) {
	got := fromSDKTask(models.NewPlannerTask())

	assert.Empty(t, got.ID)
	assert.Nil(t, got.DueDate)
	assert.Zero(t, got.Completed)
	assert.Empty(t, got.AppliedCategories)
}

func TestFromRawTask(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantDue *time.Time
		wantPct int
		wantCat []string
	}{
		{
			name:    "camel case",
			json:    `{"id":"t1","title":"A","dueDateTime":"2024-05-01T10:00:00Z","percentComplete":100,"appliedCategories":{"category1":true,"category2":false}}`,
			wantDue: timePtr(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)),
			wantPct: 100,
			wantCat: []string{"category1"},
		},
		{
			name:    "snake case",
			json:    `{"id":"t1","title":"A","due_date_time":"2024-05-01T10:00:00.5Z","percent_complete":25,"applied_categories":{"category11":true,"category3":true}}`,
			wantDue: timePtr(time.Date(2024, 5, 1, 10, 0, 0, 500000000, time.UTC)),
			wantPct: 25,
			wantCat: []string{"category3", "category11"},
		},
		{
			name:    "null due date and no categories",
			json:    `{"id":"t1","title":"A","dueDateTime":null,"percentComplete":0}`,
			wantCat: []string{},
		},
		{
			name:    "unparseable due date",
			json:    `{"id":"t1","title":"A","dueDateTime":"tomorrow"}`,
			wantCat: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fromRawTask(gjson.Parse(tt.json))

			assert.Equal(t, "t1", got.ID)
			assert.Equal(t, "A", got.Title)
			assert.Equal(t, tt.wantDue, got.DueDate)
			assert.Equal(t, tt.wantPct, got.Completed)
			assert.Equal(t, tt.wantCat, got.AppliedCategories)
		})
	}
}

func TestIsTrue(t *testing.T) {
	yes := true
	var nilBool *bool

	assert.True(t, isTrue(true))
	assert.True(t, isTrue(&yes))
	assert.False(t, isTrue(false))
	assert.False(t, isTrue(nilBool))
	assert.False(t, isTrue("true"))
	assert.False(t, isTrue(nil))
}

func timePtr(t time.Time) *time.Time { return &t }
