package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlan_ResolveTags(t *testing.T) {
	plan := Plan{
		ID:    "plan-1",
		Title: "P1",
		Categories: map[string]string{
			"category1": "Urgent",
			"category3": "Blocked",
		},
	}

	tests := []struct {
		name        string
		keys        []string
		wantTags    []string
		wantMissing []string
	}{
		{
			name:     "all keys resolve",
			keys:     []string{"category1", "category3"},
			wantTags: []string{"Urgent", "Blocked"},
		},
		{
			name:        "missing key is reported",
			keys:        []string{"category1", "category9"},
			wantTags:    []string{"Urgent"},
			wantMissing: []string{"category9"},
		},
		{
			name:     "no keys",
			keys:     nil,
			wantTags: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags, missing := plan.ResolveTags(tt.keys)
			assert.Equal(t, tt.wantTags, tags)
			assert.Equal(t, tt.wantMissing, missing)
		})
	}
}

func TestPlan_DisplayName(t *testing.T) {
	assert.Equal(t, "Roadmap", Plan{ID: "p1", Title: "Roadmap"}.DisplayName())
	assert.Equal(t, "p1", Plan{ID: "p1"}.DisplayName())
}

func TestSortCategoryKeys(t *testing.T) {
	keys := []string{"category10", "other", "category2", "category1"}

	SortCategoryKeys(keys)

	assert.Equal(t, []string{"category1", "category2", "category10", "other"}, keys)
}
