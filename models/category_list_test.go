package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildCategoryIDsPrimaryFirst(t *testing.T) {
	ids := BuildCategoryIDs("c1", []string{"c2", "c3"}, []string{"c4"})
	assert.Equal(t, StringList{"c1", "c2", "c3", "c4"}, ids)
}

func TestBuildCategoryIDsDeduplicates(t *testing.T) {
	ids := BuildCategoryIDs("c1", []string{"c1", "c2", "c2"}, []string{"c2", "c1"})
	assert.Equal(t, StringList{"c1", "c2"}, ids)
}

func TestBuildCategoryIDsCapsAtFour(t *testing.T) {
	ids := BuildCategoryIDs("c1", []string{"c2", "c3", "c4", "c5"}, []string{"c6"})
	assert.Len(t, ids, MaxCategoriesPerPost)
	assert.Equal(t, "c1", ids[0])
}

func TestBuildCategoryIDsSkipsEmpty(t *testing.T) {
	ids := BuildCategoryIDs("c1", []string{"", "c2"}, nil)
	assert.Equal(t, StringList{"c1", "c2"}, ids)
}

func TestMergeCategoryIDsAppendsUnseen(t *testing.T) {
	merged, added := MergeCategoryIDs(StringList{"c1", "c2"}, []string{"c2", "c3"})
	assert.Equal(t, StringList{"c1", "c2", "c3"}, merged)
	assert.Equal(t, []string{"c3"}, added)
}

func TestMergeCategoryIDsRespectsCap(t *testing.T) {
	merged, added := MergeCategoryIDs(StringList{"c1", "c2", "c3", "c4"}, []string{"c5"})
	assert.Equal(t, StringList{"c1", "c2", "c3", "c4"}, merged)
	assert.Empty(t, added)
}

func TestMergeCategoryIDsNoDiscoveries(t *testing.T) {
	merged, added := MergeCategoryIDs(StringList{"c1"}, nil)
	assert.Equal(t, StringList{"c1"}, merged)
	assert.Empty(t, added)
}
