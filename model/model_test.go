package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		category VideoCategory
		wantID   string
	}{
		{CategoryTech, "28"},
		{CategoryVlog, "22"},
		{CategoryShorts, "42"},
		{CategoryGaming, "20"},
		{CategoryTutorial, "27"},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			meta := Lookup(tt.category)
			assert.Equal(t, tt.wantID, meta.YouTubeCategoryID)
			assert.NotEmpty(t, meta.Keywords)
			assert.NotEmpty(t, meta.Audience)
			assert.NotEmpty(t, meta.StyleHint)
		})
	}
}

func TestParseCategory(t *testing.T) {
	got, err := ParseCategory(" Gaming ")
	require.NoError(t, err)
	assert.Equal(t, CategoryGaming, got)

	_, err = ParseCategory("music")
	assert.Error(t, err)

	_, err = ParseCategory("")
	assert.Error(t, err)
}

func TestParseMonetization(t *testing.T) {
	got, err := ParseMonetization("ENABLED")
	require.NoError(t, err)
	assert.Equal(t, MonetizationEnabled, got)

	got, err = ParseMonetization("disabled")
	require.NoError(t, err)
	assert.Equal(t, MonetizationDisabled, got)

	_, err = ParseMonetization("maybe")
	assert.Error(t, err)
}

func TestCategoriesStableOrder(t *testing.T) {
	first := Categories()
	second := Categories()
	require.Equal(t, first, second)
	assert.Len(t, first, 5)
}

func TestNewVideoSourcePayload(t *testing.T) {
	p := NewVideoSourcePayload("clip.mp4", []byte{1, 2, 3})
	assert.Equal(t, "clip.mp4", p.Name)
	assert.EqualValues(t, 3, p.Size)
}
