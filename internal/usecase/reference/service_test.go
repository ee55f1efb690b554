package reference

import (
	"context"
	"testing"

	"jobboard/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"On Hold":           "on_hold",
		"  Technical  Test": "technical_test",
		"Offer-Sent!":       "offer_sent",
		"":                  "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestSaveStatus_UpsertsBySlug(t *testing.T) {
	store := memory.NewStore()
	store.SeedReference()
	svc := NewService(store.Reference())
	ctx := context.Background()

	before, err := svc.Statuses(ctx)
	require.NoError(t, err)

	_, err = svc.SaveStatus(ctx, Input{Name: "On Hold", Slug: "On Hold", Color: "#aabbcc", SortOrder: 99})
	require.NoError(t, err)
	_, err = svc.SaveStatus(ctx, Input{Name: "Paused", Slug: "on_hold", SortOrder: 99})
	require.NoError(t, err)

	after, err := svc.Statuses(ctx)
	require.NoError(t, err)
	require.Len(t, after, len(before)+1)
	last := after[len(after)-1]
	assert.Equal(t, "on_hold", last.Slug)
	assert.Equal(t, "Paused", last.Name)
}

func TestSaveStage_Validation(t *testing.T) {
	svc := NewService(memory.NewStore().Reference())

	_, err := svc.SaveStage(context.Background(), Input{Name: "X", Slug: "x", Color: "blue"})
	assert.Error(t, err)
	_, err = svc.SaveStage(context.Background(), Input{Name: " ", Slug: "x"})
	assert.Error(t, err)
}
