package cache

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenJobsKeyNormalizes(t *testing.T) {
	a := OpenJobsKey("  Go   Developer ", "Berlin", 20, 0)
	b := OpenJobsKey("go developer", " berlin", 20, 0)
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "jobs:open:"))
	assert.NotEqual(t, a, OpenJobsKey("go developer", "berlin", 20, 20))
}

func TestUnavailableRedisIsAMiss(t *testing.T) {
	r := NewRedisWithClient(nil, 0, zerolog.Nop())
	ctx := context.Background()

	var out map[string]any
	hit, err := r.GetJSON(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, r.SetJSON(ctx, "k", map[string]any{"a": 1}, 0))
	assert.NoError(t, r.DeleteByPattern(ctx, OpenJobsPattern))
	assert.Error(t, r.Ping(ctx))
}
