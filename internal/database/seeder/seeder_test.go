package seeder

import (
	"context"
	"testing"

	"jobboard/internal/config"
	"jobboard/internal/domain/user"
	"jobboard/internal/repository/memory"
	ucauth "jobboard/internal/usecase/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReference_EmbeddedDefaults(t *testing.T) {
	data, err := ParseReference(referenceYAML)
	require.NoError(t, err)

	var statuses, stages []string
	for _, e := range data.Statuses {
		statuses = append(statuses, e.Slug)
	}
	for _, e := range data.Stages {
		stages = append(stages, e.Slug)
	}
	assert.Equal(t, []string{"pending", "reviewing", "shortlisted", "hired", "rejected", "withdrawn"}, statuses)
	assert.Equal(t, []string{"applied", "screening", "interview", "offer", "hired"}, stages)
}

func TestParseReference_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "malformed", raw: "statuses: ["},
		{name: "missing slug", raw: "statuses:\n  - {name: Pending}\nstages:\n  - {name: Applied, slug: applied}\n"},
		{name: "duplicate slug", raw: "statuses:\n  - {name: Pending, slug: pending}\n  - {name: Again, slug: pending}\nstages:\n  - {name: Applied, slug: applied}\n"},
		{name: "no pending status", raw: "statuses:\n  - {name: Open, slug: open}\nstages:\n  - {name: Applied, slug: applied}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReference([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestReferenceSeeder_ApplyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	refs := store.Reference()

	require.NoError(t, ReferenceSeeder{}.Apply(ctx, refs))
	require.NoError(t, ReferenceSeeder{}.Apply(ctx, refs))

	statuses, err := refs.ListStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 6)
	assert.Equal(t, "pending", statuses[0].Slug)
	assert.Equal(t, 1, statuses[0].SortOrder)

	stages, err := refs.ListStages(ctx)
	require.NoError(t, err)
	require.Len(t, stages, 5)
	assert.Equal(t, "hired", stages[4].Slug)
}

func TestAdminSeeder_Apply(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	users := store.Users()

	s := AdminSeeder{Email: " Admin@Example.com ", Password: "supersecret", FullName: "Root"}
	require.NoError(t, s.Apply(ctx, users))
	require.NoError(t, s.Apply(ctx, users))

	u, err := users.GetUserByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, u.Role)
	assert.True(t, u.IsActive)
	assert.NoError(t, ucauth.CheckPassword(u.PasswordHash, "supersecret"))

	all, err := users.ListUsers(ctx, user.ListFilter{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAdminSeeder_SkipsWithoutEmail(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, AdminSeeder{}.Apply(context.Background(), store.Users()))
}

func TestAdminSeeder_ShortPassword(t *testing.T) {
	store := memory.NewStore()
	err := AdminSeeder{Email: "a@example.com", Password: "short"}.Apply(context.Background(), store.Users())
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	seeders := Defaults(config.SeedConfig{AdminEmail: "a@example.com"})
	names := make([]string, 0, len(seeders))
	for _, s := range seeders {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"reference", "admin"}, names)
}
