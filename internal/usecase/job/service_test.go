package job

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"jobboard/internal/domain/application"
	"jobboard/internal/domain/job"
	"jobboard/internal/domain/user"
	"jobboard/internal/repository/memory"
	"jobboard/internal/usecase"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type prefixCache struct {
	items         map[string][]byte
	ttls          map[string]time.Duration
	invalidations int
}

func (c *prefixCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	b, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *prefixCache) SetJSON(_ context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = b
	c.ttls[key] = ttl
	return nil
}

func (c *prefixCache) Delete(_ context.Context, key string) error {
	delete(c.items, key)
	return nil
}

func (c *prefixCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.invalidations++
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
		}
	}
	return nil
}

type fixture struct {
	svc       *Service
	store     *memory.Store
	cache     *prefixCache
	manager   user.User
	companyID uuid.UUID
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	mgr := store.AddUser(user.RoleManager, "Mia")
	c := store.AddCompany(mgr.ID, "Acme")
	pc := &prefixCache{items: map[string][]byte{}, ttls: map[string]time.Duration{}}
	return fixture{
		svc:       NewService(store.Jobs(), store.Companies(), pc, time.Minute, zerolog.Nop()),
		store:     store,
		cache:     pc,
		manager:   mgr,
		companyID: c.ID,
	}
}

func assertKind(t *testing.T, err error, kind error) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, kind)
}

func TestCreate_DefaultsToDraft(t *testing.T) {
	f := newFixture(t)

	l, err := f.svc.Create(context.Background(), f.manager.ID, Input{Title: " Go Dev ", Description: "Build things"})
	require.NoError(t, err)
	assert.Equal(t, job.StatusDraft, l.Status)
	assert.Equal(t, "Go Dev", l.Title)
	assert.Equal(t, "Acme", l.CompanyName)
	assert.Equal(t, 1, f.cache.invalidations)
}

func TestCreate_RequiresCompany(t *testing.T) {
	f := newFixture(t)
	other := f.store.AddUser(user.RoleManager, "Noah")

	_, err := f.svc.Create(context.Background(), other.ID, Input{Title: "X", Description: "Y"})
	assertKind(t, err, usecase.ErrRule)
}

func TestCreate_SalaryRange(t *testing.T) {
	f := newFixture(t)
	lo, hi := 5000, 1000

	_, err := f.svc.Create(context.Background(), f.manager.ID, Input{Title: "X", Description: "Y", SalaryMin: &lo, SalaryMax: &hi})
	assertKind(t, err, usecase.ErrRule)
}

func TestUpdate_OnlyOwner(t *testing.T) {
	f := newFixture(t)
	j := f.store.AddJob(f.companyID, "Backend", nil)
	other := f.store.AddUser(user.RoleManager, "Noah")
	f.store.AddCompany(other.ID, "Globex")

	_, err := f.svc.Update(context.Background(), other.ID, j.ID, Input{Title: "Hijack", Description: "nope"})
	assertKind(t, err, usecase.ErrForbidden)

	_, err = f.svc.SetStatus(context.Background(), f.manager.ID, j.ID, "archived")
	assertKind(t, err, usecase.ErrRule)

	l, err := f.svc.SetStatus(context.Background(), f.manager.ID, j.ID, "closed")
	require.NoError(t, err)
	assert.Equal(t, job.StatusClosed, l.Status)
}

func TestListOpen_FiltersAndCaches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	past := time.Now().Add(-time.Hour)

	f.store.AddJob(f.companyID, "Go Engineer", nil)
	f.store.AddJob(f.companyID, "Draft role", func(j *job.Job) { j.Status = job.StatusDraft })
	f.store.AddJob(f.companyID, "Expired role", func(j *job.Job) { j.Deadline = &past })

	out, err := f.svc.ListOpen(ctx, ListParams{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Go Engineer", out[0].Title)
	assert.Len(t, f.cache.items, 1)

	// A new job is invisible until something invalidates the cache.
	f.store.AddJob(f.companyID, "Rust Engineer", nil)
	out, err = f.svc.ListOpen(ctx, ListParams{})
	require.NoError(t, err)
	assert.Len(t, out, 1)

	_, err = f.svc.Create(ctx, f.manager.ID, Input{Title: "Another", Description: "d", Status: "active"})
	require.NoError(t, err)
	out, err = f.svc.ListOpen(ctx, ListParams{})
	require.NoError(t, err)
	assert.Len(t, out, 3)
}

func TestListOpen_CachedPageHonoursDeadlines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return clock }

	soon := clock.Add(30 * time.Second)
	f.store.AddJob(f.companyID, "Closing soon", func(j *job.Job) { j.Deadline = &soon })
	f.store.AddJob(f.companyID, "Go Engineer", nil)

	out, err := f.svc.ListOpen(ctx, ListParams{})
	require.NoError(t, err)
	assert.Len(t, out, 2)
	require.Len(t, f.cache.ttls, 1)
	for _, ttl := range f.cache.ttls {
		assert.Equal(t, 30*time.Second, ttl, "entry expires with the first deadline")
	}

	clock = clock.Add(time.Minute)
	out, err = f.svc.ListOpen(ctx, ListParams{})
	require.NoError(t, err)
	require.Len(t, out, 1, "a cached page never shows a passed deadline")
	assert.Equal(t, "Go Engineer", out[0].Title)
}

func TestGet_Visibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	draft := f.store.AddJob(f.companyID, "Draft", func(j *job.Job) { j.Status = job.StatusDraft })

	_, err := f.svc.Get(ctx, draft.ID, uuid.Nil, false)
	assertKind(t, err, usecase.ErrNotFound)

	_, err = f.svc.Get(ctx, draft.ID, f.manager.ID, false)
	assert.NoError(t, err)

	_, err = f.svc.Get(ctx, draft.ID, uuid.Nil, true)
	assert.NoError(t, err)
}

func TestDelete_RefusesWithApplications(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.SeedReference()
	j := f.store.AddJob(f.companyID, "Backend", nil)
	cand := f.store.AddUser(user.RoleCandidate, "Cal")

	pending, err := f.store.Reference().StatusBySlug(ctx, application.StatusPending)
	require.NoError(t, err)
	applied, err := f.store.Reference().StageBySlug(ctx, application.StageApplied)
	require.NoError(t, err)
	a := application.Application{ID: uuid.New(), UserID: cand.ID, JobID: j.ID, StatusID: pending.ID, StageID: applied.ID, AppliedAt: time.Now()}
	require.NoError(t, f.store.Applications().CreateWithHistory(ctx, a, application.HistoryEntry{ID: uuid.New(), ApplicationID: a.ID, ToStatusID: pending.ID, ToStageID: applied.ID}))

	err = f.svc.Delete(ctx, f.manager.ID, j.ID)
	assertKind(t, err, usecase.ErrConflict)

	empty := f.store.AddJob(f.companyID, "Empty", nil)
	require.NoError(t, f.svc.Delete(ctx, f.manager.ID, empty.ID))
	_, err = f.svc.Get(ctx, empty.ID, f.manager.ID, false)
	assertKind(t, err, usecase.ErrNotFound)
}

func TestListOpen_ExpandsSynonyms(t *testing.T) {
	f := newFixture(t)
	f.store.AddJob(f.companyID, "Server Developer", nil)
	f.store.AddJob(f.companyID, "Graphic Designer", nil)

	out, err := f.svc.ListOpen(context.Background(), ListParams{Query: "  BACKEND "})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Server Developer", out[0].Title)
}
