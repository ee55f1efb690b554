package review

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"jobboard/internal/domain/user"
	"jobboard/internal/pkg/validate"
	"jobboard/internal/repository/memory"
	"jobboard/internal/usecase"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCache struct {
	items map[string][]byte
	hits  int
}

func (c *mapCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	b, ok := c.items[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(b, out)
}

func (c *mapCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = b
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	delete(c.items, key)
	return nil
}

func (c *mapCache) DeleteByPattern(context.Context, string) error { return nil }

func newService(t *testing.T) (*Service, *memory.Store, *mapCache, uuid.UUID) {
	t.Helper()
	store := memory.NewStore()
	mgr := store.AddUser(user.RoleManager, "Mia")
	c := store.AddCompany(mgr.ID, "Acme")
	mc := &mapCache{items: map[string][]byte{}}
	return NewService(store.Reviews(), store.Companies(), mc, time.Minute, zerolog.Nop()), store, mc, c.ID
}

func validInput(rating int) Input {
	return Input{Rating: rating, Title: "Good place", Body: "Friendly team", IsAnonymous: false}
}

func TestCreateOncePerCompany(t *testing.T) {
	svc, store, _, companyID := newService(t)
	ctx := context.Background()
	cand := store.AddUser(user.RoleCandidate, "Cai")

	_, err := svc.Create(ctx, cand.ID, companyID, validInput(4))
	require.NoError(t, err)
	_, err = svc.Create(ctx, cand.ID, companyID, validInput(5))
	assert.ErrorIs(t, err, usecase.ErrConflict)

	_, err = svc.Create(ctx, cand.ID, uuid.New(), validInput(5))
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestCreateValidatesRating(t *testing.T) {
	svc, store, _, companyID := newService(t)
	cand := store.AddUser(user.RoleCandidate, "Cai")

	for _, rating := range []int{0, 6} {
		_, err := svc.Create(context.Background(), cand.ID, companyID, validInput(rating))
		var fe validate.FieldErrors
		require.ErrorAs(t, err, &fe)
		assert.Contains(t, fe, "rating")
	}
}

func TestOnlyOwnerChangesReview(t *testing.T) {
	svc, store, _, companyID := newService(t)
	ctx := context.Background()
	author := store.AddUser(user.RoleCandidate, "Cai")
	other := store.AddUser(user.RoleCandidate, "Dee")

	rv, err := svc.Create(ctx, author.ID, companyID, validInput(3))
	require.NoError(t, err)

	_, err = svc.Update(ctx, other.ID, rv.ID, validInput(1))
	assert.ErrorIs(t, err, usecase.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, other.ID, rv.ID), usecase.ErrForbidden)
	_, err = svc.Get(ctx, other.ID, rv.ID)
	assert.ErrorIs(t, err, usecase.ErrForbidden)

	updated, err := svc.Update(ctx, author.ID, rv.ID, validInput(5))
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)

	require.NoError(t, svc.Delete(ctx, author.ID, rv.ID))
	_, err = svc.Get(ctx, author.ID, rv.ID)
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestAnonymousReviewsHideAuthor(t *testing.T) {
	svc, store, _, companyID := newService(t)
	ctx := context.Background()
	named := store.AddUser(user.RoleCandidate, "Cai")
	hidden := store.AddUser(user.RoleCandidate, "Dee")

	_, err := svc.Create(ctx, named.ID, companyID, validInput(4))
	require.NoError(t, err)
	in := validInput(2)
	in.IsAnonymous = true
	_, err = svc.Create(ctx, hidden.ID, companyID, in)
	require.NoError(t, err)

	list, err := svc.ListForCompany(ctx, companyID, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	authors := map[string]uuid.UUID{}
	for _, rv := range list {
		authors[rv.AuthorName] = rv.UserID
	}
	assert.Equal(t, named.ID, authors["Cai"])
	assert.Equal(t, uuid.Nil, authors[anonymousAuthor])
	assert.NotContains(t, authors, "Dee")
}

func TestSummaryIsCachedAndInvalidated(t *testing.T) {
	svc, store, mc, companyID := newService(t)
	ctx := context.Background()
	a := store.AddUser(user.RoleCandidate, "A")
	b := store.AddUser(user.RoleCandidate, "B")

	_, err := svc.Create(ctx, a.ID, companyID, validInput(4))
	require.NoError(t, err)

	sum, err := svc.Summary(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Count)
	assert.InDelta(t, 4.0, sum.Average, 0.001)

	_, err = svc.Summary(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, 1, mc.hits)

	_, err = svc.Create(ctx, b.ID, companyID, validInput(2))
	require.NoError(t, err)
	sum, err = svc.Summary(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Count)
	assert.InDelta(t, 3.0, sum.Average, 0.001)
	assert.Equal(t, 1, mc.hits)
}
