package memory

import (
	"context"
	"sort"

	"jobboard/internal/domain/portfolio"

	"github.com/google/uuid"
)

type PortfolioRepository struct{ s *Store }

func (r *PortfolioRepository) Create(_ context.Context, it portfolio.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it.Technologies = cloneStrings(it.Technologies)
	r.s.portfolio[it.ID] = it
	return nil
}

func (r *PortfolioRepository) GetByID(_ context.Context, id uuid.UUID) (portfolio.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	it, ok := r.s.portfolio[id]
	if !ok {
		return portfolio.Item{}, portfolio.ErrNotFound
	}
	return it, nil
}

func (r *PortfolioRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]portfolio.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]portfolio.Item, 0)
	for _, it := range r.s.portfolio {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *PortfolioRepository) Update(_ context.Context, it portfolio.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.portfolio[it.ID]
	if !ok {
		return portfolio.ErrNotFound
	}
	it.UserID = existing.UserID
	it.CreatedAt = existing.CreatedAt
	it.Technologies = cloneStrings(it.Technologies)
	r.s.portfolio[it.ID] = it
	return nil
}

func (r *PortfolioRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.portfolio[id]; !ok {
		return portfolio.ErrNotFound
	}
	delete(r.s.portfolio, id)
	return nil
}

var _ portfolio.Repository = (*PortfolioRepository)(nil)
