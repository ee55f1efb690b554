package memory

import (
	"context"
	"sort"

	"jobboard/internal/domain/review"

	"github.com/google/uuid"
)

type ReviewRepository struct{ s *Store }

func (r *ReviewRepository) Create(_ context.Context, rv review.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.reviews {
		if existing.UserID == rv.UserID && existing.CompanyID == rv.CompanyID {
			return review.ErrDuplicate
		}
	}
	rv.AuthorName = ""
	r.s.reviews[rv.ID] = rv
	return nil
}

func (r *ReviewRepository) GetByID(_ context.Context, id uuid.UUID) (review.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rv, ok := r.s.reviews[id]
	if !ok {
		return review.Review{}, review.ErrNotFound
	}
	return r.s.withAuthor(rv), nil
}

func (r *ReviewRepository) ExistsForUser(_ context.Context, userID, companyID uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, rv := range r.s.reviews {
		if rv.UserID == userID && rv.CompanyID == companyID {
			return true, nil
		}
	}
	return false, nil
}

func (r *ReviewRepository) Update(_ context.Context, rv review.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.reviews[rv.ID]
	if !ok {
		return review.ErrNotFound
	}
	existing.Rating = rv.Rating
	existing.Title = rv.Title
	existing.Body = rv.Body
	existing.Pros = rv.Pros
	existing.Cons = rv.Cons
	existing.IsAnonymous = rv.IsAnonymous
	existing.UpdatedAt = rv.UpdatedAt
	r.s.reviews[rv.ID] = existing
	return nil
}

func (r *ReviewRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reviews[id]; !ok {
		return review.ErrNotFound
	}
	delete(r.s.reviews, id)
	return nil
}

func (r *ReviewRepository) ListByCompany(_ context.Context, companyID uuid.UUID, limit, offset int) ([]review.Review, error) {
	return page(r.list(func(rv review.Review) bool { return rv.CompanyID == companyID }), limit, offset), nil
}

func (r *ReviewRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]review.Review, error) {
	return r.list(func(rv review.Review) bool { return rv.UserID == userID }), nil
}

func (r *ReviewRepository) Summarize(_ context.Context, companyID uuid.UUID) (review.Summary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sum := review.Summary{CompanyID: companyID}
	total := 0
	for _, rv := range r.s.reviews {
		if rv.CompanyID == companyID {
			sum.Count++
			total += rv.Rating
		}
	}
	if sum.Count > 0 {
		sum.Average = float64(total) / float64(sum.Count)
	}
	return sum, nil
}

func (r *ReviewRepository) list(keep func(review.Review) bool) []review.Review {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]review.Review, 0)
	for _, rv := range r.s.reviews {
		if keep(rv) {
			out = append(out, r.s.withAuthor(rv))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// withAuthor expects s.mu to be held.
func (s *Store) withAuthor(rv review.Review) review.Review {
	rv.AuthorName = s.users[rv.UserID].FullName
	return rv
}

var _ review.Repository = (*ReviewRepository)(nil)
