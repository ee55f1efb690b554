package memory

import (
	"context"
	"sort"
	"time"

	"jobboard/internal/domain/resume"

	"github.com/google/uuid"
)

type ResumeRepository struct{ s *Store }

func (r *ResumeRepository) CreateVersion(_ context.Context, v resume.Version) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.resumes[v.ID] = v
	return nil
}

func (r *ResumeRepository) GetVersion(_ context.Context, id uuid.UUID) (resume.Version, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.resumes[id]
	if !ok {
		return resume.Version{}, resume.ErrNotFound
	}
	return v, nil
}

func (r *ResumeRepository) ListVersions(_ context.Context, userID uuid.UUID) ([]resume.Version, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]resume.Version, 0)
	for _, v := range r.s.resumes {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ResumeRepository) UpdateVersion(_ context.Context, v resume.Version) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.resumes[v.ID]
	if !ok {
		return resume.ErrNotFound
	}
	existing.Title = v.Title
	existing.Notes = v.Notes
	r.s.resumes[v.ID] = existing
	return nil
}

func (r *ResumeRepository) SetDefault(_ context.Context, userID, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	target, ok := r.s.resumes[id]
	if !ok || target.UserID != userID {
		return resume.ErrNotFound
	}
	for vid, v := range r.s.resumes {
		if v.UserID == userID {
			v.IsDefault = vid == id
			r.s.resumes[vid] = v
		}
	}
	return nil
}

func (r *ResumeRepository) DeleteAndPromote(_ context.Context, userID, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.resumes[id]
	if !ok || v.UserID != userID {
		return resume.ErrNotFound
	}
	delete(r.s.resumes, id)
	for eid, e := range r.s.enhancements {
		if e.ResumeVersionID == id {
			delete(r.s.enhancements, eid)
		}
	}
	if !v.IsDefault {
		return nil
	}
	var newest *resume.Version
	for _, rest := range r.s.resumes {
		if rest.UserID == userID && (newest == nil || rest.CreatedAt.After(newest.CreatedAt)) {
			rest := rest
			newest = &rest
		}
	}
	if newest != nil {
		newest.IsDefault = true
		r.s.resumes[newest.ID] = *newest
	}
	return nil
}

func (r *ResumeRepository) CreateEnhancement(_ context.Context, e resume.Enhancement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.resumes[e.ResumeVersionID]; !ok {
		return resume.ErrNotFound
	}
	r.s.enhancements[e.ID] = e
	return nil
}

func (r *ResumeRepository) GetEnhancement(_ context.Context, id uuid.UUID) (resume.Enhancement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.enhancements[id]
	if !ok {
		return resume.Enhancement{}, resume.ErrEnhancementNotFound
	}
	return e, nil
}

func (r *ResumeRepository) ListEnhancements(_ context.Context, versionID uuid.UUID) ([]resume.Enhancement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]resume.Enhancement, 0)
	for _, e := range r.s.enhancements {
		if e.ResumeVersionID == versionID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *ResumeRepository) UpdateEnhancementStatus(_ context.Context, id uuid.UUID, status resume.EnhancementStatus, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.enhancements[id]
	if !ok {
		return resume.ErrEnhancementNotFound
	}
	e.Status = status
	e.UpdatedAt = at
	r.s.enhancements[id] = e
	return nil
}

func (r *ResumeRepository) DeleteEnhancement(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.enhancements[id]; !ok {
		return resume.ErrEnhancementNotFound
	}
	delete(r.s.enhancements, id)
	return nil
}

var _ resume.Repository = (*ResumeRepository)(nil)
