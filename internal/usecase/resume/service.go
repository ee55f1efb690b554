package resume

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobboard/internal/domain/resume"
	"jobboard/internal/infrastructure/storage"
	"jobboard/internal/pkg/validate"
	"jobboard/internal/usecase"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	errNotFound            = usecase.NotFound("resume not found")
	errEnhancementNotFound = usecase.NotFound("enhancement not found")
	errNotOwner            = usecase.Forbidden("you can only manage your own resumes")
)

type UploadInput struct {
	Title string `json:"title" form:"title" validate:"max=255"`
	Notes string `json:"notes" form:"notes" validate:"max=2000"`
}

type UpdateInput struct {
	Title string `json:"title" validate:"notblank,max=255"`
	Notes string `json:"notes" validate:"max=2000"`
}

type EnhancementInput struct {
	Section       string `json:"section" validate:"notblank,max=100"`
	OriginalText  string `json:"original_text" validate:"max=10000"`
	SuggestedText string `json:"suggested_text" validate:"notblank,max=10000"`
}

type StatusInput struct {
	Status string `json:"status" validate:"required,oneof=pending applied dismissed"`
}

type Service struct {
	resumes resume.Repository
	storage storage.Storage
	logger  zerolog.Logger
	now     func() time.Time
}

func NewService(resumes resume.Repository, st storage.Storage, logger zerolog.Logger) *Service {
	return &Service{resumes: resumes, storage: st, logger: logger, now: time.Now}
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]resume.Version, error) {
	out, err := s.resumes.ListVersions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (resume.Version, error) {
	return s.owned(ctx, userID, id)
}

// Upload stores a new version. The first version of a user becomes the
// default one.
func (s *Service) Upload(ctx context.Context, userID uuid.UUID, in UploadInput, f usecase.File) (resume.Version, error) {
	if err := validate.Struct(in); err != nil {
		return resume.Version{}, err
	}
	existing, err := s.resumes.ListVersions(ctx, userID)
	if err != nil {
		return resume.Version{}, fmt.Errorf("list resumes: %w", err)
	}
	stored, err := usecase.SaveUpload(ctx, s.storage, storage.PrefixResumes, "file", f)
	if err != nil {
		return resume.Version{}, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = strings.TrimSpace(stored.Name)
	}
	if title == "" {
		title = "Resume"
	}
	v := resume.Version{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Notes:     strings.TrimSpace(in.Notes),
		FilePath:  stored.Path,
		FileName:  stored.Name,
		MimeType:  stored.MimeType,
		FileSize:  stored.Size,
		IsDefault: len(existing) == 0,
		CreatedAt: s.now().UTC(),
	}
	if err := s.resumes.CreateVersion(ctx, v); err != nil {
		s.discard(ctx, stored.Path)
		return resume.Version{}, fmt.Errorf("create resume: %w", err)
	}
	return v, nil
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, in UpdateInput) (resume.Version, error) {
	if err := validate.Struct(in); err != nil {
		return resume.Version{}, err
	}
	v, err := s.owned(ctx, userID, id)
	if err != nil {
		return resume.Version{}, err
	}
	v.Title = strings.TrimSpace(in.Title)
	v.Notes = strings.TrimSpace(in.Notes)
	if err := s.resumes.UpdateVersion(ctx, v); err != nil {
		return resume.Version{}, fmt.Errorf("update resume: %w", err)
	}
	return v, nil
}

func (s *Service) SetDefault(ctx context.Context, userID, id uuid.UUID) (resume.Version, error) {
	v, err := s.owned(ctx, userID, id)
	if err != nil {
		return resume.Version{}, err
	}
	if err := s.resumes.SetDefault(ctx, userID, id); err != nil {
		return resume.Version{}, fmt.Errorf("set default resume: %w", err)
	}
	v.IsDefault = true
	return v, nil
}

// Delete removes the version and its file. When the default goes, the
// newest remaining version takes over. Applications keep their own copy of
// the file.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	v, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.resumes.DeleteAndPromote(ctx, userID, id); err != nil {
		if errors.Is(err, resume.ErrNotFound) {
			return errNotFound
		}
		return fmt.Errorf("delete resume: %w", err)
	}
	s.discard(ctx, v.FilePath)
	return nil
}

// Download opens the file of one of the candidate's own versions.
func (s *Service) Download(ctx context.Context, userID, id uuid.UUID) (usecase.Download, error) {
	v, err := s.owned(ctx, userID, id)
	if err != nil {
		return usecase.Download{}, err
	}
	return usecase.OpenDownload(ctx, s.storage, v.FilePath, v.FileName)
}

func (s *Service) AddEnhancement(ctx context.Context, userID, versionID uuid.UUID, in EnhancementInput) (resume.Enhancement, error) {
	if err := validate.Struct(in); err != nil {
		return resume.Enhancement{}, err
	}
	if _, err := s.owned(ctx, userID, versionID); err != nil {
		return resume.Enhancement{}, err
	}
	now := s.now().UTC()
	e := resume.Enhancement{
		ID:              uuid.New(),
		ResumeVersionID: versionID,
		Section:         strings.TrimSpace(in.Section),
		OriginalText:    strings.TrimSpace(in.OriginalText),
		SuggestedText:   strings.TrimSpace(in.SuggestedText),
		Status:          resume.EnhancementPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.resumes.CreateEnhancement(ctx, e); err != nil {
		return resume.Enhancement{}, fmt.Errorf("create enhancement: %w", err)
	}
	return e, nil
}

func (s *Service) Enhancements(ctx context.Context, userID, versionID uuid.UUID) ([]resume.Enhancement, error) {
	if _, err := s.owned(ctx, userID, versionID); err != nil {
		return nil, err
	}
	out, err := s.resumes.ListEnhancements(ctx, versionID)
	if err != nil {
		return nil, fmt.Errorf("list enhancements: %w", err)
	}
	return out, nil
}

func (s *Service) SetEnhancementStatus(ctx context.Context, userID, id uuid.UUID, in StatusInput) (resume.Enhancement, error) {
	if err := validate.Struct(in); err != nil {
		return resume.Enhancement{}, err
	}
	e, err := s.ownedEnhancement(ctx, userID, id)
	if err != nil {
		return resume.Enhancement{}, err
	}
	e.Status = resume.EnhancementStatus(in.Status)
	e.UpdatedAt = s.now().UTC()
	if err := s.resumes.UpdateEnhancementStatus(ctx, id, e.Status, e.UpdatedAt); err != nil {
		return resume.Enhancement{}, fmt.Errorf("update enhancement: %w", err)
	}
	return e, nil
}

func (s *Service) DeleteEnhancement(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.ownedEnhancement(ctx, userID, id); err != nil {
		return err
	}
	if err := s.resumes.DeleteEnhancement(ctx, id); err != nil {
		return fmt.Errorf("delete enhancement: %w", err)
	}
	return nil
}

func (s *Service) owned(ctx context.Context, userID, id uuid.UUID) (resume.Version, error) {
	v, err := s.resumes.GetVersion(ctx, id)
	if err != nil {
		if errors.Is(err, resume.ErrNotFound) {
			return resume.Version{}, errNotFound
		}
		return resume.Version{}, fmt.Errorf("load resume: %w", err)
	}
	if v.UserID != userID {
		return resume.Version{}, errNotOwner
	}
	return v, nil
}

func (s *Service) ownedEnhancement(ctx context.Context, userID, id uuid.UUID) (resume.Enhancement, error) {
	e, err := s.resumes.GetEnhancement(ctx, id)
	if err != nil {
		if errors.Is(err, resume.ErrEnhancementNotFound) {
			return resume.Enhancement{}, errEnhancementNotFound
		}
		return resume.Enhancement{}, fmt.Errorf("load enhancement: %w", err)
	}
	if _, err := s.owned(ctx, userID, e.ResumeVersionID); err != nil {
		return resume.Enhancement{}, err
	}
	return e, nil
}

func (s *Service) discard(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.storage.Delete(ctx, path); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("delete resume file")
	}
}
