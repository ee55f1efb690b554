package application

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"jobboard/internal/domain/application"
	"jobboard/internal/domain/company"
	"jobboard/internal/domain/job"
	"jobboard/internal/domain/notification"
	"jobboard/internal/domain/portfolio"
	"jobboard/internal/domain/resume"
	"jobboard/internal/infrastructure/storage"
	"jobboard/internal/pkg/validate"
	"jobboard/internal/usecase"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	errNotFound        = usecase.NotFound("application not found")
	errJobNotFound     = usecase.NotFound("job not found")
	errNotOwner        = usecase.Forbidden("this application belongs to another candidate")
	errNotManager      = usecase.Forbidden("you do not manage this application")
	errJobNotOpen      = usecase.Rule("job_id", "job is not open")
	errDeadlinePassed  = usecase.Rule("job_id", "the application deadline has passed")
	errCompanyClosed   = usecase.Rule("job_id", "the company is not accepting applications")
	errAlreadyApplied  = usecase.Conflict("you have already applied to this job")
	errFinal           = usecase.Rule("status", "the application can no longer be withdrawn")
	errWithdrawn       = usecase.Rule("status", "withdrawn applications cannot be changed")
	errNoChange        = usecase.Rule("status", "provide a new status or stage")
	errManagerWithdraw = usecase.Rule("status", "only the candidate can withdraw an application")
	errStale           = usecase.Conflict("the application was changed meanwhile, reload it and try again")
	errResumeMissing   = usecase.Rule("resume_version_id", "the resume file is no longer available")
	errNoResume        = usecase.NotFound("no resume is attached to this application")
)

type SubmitInput struct {
	CoverLetter      string      `json:"cover_letter" validate:"max=10000"`
	ResumeVersionID  *uuid.UUID  `json:"resume_version_id"`
	PortfolioItemIDs []uuid.UUID `json:"portfolio_item_ids" validate:"max=20"`
}

// UpdateInput moves an application. At least one of Status or Stage is set.
type UpdateInput struct {
	Status *string `json:"status" validate:"omitempty,max=100"`
	Stage  *string `json:"stage" validate:"omitempty,max=100"`
	Note   string  `json:"note" validate:"max=2000"`
}

type Service struct {
	apps      application.Repository
	refs      application.ReferenceRepository
	jobs      job.Repository
	companies company.Repository
	resumes   resume.Repository
	portfolio portfolio.Repository
	storage   storage.Storage
	notifier  usecase.Notifier
	logger    zerolog.Logger
	now       func() time.Time
}

type Deps struct {
	Applications application.Repository
	Reference    application.ReferenceRepository
	Jobs         job.Repository
	Companies    company.Repository
	Resumes      resume.Repository
	Portfolio    portfolio.Repository
	Storage      storage.Storage
	Notifier     usecase.Notifier
	Logger       zerolog.Logger
}

func NewService(d Deps) *Service {
	return &Service{
		apps:      d.Applications,
		refs:      d.Reference,
		jobs:      d.Jobs,
		companies: d.Companies,
		resumes:   d.Resumes,
		portfolio: d.Portfolio,
		storage:   d.Storage,
		notifier:  d.Notifier,
		logger:    d.Logger,
		now:       time.Now,
	}
}

// Submit applies candidateID to jobID. The job must be open, before its
// deadline, at an active company, and not already applied to.
func (s *Service) Submit(ctx context.Context, candidateID, jobID uuid.UUID, in SubmitInput) (application.Detail, error) {
	if err := validate.Struct(in); err != nil {
		return application.Detail{}, err
	}
	now := s.now().UTC()

	l, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return application.Detail{}, errJobNotFound
		}
		return application.Detail{}, fmt.Errorf("load job: %w", err)
	}
	if l.Status != job.StatusActive {
		return application.Detail{}, errJobNotOpen
	}
	if l.DeadlinePassed(now) {
		return application.Detail{}, errDeadlinePassed
	}
	if !l.CompanyActive {
		return application.Detail{}, errCompanyClosed
	}

	exists, err := s.apps.Exists(ctx, candidateID, jobID)
	if err != nil {
		return application.Detail{}, fmt.Errorf("check application: %w", err)
	}
	if exists {
		return application.Detail{}, errAlreadyApplied
	}

	a := application.Application{
		ID:          uuid.New(),
		UserID:      candidateID,
		JobID:       jobID,
		CoverLetter: strings.TrimSpace(in.CoverLetter),
		AppliedAt:   now,
		UpdatedAt:   now,
	}

	rv, err := s.resumeSnapshot(ctx, candidateID, in.ResumeVersionID)
	if err != nil {
		return application.Detail{}, err
	}
	if a.PortfolioItemIDs, err = s.ownPortfolio(ctx, candidateID, in.PortfolioItemIDs); err != nil {
		return application.Detail{}, err
	}

	pending, err := s.status(ctx, application.StatusPending)
	if err != nil {
		return application.Detail{}, err
	}
	applied, err := s.stage(ctx, application.StageApplied)
	if err != nil {
		return application.Detail{}, err
	}
	a.StatusID = pending.ID
	a.StageID = applied.ID

	if rv != nil {
		a.ResumeVersionID = &rv.ID
		a.ResumeTitle = rv.Title
		if a.ResumePath, err = s.copyResume(ctx, rv.FilePath); err != nil {
			return application.Detail{}, err
		}
	}

	h := application.HistoryEntry{
		ID:            uuid.New(),
		ApplicationID: a.ID,
		ToStageID:     applied.ID,
		ToStatusID:    pending.ID,
		ChangedBy:     candidateID,
		Note:          "Application submitted",
		CreatedAt:     now,
	}
	if err := s.apps.CreateWithHistory(ctx, a, h); err != nil {
		s.discard(ctx, a.ResumePath)
		if errors.Is(err, application.ErrDuplicate) {
			return application.Detail{}, errAlreadyApplied
		}
		return application.Detail{}, fmt.Errorf("create application: %w", err)
	}

	d, err := s.apps.GetByID(ctx, a.ID)
	if err != nil {
		return application.Detail{}, fmt.Errorf("reload application: %w", err)
	}
	s.notify(ctx, d.ManagerID, notification.TypeApplicationSubmitted,
		"New application",
		fmt.Sprintf("%s applied to %s", d.ApplicantName, d.JobTitle), d)
	return d, nil
}

// Withdraw sets the candidate's application to withdrawn, keeping its stage,
// and appends one history entry.
func (s *Service) Withdraw(ctx context.Context, candidateID, id uuid.UUID) (application.Detail, error) {
	d, err := s.GetOwn(ctx, candidateID, id)
	if err != nil {
		return application.Detail{}, err
	}
	if application.IsFinal(d.Status.Slug) {
		return application.Detail{}, errFinal
	}
	withdrawn, err := s.status(ctx, application.StatusWithdrawn)
	if err != nil {
		return application.Detail{}, err
	}

	h := s.entry(d, withdrawn, d.Stage, candidateID, "Withdrawn by candidate")
	if err := s.apps.Transition(ctx, d.ID, withdrawn.ID, d.StageID, h); err != nil {
		return application.Detail{}, s.transitionErr(err)
	}

	d.Status = withdrawn
	d.StatusID = withdrawn.ID
	d.UpdatedAt = h.CreatedAt
	s.notify(ctx, d.ManagerID, notification.TypeApplicationWithdrawn,
		"Application withdrawn",
		fmt.Sprintf("%s withdrew their application to %s", d.ApplicantName, d.JobTitle), d)
	return d, nil
}

// Update lets the managing manager move status and/or stage. Every change
// appends a history entry; a status change notifies the candidate.
func (s *Service) Update(ctx context.Context, managerID, id uuid.UUID, in UpdateInput) (application.Detail, error) {
	if err := validate.Struct(in); err != nil {
		return application.Detail{}, err
	}
	if in.Status == nil && in.Stage == nil {
		return application.Detail{}, errNoChange
	}
	d, err := s.GetManaged(ctx, managerID, id)
	if err != nil {
		return application.Detail{}, err
	}
	if d.Status.Slug == application.StatusWithdrawn {
		return application.Detail{}, errWithdrawn
	}

	toStatus, toStage := d.Status, d.Stage
	if in.Status != nil {
		slug := strings.TrimSpace(*in.Status)
		if slug == application.StatusWithdrawn {
			return application.Detail{}, errManagerWithdraw
		}
		if toStatus, err = s.refs.StatusBySlug(ctx, slug); err != nil {
			return application.Detail{}, lookupErr("status", err)
		}
	}
	if in.Stage != nil {
		if toStage, err = s.refs.StageBySlug(ctx, strings.TrimSpace(*in.Stage)); err != nil {
			return application.Detail{}, lookupErr("stage", err)
		}
	}
	if toStatus.ID == d.StatusID && toStage.ID == d.StageID {
		return application.Detail{}, errNoChange
	}

	h := s.entry(d, toStatus, toStage, managerID, strings.TrimSpace(in.Note))
	if err := s.apps.Transition(ctx, d.ID, toStatus.ID, toStage.ID, h); err != nil {
		return application.Detail{}, s.transitionErr(err)
	}

	statusChanged := toStatus.ID != d.StatusID
	d.Status, d.StatusID = toStatus, toStatus.ID
	d.Stage, d.StageID = toStage, toStage.ID
	d.UpdatedAt = h.CreatedAt

	if statusChanged {
		s.notify(ctx, d.UserID, notification.TypeApplicationStatusChanged,
			"Application updated",
			fmt.Sprintf("Your application to %s is now %s", d.JobTitle, toStatus.Name), d)
	}
	return d, nil
}

// GetOwn returns the candidate's own application.
func (s *Service) GetOwn(ctx context.Context, candidateID, id uuid.UUID) (application.Detail, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return application.Detail{}, err
	}
	if d.UserID != candidateID {
		return application.Detail{}, errNotOwner
	}
	return d, nil
}

// GetManaged returns an application to a job of the manager's company.
func (s *Service) GetManaged(ctx context.Context, managerID, id uuid.UUID) (application.Detail, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return application.Detail{}, err
	}
	if d.ManagerID != managerID {
		return application.Detail{}, errNotManager
	}
	return d, nil
}

func (s *Service) ListOwn(ctx context.Context, candidateID uuid.UUID, status string, limit, offset int) ([]application.Detail, error) {
	limit, offset = usecase.NormalizePage(limit, offset)
	out, err := s.apps.List(ctx, application.ListFilter{UserID: &candidateID, StatusSlug: status, Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return out, nil
}

func (s *Service) ListManaged(ctx context.Context, managerID uuid.UUID, jobID *uuid.UUID, status string, limit, offset int) ([]application.Detail, error) {
	c, err := s.companies.GetByOwner(ctx, managerID)
	if err != nil {
		if errors.Is(err, company.ErrNotFound) {
			return []application.Detail{}, nil
		}
		return nil, fmt.Errorf("load company: %w", err)
	}
	limit, offset = usecase.NormalizePage(limit, offset)
	out, err := s.apps.List(ctx, application.ListFilter{CompanyID: &c.ID, JobID: jobID, StatusSlug: status, Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return out, nil
}

// History returns the stage log to the applicant, the managing manager or
// an admin.
func (s *Service) History(ctx context.Context, actorID uuid.UUID, isAdmin bool, id uuid.UUID) ([]application.HistoryEntry, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && d.UserID != actorID && d.ManagerID != actorID {
		return nil, usecase.Forbidden("you cannot view this application")
	}
	out, err := s.apps.History(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return out, nil
}

// ResumeFile opens the resume snapshot of an application for the applicant,
// the managing manager or an admin.
func (s *Service) ResumeFile(ctx context.Context, actorID uuid.UUID, isAdmin bool, id uuid.UUID) (usecase.Download, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return usecase.Download{}, err
	}
	if !isAdmin && d.UserID != actorID && d.ManagerID != actorID {
		return usecase.Download{}, usecase.Forbidden("you cannot view this application")
	}
	if d.ResumePath == "" {
		return usecase.Download{}, errNoResume
	}
	return usecase.OpenDownload(ctx, s.storage, d.ResumePath, d.ResumeTitle+path.Ext(d.ResumePath))
}

// ExportManaged returns every application of the manager's company for
// CSV export.
func (s *Service) ExportManaged(ctx context.Context, managerID uuid.UUID) ([]application.Detail, error) {
	c, err := s.companies.GetByOwner(ctx, managerID)
	if err != nil {
		if errors.Is(err, company.ErrNotFound) {
			return []application.Detail{}, nil
		}
		return nil, fmt.Errorf("load company: %w", err)
	}
	out, err := s.apps.List(ctx, application.ListFilter{CompanyID: &c.ID})
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return out, nil
}

func (s *Service) ExportAll(ctx context.Context) ([]application.Detail, error) {
	out, err := s.apps.List(ctx, application.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return out, nil
}

func (s *Service) resumeSnapshot(ctx context.Context, candidateID uuid.UUID, id *uuid.UUID) (*resume.Version, error) {
	if id == nil {
		versions, err := s.resumes.ListVersions(ctx, candidateID)
		if err != nil {
			return nil, fmt.Errorf("list resumes: %w", err)
		}
		for i := range versions {
			if versions[i].IsDefault {
				return &versions[i], nil
			}
		}
		return nil, nil
	}
	v, err := s.resumes.GetVersion(ctx, *id)
	if err != nil && !errors.Is(err, resume.ErrNotFound) {
		return nil, fmt.Errorf("load resume: %w", err)
	}
	if err != nil || v.UserID != candidateID {
		return nil, usecase.Rule("resume_version_id", "resume not found")
	}
	return &v, nil
}

// copyResume gives the application its own copy of the resume file so the
// snapshot survives the version being deleted.
func (s *Service) copyResume(ctx context.Context, src string) (string, error) {
	if src == "" {
		return "", nil
	}
	stored, err := s.storage.Copy(ctx, src, storage.PrefixResumes)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", errResumeMissing
		}
		return "", fmt.Errorf("copy resume: %w", err)
	}
	return stored.Path, nil
}

func (s *Service) discard(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.Warn().Err(err).Str("path", key).Msg("delete resume copy")
	}
}

func (s *Service) ownPortfolio(ctx context.Context, candidateID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(ids))
	seen := map[uuid.UUID]bool{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		it, err := s.portfolio.GetByID(ctx, id)
		if err != nil && !errors.Is(err, portfolio.ErrNotFound) {
			return nil, fmt.Errorf("load portfolio item: %w", err)
		}
		if err != nil || it.UserID != candidateID {
			return nil, usecase.Rule("portfolio_item_ids", "portfolio item not found")
		}
		out = append(out, id)
	}
	return out, nil
}

func (s *Service) entry(d application.Detail, toStatus application.Status, toStage application.Stage, by uuid.UUID, note string) application.HistoryEntry {
	fromStatus, fromStage := d.StatusID, d.StageID
	return application.HistoryEntry{
		ID:            uuid.New(),
		ApplicationID: d.ID,
		FromStageID:   &fromStage,
		ToStageID:     toStage.ID,
		FromStatusID:  &fromStatus,
		ToStatusID:    toStatus.ID,
		ChangedBy:     by,
		Note:          note,
		CreatedAt:     s.now().UTC(),
		FromStage:     d.Stage.Slug,
		ToStage:       toStage.Slug,
		FromStatus:    d.Status.Slug,
		ToStatus:      toStatus.Slug,
	}
}

func (s *Service) status(ctx context.Context, slug string) (application.Status, error) {
	st, err := s.refs.StatusBySlug(ctx, slug)
	if err != nil {
		return application.Status{}, fmt.Errorf("status %q: %w", slug, err)
	}
	return st, nil
}

func (s *Service) stage(ctx context.Context, slug string) (application.Stage, error) {
	st, err := s.refs.StageBySlug(ctx, slug)
	if err != nil {
		return application.Stage{}, fmt.Errorf("stage %q: %w", slug, err)
	}
	return st, nil
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (application.Detail, error) {
	d, err := s.apps.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return application.Detail{}, errNotFound
		}
		return application.Detail{}, fmt.Errorf("load application: %w", err)
	}
	return d, nil
}

func (s *Service) transitionErr(err error) error {
	switch {
	case errors.Is(err, application.ErrNotFound):
		return errNotFound
	case errors.Is(err, application.ErrStale):
		return errStale
	default:
		return fmt.Errorf("transition application: %w", err)
	}
}

func (s *Service) notify(ctx context.Context, to uuid.UUID, typ notification.Type, title, body string, d application.Detail) {
	if s.notifier == nil || to == uuid.Nil {
		return
	}
	s.notifier.Notify(ctx, notification.Notification{
		UserID: to,
		Type:   typ,
		Title:  title,
		Body:   body,
		Data: map[string]any{
			"application_id": d.ID.String(),
			"job_id":         d.JobID.String(),
			"status":         d.Status.Slug,
			"stage":          d.Stage.Slug,
		},
	})
}

func lookupErr(field string, err error) error {
	if errors.Is(err, application.ErrLookupNotFound) {
		return usecase.Rule(field, "unknown "+field)
	}
	return fmt.Errorf("load %s: %w", field, err)
}
