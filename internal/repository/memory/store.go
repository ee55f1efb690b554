// Package memory keeps every repository in process memory. It backs the
// usecase and HTTP tests and mirrors the constraints the Postgres schema
// enforces (unique keys, ownership joins, append-only history).
package memory

import (
	"sync"

	"jobboard/internal/domain/application"
	"jobboard/internal/domain/company"
	"jobboard/internal/domain/event"
	"jobboard/internal/domain/job"
	"jobboard/internal/domain/messaging"
	"jobboard/internal/domain/notification"
	"jobboard/internal/domain/portfolio"
	"jobboard/internal/domain/resume"
	"jobboard/internal/domain/review"
	"jobboard/internal/domain/user"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	users         map[uuid.UUID]user.User
	profiles      map[uuid.UUID]user.Profile
	companies     map[uuid.UUID]company.Company
	jobs          map[uuid.UUID]job.Job
	statuses      map[uuid.UUID]application.Status
	stages        map[uuid.UUID]application.Stage
	applications  map[uuid.UUID]application.Application
	history       []application.HistoryEntry
	events        map[uuid.UUID]event.Event
	conversations map[uuid.UUID]messaging.Conversation
	messages      []messaging.Message
	notifications []notification.Notification
	reviews       map[uuid.UUID]review.Review
	portfolio     map[uuid.UUID]portfolio.Item
	resumes       map[uuid.UUID]resume.Version
	enhancements  map[uuid.UUID]resume.Enhancement
}

func NewStore() *Store {
	return &Store{
		users:         map[uuid.UUID]user.User{},
		profiles:      map[uuid.UUID]user.Profile{},
		companies:     map[uuid.UUID]company.Company{},
		jobs:          map[uuid.UUID]job.Job{},
		statuses:      map[uuid.UUID]application.Status{},
		stages:        map[uuid.UUID]application.Stage{},
		applications:  map[uuid.UUID]application.Application{},
		events:        map[uuid.UUID]event.Event{},
		conversations: map[uuid.UUID]messaging.Conversation{},
		reviews:       map[uuid.UUID]review.Review{},
		portfolio:     map[uuid.UUID]portfolio.Item{},
		resumes:       map[uuid.UUID]resume.Version{},
		enhancements:  map[uuid.UUID]resume.Enhancement{},
	}
}

func (s *Store) Users() *UserRepository                 { return &UserRepository{s: s} }
func (s *Store) Companies() *CompanyRepository          { return &CompanyRepository{s: s} }
func (s *Store) Jobs() *JobRepository                   { return &JobRepository{s: s} }
func (s *Store) Applications() *ApplicationRepository   { return &ApplicationRepository{s: s} }
func (s *Store) Reference() *ReferenceRepository        { return &ReferenceRepository{s: s} }
func (s *Store) Events() *EventRepository               { return &EventRepository{s: s} }
func (s *Store) Messaging() *MessagingRepository        { return &MessagingRepository{s: s} }
func (s *Store) Notifications() *NotificationRepository { return &NotificationRepository{s: s} }
func (s *Store) Reviews() *ReviewRepository             { return &ReviewRepository{s: s} }
func (s *Store) Portfolio() *PortfolioRepository        { return &PortfolioRepository{s: s} }
func (s *Store) Resumes() *ResumeRepository             { return &ResumeRepository{s: s} }

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func cloneStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	out := make([]string, len(v))
	copy(out, v)
	return out
}
