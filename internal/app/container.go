package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jobboard/internal/config"
	"jobboard/internal/database"
	"jobboard/internal/database/migration"
	"jobboard/internal/database/migrations"
	dbpostgres "jobboard/internal/database/postgres"
	"jobboard/internal/infrastructure/cache"
	"jobboard/internal/infrastructure/storage"
	"jobboard/internal/pkg/jwt"
	"jobboard/internal/repository"
	ucapp "jobboard/internal/usecase/application"
	ucauth "jobboard/internal/usecase/auth"
	ucompany "jobboard/internal/usecase/company"
	ucevent "jobboard/internal/usecase/event"
	ucjob "jobboard/internal/usecase/job"
	ucmsg "jobboard/internal/usecase/messaging"
	ucnotif "jobboard/internal/usecase/notification"
	ucportfolio "jobboard/internal/usecase/portfolio"
	ucref "jobboard/internal/usecase/reference"
	ucresume "jobboard/internal/usecase/resume"
	ucreview "jobboard/internal/usecase/review"
	useruc "jobboard/internal/usecase/user"
	"jobboard/internal/ws"

	"github.com/rs/zerolog"
)

// Services groups the use cases the HTTP layer depends on.
type Services struct {
	Auth          *ucauth.Service
	Users         *useruc.Service
	Companies     *ucompany.Service
	Reviews       *ucreview.Service
	Jobs          *ucjob.Service
	Reference     *ucref.Service
	Applications  *ucapp.Service
	Events        *ucevent.Service
	Messaging     *ucmsg.Service
	Notifications *ucnotif.Service
	Portfolio     *ucportfolio.Service
	Resumes       *ucresume.Service
}

type Container struct {
	Config  config.Config
	Logger  zerolog.Logger
	DB      database.DB
	Cache   *cache.Redis
	Storage *storage.Store
	JWT     jwt.Service
	Hub     *ws.Hub

	Services Services

	stopHub context.CancelFunc
}

func NewContainer(cfg config.Config, logger zerolog.Logger) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if cfg.Database.MigrateOnStart {
		n, err := migration.Runner{FS: migrations.FS, Logger: logger}.Run(ctx, db.SQLDB())
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info().Int("applied", n).Msg("migrations complete")
	}

	blobs, err := newBlobBackend(cfg.Storage)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		DB:      db,
		Cache:   cache.NewRedis(ctx, cfg.Redis, logger),
		Storage: storage.New(blobs, nil),
		JWT:     jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessExpiresIn, cfg.JWT.RefreshExpiresIn),
		Hub:     ws.NewHub(logger),
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	c.stopHub = stopHub
	go c.Hub.Run(hubCtx)

	c.Services = c.buildServices()
	return c, nil
}

func newBlobBackend(cfg config.StorageConfig) (storage.Backend, error) {
	switch cfg.Driver {
	case "", "disk":
		return storage.NewDisk(cfg.DiskRoot, cfg.PublicBaseURL), nil
	case "s3":
		s3, err := storage.NewS3(cfg)
		if err != nil {
			return nil, fmt.Errorf("init s3 storage: %w", err)
		}
		return s3, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func (c *Container) buildServices() Services {
	var (
		users         = repository.NewPostgresUserRepository(c.DB)
		companies     = repository.NewPostgresCompanyRepository(c.DB)
		jobs          = repository.NewPostgresJobRepository(c.DB)
		apps          = repository.NewPostgresApplicationRepository(c.DB)
		refs          = repository.NewPostgresReferenceRepository(c.DB)
		events        = repository.NewPostgresEventRepository(c.DB)
		conversations = repository.NewPostgresMessagingRepository(c.DB)
		notifications = repository.NewPostgresNotificationRepository(c.DB)
		portfolio     = repository.NewPostgresPortfolioRepository(c.DB)
		resumes       = repository.NewPostgresResumeRepository(c.DB)
		reviews       = repository.NewPostgresReviewRepository(c.DB)
	)

	ttl := c.Config.Redis.TTL
	notifier := ucnotif.NewService(notifications, c.Hub, c.Logger)

	return Services{
		Auth:      ucauth.NewService(users, c.JWT),
		Users:     useruc.NewService(users, c.Storage, c.Logger),
		Companies: ucompany.NewService(companies, c.Storage, c.Cache, c.Logger),
		Reviews:   ucreview.NewService(reviews, companies, c.Cache, ttl, c.Logger),
		Jobs:      ucjob.NewService(jobs, companies, c.Cache, ttl, c.Logger),
		Reference: ucref.NewService(refs),
		Applications: ucapp.NewService(ucapp.Deps{
			Applications: apps,
			Reference:    refs,
			Jobs:         jobs,
			Companies:    companies,
			Resumes:      resumes,
			Portfolio:    portfolio,
			Storage:      c.Storage,
			Notifier:     notifier,
			Logger:       c.Logger,
		}),
		Events: ucevent.NewService(events, apps, companies, notifier, c.Logger),
		Messaging: ucmsg.NewService(ucmsg.Deps{
			Conversations: conversations,
			Jobs:          jobs,
			Companies:     companies,
			Applications:  apps,
			Users:         users,
			Storage:       c.Storage,
			Notifier:      notifier,
			Pusher:        c.Hub,
			Logger:        c.Logger,
		}),
		Notifications: notifier,
		Portfolio:     ucportfolio.NewService(portfolio, c.Storage, c.Logger),
		Resumes:       ucresume.NewService(resumes, c.Storage, c.Logger),
	}
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.stopHub != nil {
		c.stopHub()
	}
	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
