package routes

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"jobboard/internal/delivery/http/handler"
	"jobboard/internal/delivery/http/middleware"
	v1 "jobboard/internal/delivery/http/routes/v1"
	"jobboard/internal/domain/resume"
	"jobboard/internal/domain/user"
	"jobboard/internal/export"
	"jobboard/internal/infrastructure/cache"
	"jobboard/internal/infrastructure/storage"
	"jobboard/internal/pkg/jwt"
	"jobboard/internal/repository/memory"
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

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type harness struct {
	app   *fiber.App
	store *memory.Store
	files *storage.Store
	jwt   *jwt.HMACService
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func newHarness(t *testing.T, checks map[string]handler.Pinger) *harness {
	t.Helper()

	logger := zerolog.Nop()
	store := memory.NewStore()
	store.SeedReference()
	jwtSvc := jwt.NewHMACService("access-secret", "refresh-secret", time.Minute, time.Hour)
	files := storage.New(storage.NewDisk(t.TempDir(), "/storage"), nil)
	c := cache.NewRedisWithClient(nil, time.Minute, logger)
	notifier := ucnotif.NewService(store.Notifications(), nil, logger)

	users := useruc.NewService(store.Users(), files, logger)
	companies := ucompany.NewService(store.Companies(), files, c, logger)
	reviews := ucreview.NewService(store.Reviews(), store.Companies(), c, time.Minute, logger)
	apps := ucapp.NewService(ucapp.Deps{
		Applications: store.Applications(),
		Reference:    store.Reference(),
		Jobs:         store.Jobs(),
		Companies:    store.Companies(),
		Resumes:      store.Resumes(),
		Portfolio:    store.Portfolio(),
		Storage:      files,
		Notifier:     notifier,
		Logger:       logger,
	})

	api := v1.Handlers{
		Auth:         handler.NewAuthHandler(ucauth.NewService(store.Users(), jwtSvc), files),
		Users:        handler.NewUserHandler(users, files),
		Companies:    handler.NewCompanyHandler(companies, reviews, files),
		Reviews:      handler.NewReviewHandler(reviews),
		Jobs:         handler.NewJobHandler(ucjob.NewService(store.Jobs(), store.Companies(), c, time.Minute, logger)),
		Reference:    handler.NewReferenceHandler(ucref.NewService(store.Reference())),
		Applications: handler.NewApplicationHandler(apps),
		Events:       handler.NewEventHandler(ucevent.NewService(store.Events(), store.Applications(), store.Companies(), notifier, logger)),
		Messaging: handler.NewMessagingHandler(ucmsg.NewService(ucmsg.Deps{
			Conversations: store.Messaging(),
			Jobs:          store.Jobs(),
			Companies:     store.Companies(),
			Applications:  store.Applications(),
			Users:         store.Users(),
			Storage:       files,
			Notifier:      notifier,
			Logger:        logger,
		})),
		Notifications: handler.NewNotificationHandler(notifier),
		Portfolio:     handler.NewPortfolioHandler(ucportfolio.NewService(store.Portfolio(), files, logger), files),
		Resumes:       handler.NewResumeHandler(ucresume.NewService(store.Resumes(), files, logger)),
		Admin:         handler.NewAdminHandler(users, companies, files),
	}

	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
	guards := handler.NewGuards(middleware.NewAuthMiddleware(jwtSvc), middleware.NewRateLimiter(100).Middleware())
	if checks == nil {
		checks = map[string]handler.Pinger{"database": stubPinger{}}
	}
	NewRegistry(handler.NewHealthHandler(checks), api, guards, middleware.NewRateLimiter(100).Middleware(), nil).Register(app)

	return &harness{app: app, store: store, files: files, jwt: jwtSvc}
}

func (h *harness) token(t *testing.T, u user.User) string {
	t.Helper()
	tok, err := h.jwt.GenerateAccessToken(u.ID, u.Email, string(u.Role))
	require.NoError(t, err)
	return tok
}

func (h *harness) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := h.app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	defer resp.Body.Close()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func TestHealth(t *testing.T) {
	h := newHarness(t, nil)
	resp := h.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	down := newHarness(t, map[string]handler.Pinger{
		"database": stubPinger{},
		"redis":    stubPinger{err: errors.New("connection refused")},
	})
	resp = down.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestGuards(t *testing.T) {
	h := newHarness(t, nil)
	candidate := h.store.AddUser(user.RoleCandidate, "Cora")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{name: "public job list", method: http.MethodGet, path: "/api/v1/jobs", want: http.StatusOK},
		{name: "missing token", method: http.MethodPost, path: "/api/v1/jobs", want: http.StatusUnauthorized},
		{name: "garbage token", method: http.MethodGet, path: "/api/v1/applications", token: "nope", want: http.StatusUnauthorized},
		{name: "candidate on manager route", method: http.MethodGet, path: "/api/v1/manager/jobs", token: h.token(t, candidate), want: http.StatusForbidden},
		{name: "candidate on admin route", method: http.MethodGet, path: "/api/v1/admin/users", token: h.token(t, candidate), want: http.StatusForbidden},
		{name: "bad id", method: http.MethodGet, path: "/api/v1/jobs/not-a-uuid", want: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := h.do(t, tt.method, tt.path, tt.token, nil)
			env := decode(t, resp)
			assert.Equal(t, tt.want, resp.StatusCode)
			assert.Equal(t, tt.want, env.Status)
		})
	}
}

func TestRegisterValidationEnvelope(t *testing.T) {
	h := newHarness(t, nil)

	resp := h.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":    "not-an-email",
		"password": "short",
		"role":     "admin",
	})
	env := decode(t, resp)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var data struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Contains(t, data.Errors, "email")
	assert.Contains(t, data.Errors, "password")
	assert.Contains(t, data.Errors, "role")
}

func TestRegisterThenLogin(t *testing.T) {
	h := newHarness(t, nil)

	resp := h.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":     "Jane@Example.com",
		"password":  "correct-horse",
		"full_name": "Jane",
		"role":      "candidate",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = h.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":     "jane@example.com",
		"password":  "correct-horse",
		"full_name": "Jane",
		"role":      "candidate",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = h.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "jane@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = h.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "jane@example.com",
		"password": "correct-horse",
	})
	env := decode(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sess struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sess))
	require.NotEmpty(t, sess.AccessToken)

	resp = h.do(t, http.MethodGet, "/api/v1/users/me", sess.AccessToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestApplyAndExportCSV(t *testing.T) {
	h := newHarness(t, nil)
	manager := h.store.AddUser(user.RoleManager, "Mona")
	candidate := h.store.AddUser(user.RoleCandidate, "Carl")
	co := h.store.AddCompany(manager.ID, "Acme")
	j := h.store.AddJob(co.ID, "Backend Engineer", nil)

	resp := h.do(t, http.MethodPost, "/api/v1/jobs/"+j.ID.String()+"/applications", h.token(t, candidate), map[string]any{
		"cover_letter": "hello",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = h.do(t, http.MethodPost, "/api/v1/jobs/"+j.ID.String()+"/applications", h.token(t, candidate), map[string]any{})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = h.do(t, http.MethodGet, "/api/v1/manager/applications/export", h.token(t, manager), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/csv"))
	disposition := resp.Header.Get("Content-Disposition")
	assert.Contains(t, disposition, "attachment")
	assert.Contains(t, disposition, "applications-company-")

	records, err := csv.NewReader(resp.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, export.ApplicationHeader, records[0])
	assert.Equal(t, "Carl", records[1][1])
	assert.Equal(t, "Backend Engineer", records[1][3])
	assert.Equal(t, "pending", records[1][5])
	assert.Equal(t, "applied", records[1][6])
}

func TestReviewOwnership(t *testing.T) {
	h := newHarness(t, nil)
	manager := h.store.AddUser(user.RoleManager, "Mona")
	author := h.store.AddUser(user.RoleCandidate, "Ann")
	other := h.store.AddUser(user.RoleCandidate, "Olaf")
	co := h.store.AddCompany(manager.ID, "Acme")

	body := map[string]any{"rating": 4, "title": "Good", "body": "Nice people"}
	resp := h.do(t, http.MethodPost, "/api/v1/companies/"+co.ID.String()+"/reviews", h.token(t, author), body)
	env := decode(t, resp)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotEmpty(t, created.ID)

	resp = h.do(t, http.MethodPut, "/api/v1/reviews/"+created.ID, h.token(t, other), body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = h.do(t, http.MethodDelete, "/api/v1/reviews/"+created.ID, h.token(t, other), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = h.do(t, http.MethodGet, "/api/v1/companies/"+co.ID.String()+"/reviews", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestApplicationResumeDownload(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	manager := h.store.AddUser(user.RoleManager, "Mona")
	candidate := h.store.AddUser(user.RoleCandidate, "Carl")
	outsider := h.store.AddUser(user.RoleCandidate, "Olga")
	co := h.store.AddCompany(manager.ID, "Acme")
	j := h.store.AddJob(co.ID, "Backend Engineer", nil)

	pdf := []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")
	stored, err := h.files.Put(ctx, storage.PrefixResumes, "cv.pdf", bytes.NewReader(pdf), int64(len(pdf)))
	require.NoError(t, err)
	require.NoError(t, h.store.Resumes().CreateVersion(ctx, resume.Version{
		ID: uuid.New(), UserID: candidate.ID, Title: "Carl CV", FilePath: stored.Path,
		FileName: "cv.pdf", MimeType: stored.MimeType, IsDefault: true, CreatedAt: time.Now(),
	}))

	resp := h.do(t, http.MethodPost, "/api/v1/jobs/"+j.ID.String()+"/applications", h.token(t, candidate), map[string]any{})
	env := decode(t, resp)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID        uuid.UUID `json:"id"`
		ResumeURL string    `json:"resume_url"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "/api/v1/applications/"+created.ID.String()+"/resume", created.ResumeURL)

	resp = h.do(t, http.MethodGet, created.ResumeURL, h.token(t, manager), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, pdf, body)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	resp = h.do(t, http.MethodGet, created.ResumeURL, h.token(t, outsider), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = h.do(t, http.MethodGet, created.ResumeURL, "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
