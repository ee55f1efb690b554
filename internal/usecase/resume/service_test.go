package resume

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"jobboard/internal/domain/resume"
	"jobboard/internal/domain/user"
	"jobboard/internal/infrastructure/storage"
	"jobboard/internal/repository/memory"
	"jobboard/internal/usecase"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")

func pdf(name string) usecase.File {
	return usecase.File{Name: name, Size: int64(len(pdfBytes)), Content: bytes.NewReader(pdfBytes)}
}

func newService(t *testing.T) (*Service, *memory.Store, string) {
	t.Helper()
	root := t.TempDir()
	store := memory.NewStore()
	svc := NewService(store.Resumes(), storage.New(storage.NewDisk(root, "/storage"), nil), zerolog.Nop())
	clock := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc, store, root
}

func defaults(t *testing.T, svc *Service, userID uuid.UUID) []uuid.UUID {
	t.Helper()
	list, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	var out []uuid.UUID
	for _, v := range list {
		if v.IsDefault {
			out = append(out, v.ID)
		}
	}
	return out
}

func TestFirstUploadBecomesDefault(t *testing.T) {
	svc, store, root := newService(t)
	ctx := context.Background()
	owner := store.AddUser(user.RoleCandidate, "Cai")

	first, err := svc.Upload(ctx, owner.ID, UploadInput{}, pdf("cv.pdf"))
	require.NoError(t, err)
	assert.True(t, first.IsDefault)
	assert.Equal(t, "cv.pdf", first.Title)
	assert.Equal(t, "application/pdf", first.MimeType)
	assert.FileExists(t, filepath.Join(root, first.FilePath))

	second, err := svc.Upload(ctx, owner.ID, UploadInput{Title: "Backend"}, pdf("cv2.pdf"))
	require.NoError(t, err)
	assert.False(t, second.IsDefault)
	assert.Equal(t, []uuid.UUID{first.ID}, defaults(t, svc, owner.ID))

	_, err = svc.SetDefault(ctx, owner.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{second.ID}, defaults(t, svc, owner.ID))
}

func TestUploadRejectsImages(t *testing.T) {
	svc, store, _ := newService(t)
	owner := store.AddUser(user.RoleCandidate, "Cai")
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

	_, err := svc.Upload(context.Background(), owner.ID, UploadInput{}, usecase.File{
		Name: "cv.pdf", Size: int64(len(png)), Content: bytes.NewReader(png),
	})
	assert.ErrorIs(t, err, usecase.ErrRule)
}

func TestDeleteDefaultPromotesNewest(t *testing.T) {
	svc, store, root := newService(t)
	ctx := context.Background()
	owner := store.AddUser(user.RoleCandidate, "Cai")

	first, err := svc.Upload(ctx, owner.ID, UploadInput{Title: "A"}, pdf("a.pdf"))
	require.NoError(t, err)
	_, err = svc.Upload(ctx, owner.ID, UploadInput{Title: "B"}, pdf("b.pdf"))
	require.NoError(t, err)
	newest, err := svc.Upload(ctx, owner.ID, UploadInput{Title: "C"}, pdf("c.pdf"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, owner.ID, first.ID))
	assert.NoFileExists(t, filepath.Join(root, first.FilePath))
	assert.Equal(t, []uuid.UUID{newest.ID}, defaults(t, svc, owner.ID))
}

type failingDelete struct {
	resume.Repository
}

func (failingDelete) DeleteAndPromote(context.Context, uuid.UUID, uuid.UUID) error {
	return errors.New("connection reset")
}

func TestDeleteFailureKeepsVersionAndFile(t *testing.T) {
	_, store, root := newService(t)
	ctx := context.Background()
	owner := store.AddUser(user.RoleCandidate, "Cai")
	svc := NewService(failingDelete{store.Resumes()}, storage.New(storage.NewDisk(root, "/storage"), nil), zerolog.Nop())

	v, err := svc.Upload(ctx, owner.ID, UploadInput{Title: "A"}, pdf("a.pdf"))
	require.NoError(t, err)

	assert.Error(t, svc.Delete(ctx, owner.ID, v.ID))
	assert.FileExists(t, filepath.Join(root, v.FilePath))
	assert.Equal(t, []uuid.UUID{v.ID}, defaults(t, svc, owner.ID))
}

func TestDeleteOnlyVersionLeavesNoDefault(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()
	owner := store.AddUser(user.RoleCandidate, "Cai")

	v, err := svc.Upload(ctx, owner.ID, UploadInput{}, pdf("cv.pdf"))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, owner.ID, v.ID))
	assert.Empty(t, defaults(t, svc, owner.ID))
}

func TestDownloadOwnVersion(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()
	owner := store.AddUser(user.RoleCandidate, "Cai")
	other := store.AddUser(user.RoleCandidate, "Dee")

	v, err := svc.Upload(ctx, owner.ID, UploadInput{}, pdf("cv.pdf"))
	require.NoError(t, err)

	dl, err := svc.Download(ctx, owner.ID, v.ID)
	require.NoError(t, err)
	defer dl.Content.Close()
	body, err := io.ReadAll(dl.Content)
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, body)
	assert.Equal(t, "cv.pdf", dl.Name)
	assert.Equal(t, "application/pdf", dl.ContentType)

	_, err = svc.Download(ctx, other.ID, v.ID)
	assert.ErrorIs(t, err, usecase.ErrForbidden)
}

func TestOnlyOwnerManagesResumes(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()
	owner := store.AddUser(user.RoleCandidate, "Cai")
	other := store.AddUser(user.RoleCandidate, "Dee")

	v, err := svc.Upload(ctx, owner.ID, UploadInput{}, pdf("cv.pdf"))
	require.NoError(t, err)
	e, err := svc.AddEnhancement(ctx, owner.ID, v.ID, EnhancementInput{Section: "summary", SuggestedText: "Led a team"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, other.ID, v.ID)
	assert.ErrorIs(t, err, usecase.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, other.ID, v.ID), usecase.ErrForbidden)
	_, err = svc.Enhancements(ctx, other.ID, v.ID)
	assert.ErrorIs(t, err, usecase.ErrForbidden)
	_, err = svc.SetEnhancementStatus(ctx, other.ID, e.ID, StatusInput{Status: "applied"})
	assert.ErrorIs(t, err, usecase.ErrForbidden)
	assert.ErrorIs(t, svc.DeleteEnhancement(ctx, other.ID, e.ID), usecase.ErrForbidden)
}

func TestEnhancementLifecycle(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()
	owner := store.AddUser(user.RoleCandidate, "Cai")
	v, err := svc.Upload(ctx, owner.ID, UploadInput{}, pdf("cv.pdf"))
	require.NoError(t, err)

	e, err := svc.AddEnhancement(ctx, owner.ID, v.ID, EnhancementInput{Section: "skills", OriginalText: "Go", SuggestedText: "Go, Postgres"})
	require.NoError(t, err)
	assert.Equal(t, resume.EnhancementPending, e.Status)

	_, err = svc.SetEnhancementStatus(ctx, owner.ID, e.ID, StatusInput{Status: "bogus"})
	require.Error(t, err)

	e, err = svc.SetEnhancementStatus(ctx, owner.ID, e.ID, StatusInput{Status: "applied"})
	require.NoError(t, err)
	assert.Equal(t, resume.EnhancementApplied, e.Status)

	list, err := svc.Enhancements(ctx, owner.ID, v.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, resume.EnhancementApplied, list[0].Status)

	require.NoError(t, svc.DeleteEnhancement(ctx, owner.ID, e.ID))
	list, err = svc.Enhancements(ctx, owner.ID, v.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
