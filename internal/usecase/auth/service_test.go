package auth

import (
	"context"
	"testing"
	"time"

	"jobboard/internal/domain/user"
	"jobboard/internal/pkg/jwt"
	"jobboard/internal/pkg/validate"
	"jobboard/internal/repository/memory"
	"jobboard/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() (*Service, *memory.Store) {
	store := memory.NewStore()
	return NewService(store.Users(), jwt.NewHMACService("a", "r", time.Minute, time.Hour)), store
}

func TestRegister(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()

	sess, err := svc.Register(ctx, RegisterInput{Email: "  Ann@Example.com ", Password: "password1", FullName: "Ann", Role: "candidate"})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", sess.User.Email)
	assert.Empty(t, sess.User.PasswordHash)
	assert.NotEmpty(t, sess.AccessToken)
	assert.NotEmpty(t, sess.RefreshToken)

	_, err = store.Users().GetProfile(ctx, sess.User.ID)
	assert.NoError(t, err, "candidates get an empty profile")

	_, err = svc.Register(ctx, RegisterInput{Email: "ann@example.com", Password: "password1", FullName: "Ann", Role: "manager"})
	assert.ErrorIs(t, err, usecase.ErrConflict)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newService()
	_, err := svc.Register(context.Background(), RegisterInput{Email: "x", Password: "short", FullName: "", Role: "admin"})

	var fe validate.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "email")
	assert.Contains(t, fe, "password")
	assert.Contains(t, fe, "full_name")
	assert.Contains(t, fe, "role")
}

func TestLogin(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()
	sess, err := svc.Register(ctx, RegisterInput{Email: "m@example.com", Password: "password1", FullName: "M", Role: "manager"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "ok", email: "M@example.com", password: "password1"},
		{name: "wrong password", email: "m@example.com", password: "nope", wantErr: usecase.ErrUnauthorized},
		{name: "unknown email", email: "x@example.com", password: "password1", wantErr: usecase.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Login(ctx, LoginInput{Email: tt.email, Password: tt.password})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user.RoleManager, got.User.Role)
		})
	}

	u, err := store.Users().GetUserByID(ctx, sess.User.ID)
	require.NoError(t, err)
	u.IsActive = false
	require.NoError(t, store.Users().UpdateUser(ctx, u))
	_, err = svc.Login(ctx, LoginInput{Email: "m@example.com", Password: "password1"})
	assert.ErrorIs(t, err, usecase.ErrUnauthorized)
}

func TestRefresh(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	sess, err := svc.Register(ctx, RegisterInput{Email: "c@example.com", Password: "password1", FullName: "C", Role: "candidate"})
	require.NoError(t, err)

	next, err := svc.Refresh(ctx, sess.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, next.AccessToken)

	_, err = svc.Refresh(ctx, sess.AccessToken)
	assert.ErrorIs(t, err, usecase.ErrUnauthorized)
}
