package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"full_name" validate:"notblank"`
	Role     string `json:"role" validate:"omitempty,oneof=candidate manager"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name string
		in   signup
		want FieldErrors
	}{
		{
			name: "valid",
			in:   signup{Email: "a@b.io", Password: "secret123", Name: "Ann", Role: "manager"},
		},
		{
			name: "keys use json names",
			in:   signup{Email: "nope", Password: "short", Name: "   ", Role: "admin"},
			want: FieldErrors{
				"email":     "must be a valid email address",
				"password":  "must be at least 8 characters",
				"full_name": "is required",
				"role":      "must be one of: candidate, manager",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			var fe FieldErrors
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.want, fe)
		})
	}
}
