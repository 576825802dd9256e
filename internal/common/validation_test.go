package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid", email: "a@x.com", password: "secret1"},
		{name: "empty email", email: "  ", password: "secret1", wantErr: ErrCredentialsRequired},
		{name: "blank password", email: "a@x.com", password: "      ", wantErr: ErrCredentialsRequired},
		{name: "no at sign", email: "ax.com", password: "secret1", wantErr: ErrInvalidEmail},
		{name: "no tld", email: "a@x", password: "secret1", wantErr: ErrInvalidEmail},
		{name: "inner space", email: "a b@x.com", password: "secret1", wantErr: ErrInvalidEmail},
		{name: "short password", email: "a@x.com", password: "12345", wantErr: ErrPasswordTooShort},
		{name: "long password", email: "a@x.com", password: strings.Repeat("p", 101), wantErr: ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCredentials(tt.email, tt.password)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM "))
}
