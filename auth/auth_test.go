package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		want     bool
	}{
		{"demo pair", "demo", "password123", true},
		{"wrong password", "demo", "password", false},
		{"wrong user", "admin", "password123", false},
		{"case matters", "Demo", "password123", false},
		{"untrimmed user", " demo", "password123", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Authenticate(tt.username, tt.password))
		})
	}
}

func TestForm_SubmitSuccess(t *testing.T) {
	f := NewForm(WithSuccessDestination("welcome.html"))
	f.Username = "  demo\t"
	f.Password = "password123"
	f.Error = "stale"

	dest, ok := f.Submit()
	assert.True(t, ok)
	assert.Equal(t, "welcome.html", dest)
	assert.Empty(t, f.Error)
	assert.Equal(t, "password123", f.Password)
}

func TestForm_SubmitFailureClearsPassword(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	f := NewForm(WithLogger(zap.New(core)))
	f.Username = "demo"
	f.Password = "nope"

	for range 3 {
		dest, ok := f.Submit()
		assert.False(t, ok)
		assert.Empty(t, dest)
		assert.Equal(t, ErrInvalidCredentials, f.Error)
		assert.Empty(t, f.Password)
	}
	assert.Equal(t, 3, logs.FilterMessage("login rejected").Len())

	// no lockout after repeated failures
	f.Password = "password123"
	dest, ok := f.Submit()
	assert.True(t, ok)
	assert.Equal(t, DefaultSuccessDestination, dest)
}

func TestWithSuccessDestination_IgnoresEmpty(t *testing.T) {
	assert.Equal(t, DefaultSuccessDestination, NewForm(WithSuccessDestination("")).Destination())
}
