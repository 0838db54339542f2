// Package auth holds the demo login collaborator: a fixed credential check and
// the form model that drives it.
package auth

import (
	"crypto/subtle"
	"strings"

	"go.uber.org/zap"

	"github.com/Carmen-Shannon/oxy-starfield/common"
)

const (
	DemoUsername = "demo"
	DemoPassword = "password123"

	// ErrInvalidCredentials is the message shown for any mismatch.
	ErrInvalidCredentials = "Invalid username or password."

	DefaultSuccessDestination = "success.html"
)

// Authenticate reports whether username and password match the demo pair.
//
// Parameters:
//   - username: the submitted username, compared as given
//   - password: the submitted password
//
// Returns:
//   - bool: true on an exact match
func Authenticate(username, password string) bool {
	u := subtle.ConstantTimeCompare([]byte(username), []byte(DemoUsername))
	p := subtle.ConstantTimeCompare([]byte(password), []byte(DemoPassword))
	return u&p == 1
}

// Form is the login form state. Submit trims the username, checks the pair and
// either yields the success destination or sets the error and clears the
// password. There is no retry limit.
type Form struct {
	Username string
	Password string
	Error    string

	destination string
	logger      *zap.Logger
}

// FormBuilderOption configures a Form.
type FormBuilderOption func(*Form)

// WithSuccessDestination sets where a successful login navigates to.
func WithSuccessDestination(dest string) FormBuilderOption {
	return func(f *Form) {
		f.destination = common.Coalesce(dest, f.destination)
	}
}

// WithLogger sets the form's logger.
func WithLogger(logger *zap.Logger) FormBuilderOption {
	return func(f *Form) {
		f.logger = logger.Named("auth")
	}
}

// NewForm creates an empty form.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - *Form: the form
func NewForm(options ...FormBuilderOption) *Form {
	f := &Form{
		destination: DefaultSuccessDestination,
		logger:      zap.NewNop(),
	}
	for _, opt := range options {
		opt(f)
	}
	return f
}

// Destination returns the configured success destination.
func (f *Form) Destination() string {
	return f.destination
}

// Submit checks the current field values.
//
// Returns:
//   - string: the success destination, empty on failure
//   - bool: true if the credentials matched
func (f *Form) Submit() (string, bool) {
	username := strings.TrimSpace(f.Username)
	if Authenticate(username, f.Password) {
		f.Error = ""
		f.logger.Info("login succeeded", zap.String("username", username))
		return f.destination, true
	}
	f.Error = ErrInvalidCredentials
	f.Password = ""
	f.logger.Info("login rejected", zap.String("username", username))
	return "", false
}
