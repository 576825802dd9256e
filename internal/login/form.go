// Package login holds the auth screen's state and its mapping from gateway
// auth failures to user-facing messages.
package login

import (
	"context"
	"log/slog"
	"sync"

	"chatroom/internal/gateway"
	"chatroom/internal/metrics"
)

// Notice is a modal confirmation, shown after a successful registration.
type Notice struct {
	Title  string
	Detail string
}

// Result is the outcome of one submit.
type Result struct {
	Identity *gateway.Identity
	// Error is the inline message, empty on success.
	Error  string
	Notice *Notice
	// Busy is set when a previous submit was still running and nothing was sent.
	Busy bool
}

// Form is the credential form. Email and Password are read at submit time.
type Form struct {
	auth gateway.Auth
	log  *slog.Logger

	mu          sync.Mutex
	email       string
	password    string
	errMsg      string
	loading     bool
	registering bool
}

func NewForm(auth gateway.Auth) *Form {
	return &Form{auth: auth, log: slog.Default().With("component", "login")}
}

// SetEmail updates the email and clears the inline error, as typing does.
func (f *Form) SetEmail(email string) {
	f.mu.Lock()
	f.email = email
	f.errMsg = ""
	f.mu.Unlock()
}

func (f *Form) SetPassword(password string) {
	f.mu.Lock()
	f.password = password
	f.errMsg = ""
	f.mu.Unlock()
}

func (f *Form) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

func (f *Form) Password() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.password
}

// Error is the inline message currently shown.
func (f *Form) Error() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

func (f *Form) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

func (f *Form) Registering() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registering
}

// begin validates and marks the form busy. ok is false when the submit must stop.
func (f *Form) begin(registering bool) (email, password string, res Result, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loading {
		return "", "", Result{Busy: true}, false
	}
	if msg := ValidationMessage(f.email, f.password); msg != "" {
		f.errMsg = msg
		return "", "", Result{Error: msg}, false
	}
	f.loading = true
	f.registering = registering
	f.errMsg = ""
	return f.email, f.password, Result{}, true
}

// SignIn submits the form as a login.
func (f *Form) SignIn(ctx context.Context) Result {
	email, password, res, ok := f.begin(false)
	if !ok {
		return res
	}

	id, err := f.auth.SignIn(ctx, email, password)
	metrics.AuthAttempts.WithLabelValues("sign_in", codeLabel(err)).Inc()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
	if err != nil {
		f.log.Warn("sign in failed", "err", err)
		f.errMsg = SignInMessage(err)
		return Result{Error: f.errMsg}
	}
	return Result{Identity: &id}
}

// SignUp submits the form as a registration. On success the password is
// cleared and a Notice is returned.
func (f *Form) SignUp(ctx context.Context) Result {
	email, password, res, ok := f.begin(true)
	if !ok {
		return res
	}

	id, err := f.auth.SignUp(ctx, email, password)
	metrics.AuthAttempts.WithLabelValues("sign_up", codeLabel(err)).Inc()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
	f.registering = false
	if err != nil {
		f.log.Warn("sign up failed", "err", err)
		f.errMsg = SignUpMessage(err)
		return Result{Error: f.errMsg}
	}

	f.log.Info("user registered", "email", id.Email)
	f.password = ""
	return Result{
		Identity: &id,
		Notice:   &Notice{Title: MsgSignUpSuccessTitle, Detail: MsgSignUpSuccessDetail},
	}
}

func codeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return string(gateway.AuthCodeOf(err))
}
