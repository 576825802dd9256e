package selfhost

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"chatroom/internal/common"
	"chatroom/internal/dbmysql"
	"chatroom/internal/gateway"
)

// AuthOptions tunes Auth.
type AuthOptions struct {
	// SignInPerMinute and SignInBurst bound sign-in attempts per email.
	SignInPerMinute int
	SignInBurst     int
	AllowSignUp     bool
}

// Auth is password auth over the MySQL users table with JWT session tokens.
type Auth struct {
	gateway.AuthState

	users  dbmysql.UserRepository
	tokens *common.TokenIssuer
	opts   AuthOptions
	log    *slog.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewAuth(users dbmysql.UserRepository, tokens *common.TokenIssuer, opts AuthOptions) *Auth {
	if opts.SignInPerMinute <= 0 {
		opts.SignInPerMinute = 5
	}
	if opts.SignInBurst <= 0 {
		opts.SignInBurst = opts.SignInPerMinute
	}
	return &Auth{
		users:    users,
		tokens:   tokens,
		opts:     opts,
		log:      slog.Default().With("component", "selfhost.auth"),
		limiters: make(map[string]*rate.Limiter),
	}
}

func (a *Auth) limiter(email string) *rate.Limiter {
	a.mu.Lock()
	defer a.mu.Unlock()

	l, ok := a.limiters[email]
	if !ok {
		every := time.Minute / time.Duration(a.opts.SignInPerMinute)
		l = rate.NewLimiter(rate.Every(every), a.opts.SignInBurst)
		a.limiters[email] = l
	}
	return l
}

func (a *Auth) SignIn(ctx context.Context, email, password string) (gateway.Identity, error) {
	if common.ValidateEmail(strings.TrimSpace(email)) != nil {
		return gateway.Identity{}, gateway.NewAuthError(gateway.CodeInvalidEmail, nil)
	}
	key := common.NormalizeEmail(email)

	if !a.limiter(key).Allow() {
		return gateway.Identity{}, gateway.NewAuthError(gateway.CodeTooManyRequests, nil)
	}

	user, err := a.users.GetUserByEmail(ctx, key)
	if errors.Is(err, dbmysql.ErrUserNotFound) {
		return gateway.Identity{}, gateway.NewAuthError(gateway.CodeUserNotFound, nil)
	}
	if err != nil {
		return gateway.Identity{}, gateway.NewAuthError(gateway.CodeUnknown, err)
	}
	if user.Status != "" && user.Status != dbmysql.UserStatusActive {
		return gateway.Identity{}, gateway.NewAuthError(gateway.CodeOperationNotAllowed, nil)
	}
	if err := common.CheckPassword(password, user.PasswordHash); err != nil {
		return gateway.Identity{}, gateway.NewAuthError(gateway.CodeWrongPassword, nil)
	}

	return a.establish(user)
}

func (a *Auth) SignUp(ctx context.Context, email, password string) (gateway.Identity, error) {
	if !a.opts.AllowSignUp {
		return gateway.Identity{}, gateway.NewAuthError(gateway.CodeOperationNotAllowed, nil)
	}
	if common.ValidateEmail(strings.TrimSpace(email)) != nil {
		return gateway.Identity{}, gateway.NewAuthError(gateway.CodeInvalidEmail, nil)
	}
	if err := common.ValidatePassword(password); err != nil {
		return gateway.Identity{}, gateway.NewAuthError(gateway.CodeWeakPassword, err)
	}

	hash, err := common.HashPassword(password)
	if err != nil {
		return gateway.Identity{}, gateway.NewAuthError(gateway.CodeUnknown, err)
	}

	user := &dbmysql.User{
		UserID:       uuid.NewString(),
		Email:        common.NormalizeEmail(email),
		PasswordHash: hash,
		Status:       dbmysql.UserStatusActive,
	}
	err = a.users.CreateUser(ctx, user)
	if errors.Is(err, dbmysql.ErrEmailTaken) {
		return gateway.Identity{}, gateway.NewAuthError(gateway.CodeEmailAlreadyInUse, nil)
	}
	if err != nil {
		return gateway.Identity{}, gateway.NewAuthError(gateway.CodeUnknown, err)
	}

	a.log.Info("user registered", "user_id", user.UserID)
	return a.establish(user)
}

func (a *Auth) establish(user *dbmysql.User) (gateway.Identity, error) {
	token, err := a.tokens.GenerateToken(user.UserID, user.Email)
	if err != nil {
		return gateway.Identity{}, gateway.NewAuthError(gateway.CodeUnknown, err)
	}
	id := gateway.Identity{UID: user.UserID, Email: user.Email, Token: token}
	a.Set(&id)
	return id, nil
}

// Resume restores a session from a token issued earlier.
func (a *Auth) Resume(ctx context.Context, token string) (gateway.Identity, error) {
	claims, err := a.tokens.ValidToken(token)
	if err != nil {
		return gateway.Identity{}, gateway.NewAuthError(gateway.CodeUnknown, err)
	}
	user, err := a.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return gateway.Identity{}, gateway.NewAuthError(gateway.CodeUserNotFound, err)
	}
	id := gateway.Identity{UID: user.UserID, Email: user.Email, Token: token}
	a.Set(&id)
	return id, nil
}

func (a *Auth) SignOut(ctx context.Context) error {
	a.Set(nil)
	return nil
}
