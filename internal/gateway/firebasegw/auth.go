package firebasegw

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"

	"chatroom/internal/gateway"
)

// Auth signs users in with the Identity Toolkit password endpoints, the same
// ones the Firebase web SDK calls.
type Auth struct {
	gateway.AuthState

	rp *identitytoolkit.RelyingpartyService
}

func NewAuth(svc *identitytoolkit.Service) *Auth {
	return &Auth{rp: svc.Relyingparty}
}

func (a *Auth) SignIn(ctx context.Context, email, password string) (gateway.Identity, error) {
	resp, err := a.rp.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             strings.TrimSpace(email),
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return gateway.Identity{}, authError(err)
	}

	id := gateway.Identity{UID: resp.LocalId, Email: resp.Email, Token: resp.IdToken}
	a.Set(&id)
	return id, nil
}

func (a *Auth) SignUp(ctx context.Context, email, password string) (gateway.Identity, error) {
	resp, err := a.rp.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:    strings.TrimSpace(email),
		Password: password,
	}).Context(ctx).Do()
	if err != nil {
		return gateway.Identity{}, authError(err)
	}

	id := gateway.Identity{UID: resp.LocalId, Email: resp.Email, Token: resp.IdToken}
	a.Set(&id)
	return id, nil
}

// SignOut only forgets the local session; ID tokens expire on their own.
func (a *Auth) SignOut(ctx context.Context) error {
	a.Set(nil)
	return nil
}

func authError(err error) *gateway.AuthError {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return gateway.NewAuthError(gateway.CodeUnknown, err)
	}

	reason := gerr.Message
	if reason == "" && len(gerr.Errors) > 0 {
		reason = gerr.Errors[0].Message
	}
	return gateway.NewAuthError(codeForReason(reason), err)
}

// codeForReason maps Identity Toolkit error messages, e.g.
// "WEAK_PASSWORD : Password should be at least 6 characters".
func codeForReason(reason string) gateway.AuthCode {
	reason = strings.TrimSpace(reason)
	if i := strings.IndexAny(reason, " :"); i > 0 {
		reason = reason[:i]
	}

	switch reason {
	case "EMAIL_NOT_FOUND":
		return gateway.CodeUserNotFound
	case "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS":
		return gateway.CodeWrongPassword
	case "INVALID_EMAIL", "MISSING_EMAIL":
		return gateway.CodeInvalidEmail
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return gateway.CodeTooManyRequests
	case "EMAIL_EXISTS":
		return gateway.CodeEmailAlreadyInUse
	case "OPERATION_NOT_ALLOWED", "ADMIN_ONLY_OPERATION":
		return gateway.CodeOperationNotAllowed
	case "WEAK_PASSWORD":
		return gateway.CodeWeakPassword
	default:
		return gateway.CodeUnknown
	}
}
