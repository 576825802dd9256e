package gateway

import (
	"errors"
	"fmt"
)

// AuthCode enumerates the auth failures the screens distinguish.
type AuthCode string

const (
	CodeUserNotFound        AuthCode = "user-not-found"
	CodeWrongPassword       AuthCode = "wrong-password"
	CodeInvalidEmail        AuthCode = "invalid-email"
	CodeTooManyRequests     AuthCode = "too-many-requests"
	CodeEmailAlreadyInUse   AuthCode = "email-already-in-use"
	CodeOperationNotAllowed AuthCode = "operation-not-allowed"
	CodeWeakPassword        AuthCode = "weak-password"
	CodeUnknown             AuthCode = "unknown"
)

// AuthError is returned by Auth.SignIn and Auth.SignUp.
type AuthError struct {
	Code AuthCode
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return "auth/" + string(e.Code)
	}
	return fmt.Sprintf("auth/%s: %v", e.Code, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// NewAuthError wraps err with code.
func NewAuthError(code AuthCode, err error) *AuthError {
	return &AuthError{Code: code, Err: err}
}

// AuthCodeOf extracts the code of an AuthError anywhere in err's chain.
// Other non-nil errors report CodeUnknown.
func AuthCodeOf(err error) AuthCode {
	if err == nil {
		return ""
	}
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

var (
	// ErrBlobsUnsupported is returned when a gateway has no blob storage.
	ErrBlobsUnsupported = errors.New("gateway: blob storage not configured")
	// ErrNotSignedIn is returned by writes attempted without a session.
	ErrNotSignedIn = errors.New("gateway: not signed in")
)
