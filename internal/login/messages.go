package login

import (
	"errors"

	"chatroom/internal/common"
	"chatroom/internal/gateway"
)

// User-facing texts shown by the auth screen.
const (
	MsgCredentialsRequired = "Email dan password harus diisi"
	MsgInvalidEmailFormat  = "Format email tidak valid"
	MsgPasswordTooShort    = "Password minimal 6 karakter"
	MsgPasswordTooLong     = "Password maksimal 100 karakter"

	MsgUserNotFound    = "Email tidak ditemukan"
	MsgWrongPassword   = "Password salah"
	MsgInvalidEmail    = "Email tidak valid"
	MsgTooManyRequests = "Terlalu banyak percobaan gagal. Coba lagi nanti"
	MsgSignInFailed    = "Login gagal. Cek koneksi internet"

	MsgEmailInUse          = "Email sudah terdaftar"
	MsgSignUpDisabled      = "Registrasi dinonaktifkan. Hubungi admin"
	MsgWeakPassword        = "Password terlalu lemah. Minimal 6 karakter"
	MsgSignUpFailed        = "Registrasi gagal. Cek koneksi internet"
	MsgSignUpSuccessTitle  = "Registrasi Berhasil!"
	MsgSignUpSuccessDetail = "Akun Anda telah berhasil dibuat. Silakan login."
)

// ValidationMessage returns the message for a credential check failure, or
// "" when the input may be sent to the gateway.
func ValidationMessage(email, password string) string {
	err := common.ValidateCredentials(email, password)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, common.ErrCredentialsRequired):
		return MsgCredentialsRequired
	case errors.Is(err, common.ErrInvalidEmail):
		return MsgInvalidEmailFormat
	case errors.Is(err, common.ErrPasswordTooShort):
		return MsgPasswordTooShort
	case errors.Is(err, common.ErrPasswordTooLong):
		return MsgPasswordTooLong
	default:
		return MsgCredentialsRequired
	}
}

// SignInMessage maps a SignIn failure to its screen text.
func SignInMessage(err error) string {
	switch gateway.AuthCodeOf(err) {
	case gateway.CodeUserNotFound:
		return MsgUserNotFound
	case gateway.CodeWrongPassword:
		return MsgWrongPassword
	case gateway.CodeInvalidEmail:
		return MsgInvalidEmail
	case gateway.CodeTooManyRequests:
		return MsgTooManyRequests
	default:
		return MsgSignInFailed
	}
}

// SignUpMessage maps a SignUp failure to its screen text.
func SignUpMessage(err error) string {
	switch gateway.AuthCodeOf(err) {
	case gateway.CodeEmailAlreadyInUse:
		return MsgEmailInUse
	case gateway.CodeInvalidEmail:
		return MsgInvalidEmail
	case gateway.CodeOperationNotAllowed:
		return MsgSignUpDisabled
	case gateway.CodeWeakPassword:
		return MsgWeakPassword
	default:
		return MsgSignUpFailed
	}
}
