package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"chatroom/internal/gateway"
	"chatroom/internal/login"
)

type credentials struct {
	Email    string
	Password string
}

// resumer is implemented by gateways that can restore a saved session token.
type resumer interface {
	Resume(ctx context.Context, token string) (gateway.Identity, error)
}

var askOne = survey.AskOne

func resume(ctx context.Context, auth gateway.Auth, token string) (gateway.Identity, error) {
	r, ok := auth.(resumer)
	if !ok {
		return gateway.Identity{}, errors.New("this backend does not support --token")
	}
	id, err := r.Resume(ctx, token)
	if err != nil {
		return gateway.Identity{}, fmt.Errorf("resume session: %w", err)
	}
	return id, nil
}

// promptMissing asks for whatever the flags left out.
func promptMissing(c *credentials) error {
	if strings.TrimSpace(c.Email) == "" {
		if err := askOne(&survey.Input{Message: "Email:"}, &c.Email, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}
	if c.Password == "" {
		if err := askOne(&survey.Password{Message: "Password:"}, &c.Password, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}
	return nil
}

// signIn goes through the same form the interactive client uses, so failures
// read the same.
func signIn(ctx context.Context, auth gateway.Auth, token string, c credentials) (gateway.Identity, error) {
	if token != "" {
		return resume(ctx, auth, token)
	}
	if err := promptMissing(&c); err != nil {
		return gateway.Identity{}, err
	}

	form := login.NewForm(auth)
	form.SetEmail(c.Email)
	form.SetPassword(c.Password)

	res := form.SignIn(ctx)
	if res.Error != "" {
		return gateway.Identity{}, errors.New(res.Error)
	}
	return *res.Identity, nil
}
