package telegram

import (
	"context"
	"errors"

	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"

	"github.com/avolkoff/tgScout/internal/prompt"
)

// promptAuth feeds the login flow from the config and the secret prompt.
// A cancelled prompt yields an empty value, which makes the attempt fail
// cleanly instead of hanging or crashing.
type promptAuth struct {
	phone    string
	prompter prompt.Prompter
}

func (a promptAuth) Phone(ctx context.Context) (string, error) {
	return a.phone, nil
}

func (a promptAuth) Code(ctx context.Context, sentCode *tg.AuthSentCode) (string, error) {
	code, _ := a.prompter.Ask("verification code")
	return code, nil
}

func (a promptAuth) Password(ctx context.Context) (string, error) {
	password, ok := a.prompter.Ask("password")
	if !ok || password == "" {
		return "", auth.ErrPasswordNotProvided
	}
	return password, nil
}

func (a promptAuth) AcceptTermsOfService(ctx context.Context, tos tg.HelpTermsOfService) error {
	return nil
}

func (a promptAuth) SignUp(ctx context.Context) (auth.UserInfo, error) {
	return auth.UserInfo{}, errors.New("sign up through this client is not supported")
}
