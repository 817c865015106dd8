package cli

import (
	"context"
	"errors"
	"fmt"

	"nearbuy-chat/internal/api"
	"nearbuy-chat/internal/models"
)

var errNotLoggedIn = errors.New("not logged in: run `chatcli login` and export NEARBUY_TOKEN")

// session is an authenticated API client plus the user it acts as.
type session struct {
	api *api.Client
	me  *models.PublicUser
}

func newSession(ctx context.Context, opts *RootOptions) (*session, error) {
	client := api.New(opts.cfg)
	if client.Token() == "" {
		return nil, errNotLoggedIn
	}
	me, err := client.Me(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("resolve current user: %w", err)
	}
	return &session{api: client, me: me}, nil
}

func (s *session) Close() {
	s.api.Close()
}
