// Package auth builds credentials for the Google APIs and for the git remote
// that receives the generated site.
package auth

import (
	"context"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"git.home.luguber.info/inful/exhibitpal/internal/config"
	"git.home.luguber.info/inful/exhibitpal/internal/foundation/errors"
)

// Google API scopes requested with the refresh token.
const (
	ScopeSheetsReadOnly = "https://www.googleapis.com/auth/spreadsheets.readonly"
	ScopeDriveReadOnly  = "https://www.googleapis.com/auth/drive.readonly"
)

// GoogleTokenSource returns a refreshing token source for the configured OAuth client.
func GoogleTokenSource(ctx context.Context, gc config.GoogleConfig) (oauth2.TokenSource, error) {
	if gc.ClientID == "" || gc.ClientSecret == "" || gc.RefreshToken == "" {
		return nil, errors.AuthError("google oauth requires client_id, client_secret and refresh_token").Build()
	}
	tokenURL := gc.TokenURL
	if tokenURL == "" {
		tokenURL = config.DefaultTokenURL
	}
	conf := &oauth2.Config{
		ClientID:     gc.ClientID,
		ClientSecret: gc.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: tokenURL, AuthStyle: oauth2.AuthStyleInParams},
		Scopes:       []string{ScopeSheetsReadOnly, ScopeDriveReadOnly},
	}
	return oauth2.ReuseTokenSource(nil, conf.TokenSource(ctx, &oauth2.Token{RefreshToken: gc.RefreshToken})), nil
}

// GoogleClientOptions returns the API client options carrying the token source.
func GoogleClientOptions(ctx context.Context, gc config.GoogleConfig) ([]option.ClientOption, error) {
	ts, err := GoogleTokenSource(ctx, gc)
	if err != nil {
		return nil, err
	}
	return []option.ClientOption{option.WithTokenSource(ts)}, nil
}
