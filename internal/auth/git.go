package auth

import (
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	"git.home.luguber.info/inful/exhibitpal/internal/config"
	"git.home.luguber.info/inful/exhibitpal/internal/foundation/errors"
)

// GitAuth creates transport credentials for the publish remote.
// Returns nil, nil when no credentials are configured.
func GitAuth(pc config.PublishConfig) (transport.AuthMethod, error) {
	switch {
	case pc.SSHKeyPath != "":
		keys, err := ssh.NewPublicKeysFromFile("git", pc.SSHKeyPath, "")
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryAuth, "failed to load ssh key").
				WithContext("path", pc.SSHKeyPath).
				Build()
		}
		return keys, nil
	case pc.Token != "":
		username := pc.Username
		if username == "" {
			// Most git hosts accept any non-empty username with a token.
			username = "token"
		}
		return &http.BasicAuth{Username: username, Password: pc.Token}, nil
	default:
		return nil, nil
	}
}
