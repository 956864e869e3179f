package publish

import (
	"strings"

	"git.home.luguber.info/inful/exhibitpal/internal/foundation/errors"
)

// ClassifyGitError translates go-git errors into ClassifiedErrors.
func ClassifyGitError(err error, op string, url string) error {
	if err == nil {
		return nil
	}

	if _, ok := errors.AsClassified(err); ok {
		return err
	}

	l := strings.ToLower(err.Error())

	builder := errors.GitError("git operation failed").
		WithCause(err).
		WithContext("op", op).
		WithContext("url", url)

	switch {
	case strings.Contains(l, "authentication") || strings.Contains(l, "not authorized") || strings.Contains(l, "invalid credentials"):
		builder.WithCategory(errors.CategoryAuth).UserAction()
	case strings.Contains(l, "repository not found") || strings.Contains(l, "does not exist"):
		builder.WithCategory(errors.CategoryNotFound).WithRetry(errors.RetryNever)
	case strings.Contains(l, "remote hung up") || strings.Contains(l, "connection reset") || strings.Contains(l, "timeout") || strings.Contains(l, "no route to host"):
		builder.WithCategory(errors.CategoryNetwork).Retryable()
	case strings.Contains(l, "non-fast-forward"):
		builder.WithContext("diverged", true).WithRetry(errors.RetryNever)
	}

	return builder.Build()
}
