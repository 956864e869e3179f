// Package publish commits the generated site into a git repository and
// optionally pushes it to a remote.
package publish

import (
	"context"
	stderrors "errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	gitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"

	"git.home.luguber.info/inful/exhibitpal/internal/auth"
	"git.home.luguber.info/inful/exhibitpal/internal/config"
	"git.home.luguber.info/inful/exhibitpal/internal/foundation/errors"
	"git.home.luguber.info/inful/exhibitpal/internal/logfields"
)

const remoteName = "origin"

// Result describes a publish.
type Result struct {
	Commit  string
	Changed bool
	Pushed  bool
}

// Publisher mirrors a site directory into a git work tree.
type Publisher struct {
	cfg    config.PublishConfig
	auth   transport.AuthMethod
	logger *slog.Logger
	now    func() time.Time
}

// NewPublisher resolves credentials from cfg.
func NewPublisher(cfg config.PublishConfig, logger *slog.Logger) (*Publisher, error) {
	if cfg.RepoDir == "" {
		return nil, errors.ConfigError("publish.repo_dir is required").Build()
	}
	am, err := auth.GitAuth(cfg)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{cfg: cfg, auth: am, logger: logger, now: time.Now}, nil
}

// Publish replaces the work tree contents with siteDir, commits any change and pushes when configured.
func (p *Publisher) Publish(ctx context.Context, siteDir, message string) (*Result, error) {
	repo, err := p.openRepository(ctx)
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, ClassifyGitError(err, "worktree", p.cfg.RepoDir)
	}

	if err := mirror(siteDir, p.cfg.RepoDir); err != nil {
		return nil, err
	}

	status, err := wt.Status()
	if err != nil {
		return nil, ClassifyGitError(err, "status", p.cfg.RepoDir)
	}
	res := &Result{}
	if status.IsClean() {
		p.logger.InfoContext(ctx, "Published site unchanged; nothing to commit", logfields.Path(p.cfg.RepoDir))
		if head, err := repo.Head(); err == nil {
			res.Commit = head.Hash().String()
		}
		return res, nil
	}

	for path, st := range status {
		if st.Worktree == git.Deleted {
			_, err = wt.Remove(path)
		} else {
			_, err = wt.Add(path)
		}
		if err != nil {
			return nil, ClassifyGitError(err, "add", path)
		}
	}

	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: p.cfg.AuthorName, Email: p.cfg.AuthorEmail, When: p.now()},
	})
	if err != nil {
		return nil, ClassifyGitError(err, "commit", p.cfg.RepoDir)
	}
	res.Commit = hash.String()
	res.Changed = true
	p.logger.InfoContext(ctx, "Committed site", slog.String("commit", res.Commit), logfields.Count(len(status)))

	if p.cfg.Push && p.cfg.RemoteURL != "" {
		branch := plumbing.NewBranchReferenceName(p.branch())
		err := repo.PushContext(ctx, &git.PushOptions{
			RemoteName: remoteName,
			Auth:       p.auth,
			RefSpecs:   []gitcfg.RefSpec{gitcfg.RefSpec(branch + ":" + branch)},
		})
		if err != nil && !stderrors.Is(err, git.NoErrAlreadyUpToDate) {
			return nil, ClassifyGitError(err, "push", p.cfg.RemoteURL)
		}
		res.Pushed = true
		p.logger.InfoContext(ctx, "Pushed site", logfields.URL(p.cfg.RemoteURL), slog.String("branch", p.branch()))
	}
	return res, nil
}

func (p *Publisher) branch() string {
	if p.cfg.Branch == "" {
		return "main"
	}
	return p.cfg.Branch
}

// openRepository opens RepoDir, cloning or initializing it on first use.
func (p *Publisher) openRepository(ctx context.Context) (*git.Repository, error) {
	repo, err := git.PlainOpen(p.cfg.RepoDir)
	if err == nil {
		return repo, nil
	}
	if !stderrors.Is(err, git.ErrRepositoryNotExists) {
		return nil, ClassifyGitError(err, "open", p.cfg.RepoDir)
	}

	branch := plumbing.NewBranchReferenceName(p.branch())
	if p.cfg.RemoteURL != "" {
		repo, err = git.PlainCloneContext(ctx, p.cfg.RepoDir, false, &git.CloneOptions{
			URL:           p.cfg.RemoteURL,
			Auth:          p.auth,
			ReferenceName: branch,
			SingleBranch:  true,
		})
		if err == nil {
			return repo, nil
		}
		if !stderrors.Is(err, transport.ErrEmptyRemoteRepository) && !stderrors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, ClassifyGitError(err, "clone", p.cfg.RemoteURL)
		}
		_ = os.RemoveAll(p.cfg.RepoDir)
	}

	repo, err = git.PlainInit(p.cfg.RepoDir, false)
	if err != nil {
		return nil, ClassifyGitError(err, "init", p.cfg.RepoDir)
	}
	if err := repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, branch)); err != nil {
		return nil, ClassifyGitError(err, "init", p.cfg.RepoDir)
	}
	if p.cfg.RemoteURL != "" {
		if _, err := repo.CreateRemote(&gitcfg.RemoteConfig{Name: remoteName, URLs: []string{p.cfg.RemoteURL}}); err != nil {
			return nil, ClassifyGitError(err, "remote", p.cfg.RemoteURL)
		}
	}
	return repo, nil
}

// mirror makes dst contain exactly the files of src, leaving dst/.git alone.
func mirror(src, dst string) error {
	entries, err := os.ReadDir(dst)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to read publish directory").
			WithContext("path", dst).
			Build()
	}
	for _, e := range entries {
		if e.Name() == git.GitDirName {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dst, e.Name())); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to clear publish directory").
				WithContext("path", dst).
				Build()
		}
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o750)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to open site file").
			WithContext("path", src).
			Build()
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(filepath.Clean(dst))
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create publish file").
			WithContext("path", dst).
			Build()
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to copy site file").
			WithContext("path", dst).
			Build()
	}
	return out.Close()
}
