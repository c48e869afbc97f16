package resolver

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
)

// Resolve takes an input (local file, local directory, or repository URL) and
// returns a local path ready for discovery, plus a cleanup function.
func Resolve(ctx context.Context, input string, logger *slog.Logger) (path string, cleanup func(), err error) {
	cleanup = func() {} // default no-op

	if isRepoURL(input) {
		return fetchRepo(ctx, input, logger)
	}

	absPath, err := filepath.Abs(input)
	if err != nil {
		return "", cleanup, fmt.Errorf("resolving path: %w", err)
	}

	if _, err := os.Stat(absPath); err != nil {
		return "", cleanup, fmt.Errorf("stat %s: %w", absPath, err)
	}

	logger.Info("resolved local path", "input", input, "path", absPath)
	return absPath, cleanup, nil
}

func isRepoURL(input string) bool {
	if !strings.HasPrefix(input, "http://") && !strings.HasPrefix(input, "https://") {
		return false
	}
	return strings.Contains(input, "github.com") ||
		strings.Contains(input, "gitlab.com") ||
		strings.Contains(input, "bitbucket.org") ||
		strings.HasSuffix(input, ".git")
}

// cacheDir returns a stable directory for caching a cloned repo.
// Uses ~/.cache/classdiag/repos/<hash> where hash is derived from the URL.
func cacheDir(url string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home dir: %w", err)
	}
	h := sha256.Sum256([]byte(strings.TrimSuffix(url, "/")))
	name := fmt.Sprintf("%x", h[:8])
	return filepath.Join(home, ".cache", "classdiag", "repos", name), nil
}

// fetchRepo either pulls an existing cached clone or does a fresh clone.
// Returns the clone directory and a no-op cleanup (cache is persistent).
func fetchRepo(ctx context.Context, url string, logger *slog.Logger) (string, func(), error) {
	noop := func() {}

	dir, err := cacheDir(url)
	if err != nil {
		return "", noop, err
	}

	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		return cloneRepo(ctx, url, dir, logger)
	}

	// Cached clone exists, pull latest
	logger.Info("updating cached repository", "url", url, "dir", dir)
	wt, err := repo.Worktree()
	if err != nil {
		logger.Warn("opening worktree failed, will re-clone", "error", err)
		_ = os.RemoveAll(dir)
		return cloneRepo(ctx, url, dir, logger)
	}
	err = wt.PullContext(ctx, &gogit.PullOptions{
		RemoteName:   "origin",
		Depth:        1,
		SingleBranch: true,
		Force:        true,
	})
	switch {
	case err == nil:
		logger.Info("repository updated", "dir", dir)
	case errors.Is(err, gogit.NoErrAlreadyUpToDate):
		logger.Debug("repository already up to date", "dir", dir)
	default:
		logger.Warn("pull failed, will re-clone", "error", err)
		_ = os.RemoveAll(dir)
		return cloneRepo(ctx, url, dir, logger)
	}

	return dir, noop, nil
}

func cloneRepo(ctx context.Context, url, dir string, logger *slog.Logger) (string, func(), error) {
	noop := func() {}

	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return "", noop, fmt.Errorf("creating cache dir: %w", err)
	}

	logger.Info("cloning repository", "url", url, "dest", dir)

	_, err := gogit.PlainCloneContext(ctx, dir, false, &gogit.CloneOptions{
		URL:          url,
		Depth:        1,
		SingleBranch: true,
	})
	if err != nil {
		_ = os.RemoveAll(dir)
		return "", noop, fmt.Errorf("git clone: %w", err)
	}

	logger.Info("clone complete", "dest", dir)
	return dir, noop, nil
}
