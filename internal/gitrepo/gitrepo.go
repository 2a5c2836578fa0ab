// Package gitrepo runs git CLI operations for the sync daemon's mirror
// repository. All operations shell out to the system git so user
// configuration, credential helpers, and hooks behave as usual.
package gitrepo

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// IsRepo reports whether dir is inside a git working tree.
func IsRepo(ctx context.Context, dir string) bool {
	out, err := runGit(ctx, dir, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

// Pull fetches and integrates remote changes.
func Pull(ctx context.Context, dir string) error {
	_, err := runGit(ctx, dir, "pull")
	return err
}

// CommitPush stages the given paths, commits them if anything is staged,
// and pushes. Committing with nothing staged is not an error.
func CommitPush(ctx context.Context, dir, message string, paths ...string) error {
	args := append([]string{"add", "--"}, paths...)
	if _, err := runGit(ctx, dir, args...); err != nil {
		return err
	}

	out, err := runGit(ctx, dir, "diff", "--cached", "--name-only")
	if err != nil {
		return err
	}
	if strings.TrimSpace(out) == "" {
		return nil
	}

	msg := strings.TrimSpace(message)
	if msg == "" {
		msg = fmt.Sprintf("hermes: sync (%s)", time.Now().UTC().Format(time.RFC3339))
	}
	if _, err := runGit(ctx, dir, "commit", "-m", msg); err != nil {
		return err
	}
	_, err = runGit(ctx, dir, "push")
	return err
}

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), msg)
	}
	return string(out), nil
}
