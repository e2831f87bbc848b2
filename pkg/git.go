package autoversion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrGitUnavailable is returned when the git binary cannot be run.
var ErrGitUnavailable = errors.New("git is not available on the system")

// CommitSource yields the full message of the most recent commit.
type CommitSource interface {
	LatestMessage(ctx context.Context) (string, error)
}

// MessageFunc adapts a plain function to CommitSource.
type MessageFunc func(ctx context.Context) (string, error)

// LatestMessage calls f.
func (f MessageFunc) LatestMessage(ctx context.Context) (string, error) { return f(ctx) }

// StaticMessage is a CommitSource that always returns the same message.
type StaticMessage string

// LatestMessage returns m.
func (m StaticMessage) LatestMessage(context.Context) (string, error) { return string(m), nil }

// GitLog reads the latest commit message from the repository at Dir.
type GitLog struct {
	Dir string
}

// LatestMessage runs `git log -1 --pretty=%B`.
func (g GitLog) LatestMessage(ctx context.Context) (string, error) {
	out, err := runGit(ctx, g.Dir, "log", "-1", "--pretty=%B")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// CommitOptions controls CommitVersion.
type CommitOptions struct {
	// Tag additionally creates an annotated "v<version>" tag, so that
	// `git push --follow-tags` publishes it.
	Tag bool
	// Message overrides the default commit message. It should keep a loop-guard
	// phrase, otherwise the commit will trigger another bump.
	Message string
}

// CommitMessage is the default message for a version commit. It is recognised by ShouldSkip.
func CommitMessage(v Version) string {
	return fmt.Sprintf("chore: auto-increment version to %s [skip ci]", v)
}

// CommitVersion stages the version file, commits it and optionally tags the commit.
// It refuses to run when other files in the working tree are modified.
func CommitVersion(ctx context.Context, dir, versionFile string, v Version, opts CommitOptions) error {
	if err := checkGit(ctx); err != nil {
		return err
	}
	if err := checkUncommittedFiles(ctx, dir, []string{versionFile}); err != nil {
		return err
	}

	if _, err := runGit(ctx, dir, "add", "--", versionFile); err != nil {
		return fmt.Errorf("git add failed: %w", err)
	}

	msg := opts.Message
	if msg == "" {
		msg = CommitMessage(v)
	}
	if _, err := runGit(ctx, dir, "commit", "-m", msg); err != nil {
		return fmt.Errorf("git commit failed: %w", err)
	}

	if opts.Tag {
		name := "v" + v.String()
		if _, err := runGit(ctx, dir, "tag", "-a", name, "-m", name); err != nil {
			return fmt.Errorf("git tag failed: %w", err)
		}
	}
	return nil
}

// checkGit verifies that git is available on the system.
func checkGit(ctx context.Context) error {
	if err := exec.CommandContext(ctx, "git", "--version").Run(); err != nil {
		return ErrGitUnavailable
	}
	return nil
}

// checkUncommittedFiles ensures only allowed files are modified in the working tree.
func checkUncommittedFiles(ctx context.Context, dir string, allowed []string) error {
	root, err := runGit(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return fmt.Errorf("failed to locate repository root: %w", err)
	}
	root = strings.TrimSpace(root)

	out, err := runGit(ctx, dir, "status", "--porcelain")
	if err != nil {
		return fmt.Errorf("failed to check git status: %w", err)
	}

	allowedSet := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		if !filepath.IsAbs(f) && dir != "" {
			f = filepath.Join(dir, f)
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("failed to resolve path %q: %w", f, err)
		}
		allowedSet[canonicalPath(abs)] = struct{}{}
	}

	var disallowed []string
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}
		path := strings.TrimSpace(line[3:])
		abs := canonicalPath(filepath.Join(root, path))
		if _, ok := allowedSet[abs]; !ok {
			disallowed = append(disallowed, path)
		}
	}

	if len(disallowed) > 0 {
		return fmt.Errorf("working directory is dirty; uncommitted files not included in commit: %v", disallowed)
	}
	return nil
}

// canonicalPath resolves symlinks where possible so that paths reported by
// git compare equal to paths built from the working directory.
func canonicalPath(p string) string {
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		return resolved
	}
	if dirResolved, err := filepath.EvalSymlinks(filepath.Dir(p)); err == nil {
		return filepath.Join(dirResolved, filepath.Base(p))
	}
	return p
}

// runGit executes git in dir and returns stdout.
func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %v, detail: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
