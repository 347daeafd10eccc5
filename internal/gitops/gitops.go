package gitops

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Init initializes a new git repository at dir.
func Init(dir string) error {
	cmd := exec.Command("git", "init", "--quiet")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git init: %s: %w", out, err)
	}
	return nil
}

// IsRepo reports whether dir is inside a git work tree.
func IsRepo(dir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = dir
	out, err := cmd.Output()
	return err == nil && strings.TrimSpace(string(out)) == "true"
}

// CommitAll stages all files and creates a commit. Returns the short commit hash.
func CommitAll(dir, message, authorName, authorEmail string) (string, error) {
	if err := run(dir, authorName, authorEmail, "add", "-A"); err != nil {
		return "", err
	}
	return commit(dir, message, authorName, authorEmail)
}

// CommitFile stages a single file and commits it. It returns "" without
// error when the file has no staged changes.
func CommitFile(dir, file, message, authorName, authorEmail string) (string, error) {
	if err := run(dir, authorName, authorEmail, "add", "--", file); err != nil {
		return "", err
	}

	diff := exec.Command("git", "diff", "--cached", "--quiet", "--", file)
	diff.Dir = dir
	err := diff.Run()
	if err == nil {
		return "", nil
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 1 {
		return "", fmt.Errorf("git diff: %w", err)
	}

	return commit(dir, message, authorName, authorEmail, "--", file)
}

func commit(dir, message, authorName, authorEmail string, extra ...string) (string, error) {
	args := append([]string{"commit", "--quiet", "-m", message}, extra...)
	if err := run(dir, authorName, authorEmail, args...); err != nil {
		return "", err
	}

	rev := exec.Command("git", "rev-parse", "--short", "HEAD")
	rev.Dir = dir
	out, err := rev.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// run executes a git subcommand with author and committer set to the
// given identity, so commits work without a global git config.
func run(dir, authorName, authorEmail string, args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME="+authorName,
		"GIT_AUTHOR_EMAIL="+authorEmail,
		"GIT_COMMITTER_NAME="+authorName,
		"GIT_COMMITTER_EMAIL="+authorEmail,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(string(out)), err)
	}
	return nil
}
