// Package remote resolves repository locators that point at remote hosts and
// clones them into temporary directories.
package remote

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Source represents a remote repository to analyze.
type Source struct {
	URL      string // normalized git URL
	Ref      string // branch or tag (empty = default branch)
	CloneDir string // temp directory after clone
}

// Parse detects if a locator is a remote reference.
// Returns nil if the locator exists on the filesystem (local paths take precedence)
// or does not look remote.
func Parse(locator string) (*Source, error) {
	if _, err := os.Stat(locator); err == nil {
		return nil, nil
	}

	// SSH form (git@host:owner/repo.git) keeps its own "@".
	if strings.HasPrefix(locator, "git@") || strings.HasPrefix(locator, "ssh://") {
		return &Source{URL: locator}, nil
	}

	path, ref := splitRef(locator)

	switch {
	case strings.HasPrefix(path, "https://"), strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "file://"):
		return &Source{URL: path, Ref: ref}, nil
	case isHostPath(path):
		return &Source{URL: "https://" + path, Ref: ref}, nil
	case isGitHubShorthand(path):
		return &Source{URL: "https://github.com/" + path, Ref: ref}, nil
	}

	return nil, nil
}

// splitRef extracts the ref from locator@ref syntax.
func splitRef(locator string) (path, ref string) {
	idx := strings.LastIndex(locator, "@")
	if idx == -1 {
		return locator, ""
	}
	// An "@" inside scheme credentials is not a ref separator.
	if strings.Contains(locator[idx:], "/") {
		return locator, ""
	}
	return locator[:idx], locator[idx+1:]
}

// isHostPath returns true for host/owner/repo without a scheme.
func isHostPath(path string) bool {
	slashIdx := strings.Index(path, "/")
	if slashIdx <= 0 || strings.HasPrefix(path, ".") {
		return false
	}
	return strings.Contains(path[:slashIdx], ".") && strings.Count(path, "/") >= 2
}

// isGitHubShorthand returns true if path matches owner/repo pattern.
func isGitHubShorthand(path string) bool {
	slashIdx := strings.Index(path, "/")
	if slashIdx == -1 {
		return false
	}
	// Must have exactly one slash
	if strings.Count(path, "/") != 1 {
		return false
	}
	// No dots before the slash (would indicate a domain)
	if strings.Contains(path[:slashIdx], ".") {
		return false
	}
	// Both parts must be non-empty
	return slashIdx > 0 && slashIdx < len(path)-1
}

// Clone clones the full history into a new temporary directory. Progress
// messages from the transport are written to progress.
func (s *Source) Clone(ctx context.Context, progress io.Writer) error {
	dir, err := os.MkdirTemp("", "thermometer-clone-*")
	if err != nil {
		return fmt.Errorf("create clone dir: %w", err)
	}

	opts := &git.CloneOptions{
		URL:      s.URL,
		Progress: progress,
	}
	if s.Ref == "" {
		_, err = git.PlainCloneContext(ctx, dir, false, opts)
	} else {
		err = s.cloneRef(ctx, dir, opts)
	}
	if err != nil {
		os.RemoveAll(dir)
		return fmt.Errorf("clone %s: %w", s.URL, err)
	}

	s.CloneDir = dir
	return nil
}

// cloneRef tries the ref as a branch and then as a tag.
func (s *Source) cloneRef(ctx context.Context, dir string, opts *git.CloneOptions) error {
	var lastErr error
	for _, name := range []plumbing.ReferenceName{
		plumbing.NewBranchReferenceName(s.Ref),
		plumbing.NewTagReferenceName(s.Ref),
	} {
		attempt := *opts
		attempt.ReferenceName = name
		attempt.SingleBranch = true
		if _, err := git.PlainCloneContext(ctx, dir, false, &attempt); err != nil {
			lastErr = err
			if rmErr := os.RemoveAll(dir); rmErr != nil {
				return rmErr
			}
			if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
				return mkErr
			}
			continue
		}
		return nil
	}
	return lastErr
}

// Cleanup removes the clone directory.
func (s *Source) Cleanup() error {
	if s.CloneDir == "" {
		return nil
	}
	err := os.RemoveAll(s.CloneDir)
	s.CloneDir = ""
	return err
}
