package vcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/panbanda/thermometer/internal/remote"
	"github.com/panbanda/thermometer/pkg/models"
)

// HistoryReader walks a repository's commits and reports the files each one
// modified, with their post-change text.
type HistoryReader struct {
	opener     Opener
	skipMerges bool
	progress   io.Writer
	logger     *slog.Logger
}

// HistoryOption is a functional option for configuring HistoryReader.
type HistoryOption func(*HistoryReader)

// WithOpener replaces the go-git opener.
func WithOpener(o Opener) HistoryOption {
	return func(h *HistoryReader) {
		h.opener = o
	}
}

// WithSkipMerges controls whether merge commits report modified files.
func WithSkipMerges(skip bool) HistoryOption {
	return func(h *HistoryReader) {
		h.skipMerges = skip
	}
}

// WithCloneProgress sets where remote clone progress is written.
func WithCloneProgress(w io.Writer) HistoryOption {
	return func(h *HistoryReader) {
		if w != nil {
			h.progress = w
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) HistoryOption {
	return func(h *HistoryReader) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHistoryReader creates a reader. Merge commits are skipped by default.
func NewHistoryReader(opts ...HistoryOption) *HistoryReader {
	h := &HistoryReader{
		opener:     DefaultOpener(),
		skipMerges: true,
		progress:   io.Discard,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Traverse calls fn for every commit reachable from HEAD whose committer date
// lies within [since, until]. A remote locator is cloned to a temporary
// directory that is removed before Traverse returns.
func (h *HistoryReader) Traverse(ctx context.Context, locator string, since, until *time.Time, fn func(models.CommitRecord) error) error {
	repoPath := locator

	src, err := remote.Parse(locator)
	if err != nil {
		return err
	}
	if src != nil {
		h.logger.Info("cloning remote repository", "url", src.URL, "ref", src.Ref)
		if err := src.Clone(ctx, h.progress); err != nil {
			return err
		}
		defer src.Cleanup()
		repoPath = src.CloneDir
	}

	repo, err := h.opener.PlainOpenWithDetect(repoPath)
	if err != nil {
		return fmt.Errorf("open repository %s: %w", locator, err)
	}

	if _, err := repo.Head(); err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil
		}
		return fmt.Errorf("resolve HEAD: %w", err)
	}

	iter, err := repo.Log(&LogOptions{Since: since, Until: until})
	if err != nil {
		return fmt.Errorf("read log: %w", err)
	}
	defer iter.Close()

	return iter.ForEach(func(c Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		record, err := h.record(c)
		if err != nil {
			return fmt.Errorf("commit %s: %w", c.Hash(), err)
		}
		return fn(record)
	})
}

// record builds the CommitRecord for c. Files are diffed against the first
// parent; a root commit reports its whole tree. Deleted files and submodule
// links are reported without text.
func (h *HistoryReader) record(c Commit) (models.CommitRecord, error) {
	record := models.CommitRecord{
		ID:         c.Hash().String(),
		Timestamp:  c.Committer().When,
		AuthorName: c.Author().Name,
	}

	if c.NumParents() > 1 && h.skipMerges {
		return record, nil
	}

	tree, err := c.Tree()
	if err != nil {
		return record, err
	}

	if c.NumParents() == 0 {
		entries, err := tree.Entries()
		if err != nil {
			return record, err
		}
		for _, e := range entries {
			file, err := modifiedFile(tree, e.Path)
			if err != nil {
				return record, err
			}
			record.ModifiedFiles = append(record.ModifiedFiles, file)
		}
		return record, nil
	}

	parent, err := c.Parent(0)
	if err != nil {
		return record, err
	}
	parentTree, err := parent.Tree()
	if err != nil {
		return record, err
	}

	changes, err := parentTree.Diff(tree)
	if err != nil {
		return record, err
	}

	for _, change := range changes {
		if change.ToName() == "" {
			from := change.FromName()
			record.ModifiedFiles = append(record.ModifiedFiles, models.ModifiedFile{
				Name: path.Base(from),
				Path: from,
			})
			continue
		}
		if change.ToMode() == filemode.Submodule {
			to := change.ToName()
			record.ModifiedFiles = append(record.ModifiedFiles, models.ModifiedFile{
				Name: path.Base(to),
				Path: to,
			})
			continue
		}
		file, err := modifiedFile(tree, change.ToName())
		if err != nil {
			return record, err
		}
		record.ModifiedFiles = append(record.ModifiedFiles, file)
	}

	return record, nil
}

func modifiedFile(tree Tree, filePath string) (models.ModifiedFile, error) {
	file := models.ModifiedFile{Name: path.Base(filePath), Path: filePath}

	blob, err := tree.File(filePath)
	if err != nil {
		return file, err
	}
	if !blob.Binary {
		text := blob.Content
		file.Text = &text
	}
	return file, nil
}
