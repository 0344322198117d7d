// Package vcs provides version control system abstractions and the history
// reader that feeds the commit miner.
package vcs

import (
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repository provides access to git repository operations.
type Repository interface {
	// Head returns a reference to the HEAD commit.
	Head() (Reference, error)
	// Log returns a commit iterator starting from HEAD.
	Log(opts *LogOptions) (CommitIterator, error)
}

// Reference represents a git reference (branch, tag, HEAD).
type Reference interface {
	Hash() plumbing.Hash
}

// LogOptions configures the commit log query. Both bounds are inclusive and
// compare against the committer date.
type LogOptions struct {
	Since *time.Time
	Until *time.Time
}

// CommitIterator iterates over commits.
type CommitIterator interface {
	ForEach(fn func(Commit) error) error
	Close()
}

// Commit represents a git commit.
type Commit interface {
	// Hash returns the commit hash.
	Hash() plumbing.Hash
	// NumParents returns the number of parent commits.
	NumParents() int
	// Parent returns the nth parent commit.
	Parent(n int) (Commit, error)
	// Tree returns the tree object for this commit.
	Tree() (Tree, error)
	// Author returns commit author information.
	Author() object.Signature
	// Committer returns commit committer information.
	Committer() object.Signature
}

// TreeEntry represents a file in a git tree.
type TreeEntry struct {
	Path string
}

// Tree represents a git tree object.
type Tree interface {
	// Diff computes differences between this tree and another.
	Diff(to Tree) (Changes, error)
	// Entries returns all files in the tree (recursively).
	Entries() ([]TreeEntry, error)
	// File returns the blob at path.
	File(path string) (Blob, error)
}

// Blob is the content of one file in a tree.
type Blob struct {
	Binary  bool
	Content string
}

// Changes represents a collection of file changes between trees.
type Changes []Change

// Change represents a single file change.
type Change interface {
	// FromName returns the source file name (empty for new files).
	FromName() string
	// ToName returns the destination file name (empty for deleted files).
	ToName() string
	// ToMode returns the destination entry mode (Empty for deleted files).
	ToMode() filemode.FileMode
}

// Opener opens git repositories.
type Opener interface {
	// PlainOpenWithDetect opens a git repository, detecting .git in parent directories.
	PlainOpenWithDetect(path string) (Repository, error)
}
