package models

import "time"

// CommitRecord is one commit as yielded by a history reader.
type CommitRecord struct {
	ID            string
	Timestamp     time.Time
	AuthorName    string
	ModifiedFiles []ModifiedFile
}

// ModifiedFile is a file touched by a commit. Text is nil for binary and
// deleted files.
type ModifiedFile struct {
	Name string
	Path string
	Text *string
}

// HasText reports whether the file carries non-empty textual content.
func (f ModifiedFile) HasText() bool {
	return f.Text != nil && *f.Text != ""
}
