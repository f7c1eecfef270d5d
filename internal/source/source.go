package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Masterminds/semver/v3"
)

const (
	// ShortLen is the length of the commit prefix used in revision strings.
	ShortLen = 7

	dirtySuffix = "-dirty"
)

// Options controls how strict Open is about the working copy state.
type Options struct {
	AllowDirty bool
}

// Revision identifies the state of the working copy a manifest is built from.
type Revision struct {
	Commit     string
	Short      string
	Tag        string
	Exact      bool
	Dirty      bool
	AuthoredAt time.Time
	ID         string
}

// Semver parses Tag as a semantic version, tolerating a leading "v".
func (r *Revision) Semver() (*semver.Version, error) {
	return semver.NewVersion(r.Tag)
}

// Open validates the working copy at path and reads its revision.
func Open(ctx context.Context, path string, opts Options) (*Revision, error) {
	if err := ensureGit(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotRepository)
	}

	bare, err := runGit(ctx, path, "rev-parse", "--is-bare-repository")
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrNotRepository, err)
	}
	if bare == "true" {
		return nil, &StateError{Path: path, Err: ErrBareRepository, Hint: "Doublecheck the path."}
	}

	status, err := runGit(ctx, path, "status", "--porcelain", "--untracked-files=no")
	if err != nil {
		return nil, fmt.Errorf("reading status of %s: %w", path, err)
	}
	dirty := status != ""
	if dirty && !opts.AllowDirty {
		return nil, &StateError{Path: path, Err: ErrDirtyWorktree, Hint: "Pass -d/--use-dirty-source to ignore."}
	}

	commit, err := runGit(ctx, path, "rev-parse", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("reading HEAD of %s: %w", path, err)
	}
	if len(commit) < ShortLen {
		return nil, fmt.Errorf("unexpected commit hash %q", commit)
	}

	described, err := runGit(ctx, path, "describe", "--tags")
	if err != nil {
		return nil, &StateError{Path: path, Err: errors.Join(ErrNoTag, err), Hint: "Fetch tags with 'git fetch --tags'."}
	}
	desc := ParseDescribe(described)

	authored, err := runGit(ctx, path, "log", "-1", "--format=%aI", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("reading author date of %s: %w", path, err)
	}
	authoredAt, err := time.Parse(time.RFC3339, authored)
	if err != nil {
		return nil, fmt.Errorf("parsing author date %q: %w", authored, err)
	}

	rev := &Revision{
		Commit:     commit,
		Short:      commit[:ShortLen],
		Tag:        desc.Tag,
		Exact:      desc.Exact(),
		Dirty:      opts.AllowDirty,
		AuthoredAt: authoredAt,
	}
	rev.ID = RevisionID(rev.Short, desc, rev.Dirty)
	return rev, nil
}

// RevisionID applies the naming policy: the bare tag when HEAD is exactly on
// it, otherwise the short commit; "-dirty" is appended whenever the dirty
// override was used.
func RevisionID(short string, desc Description, dirty bool) string {
	id := short
	if desc.Exact() && desc.Tag != "" {
		id = desc.Tag
	}
	if dirty {
		id += dirtySuffix
	}
	return Sanitize(id)
}
