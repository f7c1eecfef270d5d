package patch

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/lwjgl3ify-tools/clientgen/internal/library"
	"github.com/lwjgl3ify-tools/clientgen/internal/manifest"
	"github.com/lwjgl3ify-tools/clientgen/internal/maven"
)

// Resolver fetches and hashes one artifact. *library.Resolver satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, coord maven.Coordinate, declaredURL string) (library.Artifact, error)
}

// Translator converts patch documents into manifest entries.
type Translator struct {
	resolver Resolver
	logger   *log.Logger
}

// Option configures a Translator.
type Option func(*Translator)

// WithLogger sets the logger used for progress messages.
func WithLogger(l *log.Logger) Option {
	return func(t *Translator) {
		t.logger = l
	}
}

// NewTranslator creates a Translator that resolves jars through r.
func NewTranslator(r Resolver, opts ...Option) *Translator {
	t := &Translator{
		resolver: r,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Translate resolves every not-yet-seen library of doc and returns the new
// entries in document order. The entries are also appended to tc, and the
// document's +jvmArgs are placed in front of those recorded by earlier
// documents, as if each document prepended to the launcher arguments.
func (t *Translator) Translate(ctx context.Context, tc *Context, doc *Document) ([]manifest.Library, error) {
	t.logger.Info("processing patch", "file", doc.Path, "uid", doc.UID)

	var out []manifest.Library
	for _, lib := range doc.Libraries {
		first, ok := tc.claim(lib.Coordinate)
		if !ok {
			if first.Group != lib.Coordinate.Group || first.Version != lib.Coordinate.Version {
				t.logger.Warn("artifact already loaded with different coordinate, keeping first",
					"kept", first.String(), "dropped", lib.Name)
			} else {
				t.logger.Info("already loaded", "artifact", lib.Coordinate.Artifact)
			}
			continue
		}

		entry, err := t.translateLibrary(ctx, lib)
		if err != nil {
			return nil, err
		}
		tc.add(entry)
		out = append(out, entry)
	}

	if len(doc.JVMArgs) > 0 {
		tc.jvmArgs = append(append([]string(nil), doc.JVMArgs...), tc.jvmArgs...)
	}
	return out, nil
}

func (t *Translator) translateLibrary(ctx context.Context, lib Library) (manifest.Library, error) {
	if raw, ok := lib.Source.(RawSource); ok {
		t.logger.Debug("unrecognized downloads block, passing through", "library", lib.Name)
		return manifest.RawLibrary(lib.Name, raw.Entry), nil
	}

	t.logger.Info("looking for", "file", lib.Coordinate.FileName(), "source", lib.Source.Kind())
	art, err := t.resolver.Resolve(ctx, lib.Coordinate, DeclaredURL(lib.Source, lib.Coordinate))
	if err != nil {
		return manifest.Library{}, fmt.Errorf("resolving %s: %w", lib.Name, err)
	}

	return manifest.NewLibrary(lib.Name, manifest.Artifact{
		Path: art.Path,
		URL:  art.URL,
		SHA1: art.SHA1,
		Size: art.Size,
	}, lib.Rules), nil
}
