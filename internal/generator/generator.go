package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lwjgl3ify-tools/clientgen/internal/library"
	"github.com/lwjgl3ify-tools/clientgen/internal/manifest"
	"github.com/lwjgl3ify-tools/clientgen/internal/maven"
	"github.com/lwjgl3ify-tools/clientgen/internal/patch"
	"github.com/lwjgl3ify-tools/clientgen/internal/source"
)

// Identity names the generated manifest and the forge patches jar.
type Identity struct {
	IDPrefix string
	Project  string

	// ForgePatches locates <Group>:<Artifact>:<tag>:<Classifier> in Repository.
	Repository string
	Group      string
	Artifact   string
	Classifier string
}

// Generator builds manifests from a template and patch documents.
type Generator struct {
	identity   Identity
	client     *maven.Client
	translator *patch.Translator
	logger     *log.Logger
	now        func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for progress messages.
func WithLogger(l *log.Logger) Option {
	return func(g *Generator) {
		g.logger = l
	}
}

// WithClock overrides the source of the manifest's "time" field.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// New creates a Generator. client is used for the forge patches lookup and
// translator for the patch documents.
func New(id Identity, client *maven.Client, translator *patch.Translator, opts ...Option) *Generator {
	g := &Generator{
		identity:   id,
		client:     client,
		translator: translator,
		logger:     log.New(io.Discard),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ManifestID returns the identifier for a manifest built at rev.
func (g *Generator) ManifestID(rev *source.Revision) string {
	return g.identity.IDPrefix + "-" + g.identity.Project + "-" + rev.ID
}

// Generate fills tmpl in place and returns it. Patch documents are applied in
// the order given; a library id claimed by an earlier document wins.
func (g *Generator) Generate(ctx context.Context, tmpl *manifest.Document, rev *source.Revision, patchPaths []string) (*manifest.Document, error) {
	if rev.Tag == "" {
		return nil, fmt.Errorf("revision %s: %w", rev.Short, source.ErrNoTag)
	}
	if _, err := rev.Semver(); err != nil {
		g.logger.Warn("tag is not a semantic version", "tag", rev.Tag, "err", err)
	}

	tmpl.SetIdentity(g.ManifestID(rev))
	tmpl.SetTimes(g.now(), rev.AuthoredAt)

	forge, err := g.forgePatches(ctx, rev.Tag)
	if err != nil {
		return nil, err
	}

	tc := patch.NewContext()
	for _, p := range patchPaths {
		doc, err := patch.Load(p)
		if err != nil {
			return nil, err
		}
		if _, err := g.translator.Translate(ctx, tc, doc); err != nil {
			return nil, fmt.Errorf("translating %s: %w", p, err)
		}
	}

	if err := tmpl.PrependJVMArgs(tc.JVMArgs()); err != nil {
		return nil, err
	}
	if err := tmpl.AppendLibraries(forge); err != nil {
		return nil, err
	}
	if err := tmpl.AppendLibraries(tc.Entries()...); err != nil {
		return nil, err
	}

	passthrough := 0
	for _, e := range tc.Entries() {
		if e.IsRaw() {
			passthrough++
		}
	}
	g.logger.Info("assembled manifest", "id", tmpl.ID(),
		"libraries", len(tc.Entries())+1, "passthrough", passthrough, "jvm_args", len(tc.JVMArgs()))
	return tmpl, nil
}

// forgePatches builds the entry for the jar published alongside each tag.
// The jar itself is not downloaded: the repository's checksum sidecar and
// Content-Length describe it.
func (g *Generator) forgePatches(ctx context.Context, tag string) (manifest.Library, error) {
	coord := maven.Coordinate{
		Group:      g.identity.Group,
		Artifact:   g.identity.Artifact,
		Version:    tag,
		Classifier: g.identity.Classifier,
	}
	url := maven.URL(g.identity.Repository, coord.Path())
	g.logger.Info("looking for", "file", coord.FileName(), "source", "forge-patches")

	sum, sumErr := g.client.SHA1(ctx, url)
	size, sizeErr := g.client.ContentLength(ctx, url)
	if err := errors.Join(sumErr, sizeErr); err != nil {
		return manifest.Library{}, fmt.Errorf("forge patches %s: %w: %w", coord, library.ErrNotFound, err)
	}

	return manifest.NewLibrary(coord.String(), manifest.Artifact{
		Path: coord.Path(),
		URL:  url,
		SHA1: sum,
		Size: size,
	}, nil), nil
}
