package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/lwjgl3ify-tools/clientgen/internal/config"
	"github.com/lwjgl3ify-tools/clientgen/internal/generator"
	"github.com/lwjgl3ify-tools/clientgen/internal/library"
	"github.com/lwjgl3ify-tools/clientgen/internal/manifest"
	"github.com/lwjgl3ify-tools/clientgen/internal/maven"
	"github.com/lwjgl3ify-tools/clientgen/internal/patch"
	"github.com/lwjgl3ify-tools/clientgen/internal/source"
	"github.com/spf13/viper"
)

// runGenerate performs one full run. Nothing is written to the output
// directory unless every step before it succeeded.
func runGenerate(ctx context.Context, out io.Writer, logger *log.Logger, v *viper.Viper, opts *rootOptions) error {
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}
	settings, err := config.Load(v, workDir, opts.configFile)
	if err != nil {
		return err
	}

	rev, err := source.Open(ctx, settings.Location, source.Options{AllowDirty: settings.UseDirtySource})
	if err != nil {
		return err
	}
	logger.Infof("Parsing %s at %s", settings.Project, rev.ID)
	logger.Debug("revision", "commit", rev.Commit, "tag", rev.Tag, "exact", rev.Exact, "dirty", rev.Dirty)

	tmpl, err := manifest.LoadTemplate(settings.Template)
	if err != nil {
		return err
	}
	patches, err := patch.ListDocuments(settings.PatchDirPath(), settings.ExcludedPatches)
	if err != nil {
		return err
	}

	store := library.NewStore(settings.LibrariesDir)
	if err := store.Lock(); err != nil {
		return err
	}
	defer store.Unlock()

	client := maven.NewClient(maven.WithHTTPClient(&http.Client{Timeout: settings.HTTPTimeout}))
	resolver := library.NewResolver(store, client, maven.Repositories(settings.Mavens), library.WithLogger(logger))
	gen := generator.New(identity(settings), client,
		patch.NewTranslator(resolver, patch.WithLogger(logger)),
		generator.WithLogger(logger))

	doc, err := gen.Generate(ctx, tmpl, rev, patches)
	if err != nil {
		return err
	}

	path, err := manifest.WriteFile(settings.OutDir, doc)
	if err != nil {
		return err
	}

	if opts.summary {
		if err := renderSummary(out, doc); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "Wrote %s\n", path)
	return nil
}

func identity(s *config.Settings) generator.Identity {
	return generator.Identity{
		IDPrefix:   s.IDPrefix,
		Project:    s.Project,
		Repository: s.ForgePatches.Repository,
		Group:      s.ForgePatches.Group,
		Artifact:   s.ForgePatches.Artifact,
		Classifier: s.ForgePatches.Classifier,
	}
}
