package patch

import (
	"encoding/json"

	"github.com/lwjgl3ify-tools/clientgen/internal/maven"
)

// Source says where a library's jar comes from. The variants are closed:
// ForgeSource, DirectSource, DownloadSource, MavenSource, and RawSource.
type Source interface {
	// Kind names the variant for logs and summaries.
	Kind() string
	isSource()
}

// ForgeSource is a Forge-style entry: "url" holds a maven base URL.
type ForgeSource struct {
	BaseURL string
}

// DirectSource is an MMC-style entry: "MMC-absoluteUrl" points at the jar.
type DirectSource struct {
	URL string
}

// DownloadSource is a vanilla-style entry with downloads.artifact.url.
type DownloadSource struct {
	URL string
}

// MavenSource carries no location hint; only the repository list is probed.
type MavenSource struct{}

// RawSource is a downloads block this tool does not understand (natives
// classifiers and the like). The entry is copied to the manifest untouched.
type RawSource struct {
	Entry json.RawMessage
}

func (ForgeSource) Kind() string    { return "forge" }
func (DirectSource) Kind() string   { return "direct" }
func (DownloadSource) Kind() string { return "downloads" }
func (MavenSource) Kind() string    { return "maven" }
func (RawSource) Kind() string      { return "raw" }

func (ForgeSource) isSource()    {}
func (DirectSource) isSource()   {}
func (DownloadSource) isSource() {}
func (MavenSource) isSource()    {}
func (RawSource) isSource()      {}

// DeclaredURL returns the URL to try before probing repositories. It is
// empty for MavenSource and RawSource.
func DeclaredURL(src Source, coord maven.Coordinate) string {
	switch s := src.(type) {
	case ForgeSource:
		if s.BaseURL == "" {
			return ""
		}
		return maven.URL(s.BaseURL, coord.Path())
	case DirectSource:
		return s.URL
	case DownloadSource:
		return s.URL
	default:
		return ""
	}
}
