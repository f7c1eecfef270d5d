package patch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lwjgl3ify-tools/clientgen/internal/manifest"
	"github.com/lwjgl3ify-tools/clientgen/internal/maven"
)

// Document is one parsed patch file.
type Document struct {
	Path      string
	Name      string
	UID       string
	Version   string
	JVMArgs   []string
	Libraries []Library
}

// Library is one entry of a patch's libraries list.
type Library struct {
	Name       string
	Coordinate maven.Coordinate
	Rules      json.RawMessage // nil when absent
	Source     Source
}

type rawDocument struct {
	Name      string            `json:"name"`
	UID       string            `json:"uid"`
	Version   string            `json:"version"`
	JVMArgs   []string          `json:"+jvmArgs"`
	Libraries []json.RawMessage `json:"libraries"`
}

type rawLibrary struct {
	Name        string          `json:"name"`
	URL         *string         `json:"url"`
	AbsoluteURL *string         `json:"MMC-absoluteUrl"`
	Downloads   *rawDownloads   `json:"downloads"`
	Rules       json.RawMessage `json:"rules"`
}

type rawDownloads struct {
	Artifact *struct {
		URL string `json:"url"`
	} `json:"artifact"`
}

// Load reads, validates, and parses the patch at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading patch %s: %w", path, err)
	}

	result, err := manifest.ValidatePatch(data)
	if err != nil {
		return nil, fmt.Errorf("validating patch %s: %w", path, err)
	}
	if !result.Valid {
		return nil, &manifest.SchemaError{File: path, Issues: result.Issues}
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing patch %s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

// Parse decodes patch bytes without schema validation.
func Parse(data []byte) (*Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	doc := &Document{
		Name:    raw.Name,
		UID:     raw.UID,
		Version: raw.Version,
		JVMArgs: raw.JVMArgs,
	}
	for i, entry := range raw.Libraries {
		lib, err := ParseLibrary(entry)
		if err != nil {
			return nil, fmt.Errorf("libraries[%d]: %w", i, err)
		}
		doc.Libraries = append(doc.Libraries, lib)
	}
	return doc, nil
}

// ParseLibrary decodes one library entry and classifies its source.
// Precedence follows the formats' history: a Forge base URL wins over an
// MMC absolute URL, which wins over a vanilla downloads block.
func ParseLibrary(entry json.RawMessage) (Library, error) {
	var raw rawLibrary
	if err := json.Unmarshal(entry, &raw); err != nil {
		return Library{}, err
	}

	coord, err := maven.ParseCoordinate(raw.Name)
	if err != nil {
		return Library{}, err
	}

	lib := Library{Name: raw.Name, Coordinate: coord}
	if rules := strings.TrimSpace(string(raw.Rules)); rules != "" && rules != "null" {
		lib.Rules = raw.Rules
	}

	switch {
	case raw.URL != nil:
		lib.Source = ForgeSource{BaseURL: *raw.URL}
	case raw.AbsoluteURL != nil:
		lib.Source = DirectSource{URL: *raw.AbsoluteURL}
	case raw.Downloads != nil && raw.Downloads.Artifact != nil:
		lib.Source = DownloadSource{URL: raw.Downloads.Artifact.URL}
	case raw.Downloads != nil:
		lib.Source = RawSource{Entry: append(json.RawMessage(nil), entry...)}
	default:
		lib.Source = MavenSource{}
	}
	return lib, nil
}

// ListDocuments returns the *.json files in dir, sorted by name, minus the
// excluded base names.
func ListDocuments(dir string, excluded []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading patch directory %s: %w", dir, err)
	}

	skip := make(map[string]bool, len(excluded))
	for _, name := range excluded {
		skip[name] = true
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" || skip[name] {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)
	return paths, nil
}
