package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lwjgl3ify-tools/clientgen/internal/manifest"
	"github.com/lwjgl3ify-tools/clientgen/internal/source"
)

const forgePath = "/repo/com/github/GTNewHorizons/lwjgl3ify/2.1.0/lwjgl3ify-2.1.0-forgePatches.jar"

const baseTemplate = `{
    "id": "template",
    "arguments": {"jvm": ["-cp", "${classpath}"]},
    "libraries": []
}`

const forgePatch = `{
    "uid": "net.minecraftforge",
    "+jvmArgs": ["-Dfml.ignoreInvalidMinecraftCertificates=true"],
    "libraries": [{"name": "com.example:foo:1.0"}]
}`

type fixture struct {
	checkout string
	work     string
	config   string
}

func git(t *testing.T, dir string, args ...string) {
	t.Helper()
	full := append([]string{"-c", "commit.gpgsign=false", "-c", "tag.gpgsign=false"}, args...)
	cmd := exec.Command("git", full...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		"GIT_AUTHOR_DATE=2024-03-01T12:00:00Z",
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// newFixture builds a tagged lwjgl3ify checkout, a maven server, and a
// config file pointing every path into temp directories.
func newFixture(t *testing.T) fixture {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case forgePath:
			w.Header().Set("Content-Length", "2048")
		case forgePath + ".sha1":
			fmt.Fprint(w, "0123456789abcdef0123456789abcdef01234567")
		case "/repo/com/example/foo/1.0/foo-1.0.jar":
			fmt.Fprint(w, "foo jar")
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	checkout := t.TempDir()
	git(t, checkout, "init", "-q")
	writeFile(t, filepath.Join(checkout, "prism-libraries", "patches", "net.minecraftforge.json"), forgePatch)
	writeFile(t, filepath.Join(checkout, "prism-libraries", "patches", "me.eigenraven.lwjgl3ify.forgepatches.json"), `{"libraries": [{"name": "broken"}]}`)
	git(t, checkout, "add", ".")
	git(t, checkout, "commit", "-q", "-m", "initial")
	git(t, checkout, "tag", "2.1.0")

	work := t.TempDir()
	writeFile(t, filepath.Join(work, "base.json"), baseTemplate)
	cfg := filepath.Join(work, "clientgen.yaml")
	writeFile(t, cfg, fmt.Sprintf(`location: %s
template: %s
libraries_dir: %s
out_dir: %s
mavens:
  - %s/repo/
forge_patches:
  repository: %s/repo
`, checkout, filepath.Join(work, "base.json"), filepath.Join(work, "libraries"), filepath.Join(work, "out"), server.URL, server.URL))

	return fixture{checkout: checkout, work: work, config: cfg}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRoot_Generates(t *testing.T) {
	fx := newFixture(t)

	out, err := execute(t, "--config", fx.config)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	want := filepath.Join(fx.work, "out", "1.7.10-lwjgl3ify-2.1.0.json")
	if !strings.Contains(out, "Wrote "+want) {
		t.Errorf("stdout = %q, want it to mention %s", out, want)
	}

	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		ID          string `json:"id"`
		ReleaseTime string `json:"releaseTime"`
		Arguments   struct {
			JVM []string `json:"jvm"`
		} `json:"arguments"`
		Libraries []struct {
			Name string `json:"name"`
		} `json:"libraries"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.ID != "1.7.10-lwjgl3ify-2.1.0" {
		t.Errorf("id = %q", got.ID)
	}
	if got.ReleaseTime != "2024-03-01T12:00:00Z" {
		t.Errorf("releaseTime = %q", got.ReleaseTime)
	}
	if len(got.Arguments.JVM) != 3 || got.Arguments.JVM[0] != "-Dfml.ignoreInvalidMinecraftCertificates=true" {
		t.Errorf("jvm = %v", got.Arguments.JVM)
	}
	if len(got.Libraries) != 2 || got.Libraries[1].Name != "com.example:foo:1.0" {
		t.Errorf("libraries = %+v", got.Libraries)
	}
	if !strings.HasPrefix(string(data), "{\n    \"") {
		t.Error("output should be indented with four spaces")
	}
	if _, err := os.Stat(filepath.Join(fx.work, "libraries", "com", "example", "foo", "1.0", "foo-1.0.jar")); err != nil {
		t.Errorf("jar not stored: %v", err)
	}
}

func TestRoot_DirtyCheckoutRefused(t *testing.T) {
	fx := newFixture(t)
	writeFile(t, filepath.Join(fx.checkout, "prism-libraries", "patches", "net.minecraftforge.json"), `{"libraries": []}`)

	_, err := execute(t, "--config", fx.config)
	if !errors.Is(err, source.ErrDirtyWorktree) {
		t.Fatalf("expected ErrDirtyWorktree, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(fx.work, "out")); !os.IsNotExist(statErr) {
		t.Error("out directory must not be created on failure")
	}

	var buf bytes.Buffer
	printError(&buf, err)
	if !strings.Contains(buf.String(), "--use-dirty-source") {
		t.Errorf("error output should carry the remediation hint, got %q", buf.String())
	}
}

func TestRoot_DirtyOverride(t *testing.T) {
	fx := newFixture(t)
	writeFile(t, filepath.Join(fx.checkout, "prism-libraries", "patches", "net.minecraftforge.json"),
		`{"libraries": [{"name": "com.example:foo:1.0"}]}`)

	out, err := execute(t, "--config", fx.config, "-d")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "1.7.10-lwjgl3ify-2.1.0-dirty.json") {
		t.Errorf("stdout = %q, want a -dirty manifest", out)
	}
}

func TestRoot_LocationFlagOverridesConfig(t *testing.T) {
	fx := newFixture(t)

	_, err := execute(t, "--config", fx.config, "--location", filepath.Join(fx.work, "missing"))
	if !errors.Is(err, source.ErrNotRepository) {
		t.Fatalf("expected ErrNotRepository, got %v", err)
	}
}

func TestRoot_Summary(t *testing.T) {
	fx := newFixture(t)

	out, err := execute(t, "--config", fx.config, "--summary")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	// go-pretty upper-cases header and footer text.
	for _, want := range []string{"com.example:foo:1.0", "forgepatches", "2,048", "2 libraries"} {
		if !strings.Contains(strings.ToLower(out), strings.ToLower(want)) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRoot_RejectsArgs(t *testing.T) {
	if _, err := execute(t, "extra"); err == nil {
		t.Error("expected an error for positional arguments")
	}
}

func TestRenderSummary_RawEntries(t *testing.T) {
	doc, err := manifest.ParseTemplate([]byte(`{"libraries": [{"name": "org.lwjgl:lwjgl-glfw:3.3.2"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := renderSummary(&buf, doc); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "org.lwjgl:lwjgl-glfw:3.3.2") {
		t.Errorf("summary = %q", buf.String())
	}
}

func TestHost(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "-"},
		{"https://maven.minecraftforge.net/a/b.jar", "maven.minecraftforge.net"},
		{"not a url", "not a url"},
	}
	for _, tt := range tests {
		if got := host(tt.in); got != tt.want {
			t.Errorf("host(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRoot_FlagHelpNamesEnvironment(t *testing.T) {
	cmd := newRootCmd()
	for flag, env := range map[string]string{
		"location":         "CLIENTGEN_LOCATION",
		"use-dirty-source": "CLIENTGEN_USE_DIRTY_SOURCE",
	} {
		if usage := cmd.Flags().Lookup(flag).Usage; !strings.Contains(usage, env) {
			t.Errorf("--%s usage %q should mention %s", flag, usage, env)
		}
	}
}
