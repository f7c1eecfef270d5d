//go:build integration

package integration_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

const (
	forgePatchesPath = "/nexus/com/github/GTNewHorizons/lwjgl3ify/2.2.0/lwjgl3ify-2.2.0-forgePatches.jar"
	forgePatchesSHA1 = "5f2a7b3c4d1e0f9a8b7c6d5e4f3a2b1c0d9e8f7a"
)

// testEnv holds the sandbox for one generation run.
type testEnv struct {
	CheckoutDir string // lwjgl3ify working copy
	WorkDir     string // holds base.json, clientgen.yaml, libraries/, out/
	Server      *mavenServer
}

// mavenServer serves jars from memory and counts jar downloads.
type mavenServer struct {
	*httptest.Server

	mu    sync.Mutex
	jars  map[string]string
	fetch map[string]int
}

func (m *mavenServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case forgePatchesPath:
		w.Header().Set("Content-Length", "81234")
		return
	case forgePatchesPath + ".sha1":
		fmt.Fprintln(w, forgePatchesSHA1)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	body, ok := m.jars[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	m.fetch[r.URL.Path]++
	fmt.Fprint(w, body)
}

// Fetches returns how often path was downloaded.
func (m *mavenServer) Fetches(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetch[path]
}

// setupTestEnv creates a tagged checkout, a maven server, and a work
// directory. Settings are passed through CLIENTGEN_* variables and a
// clientgen.yaml in WorkDir, the same way a user would configure a run.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	srv := &mavenServer{
		jars: map[string]string{
			"/forge/com/google/guava/guava/21.0/guava-21.0.jar":                  "guava 21",
			"/minecraft/net/minecraft/launchwrapper/1.12/launchwrapper-1.12.jar": "launchwrapper",
			"/minecraft/org/ow2/asm/asm/9.4/asm-9.4.jar":                         "asm 9.4",
			"/lwjgl/3.3.2/lwjgl.jar":                                             "lwjgl",
			"/lwjgl/3.3.2/lwjgl-natives-linux.jar":                               "lwjgl natives",
		},
		fetch: make(map[string]int),
	}
	srv.Server = httptest.NewServer(srv)
	t.Cleanup(srv.Close)

	env := &testEnv{
		CheckoutDir: t.TempDir(),
		WorkDir:     t.TempDir(),
		Server:      srv,
	}

	setupCheckout(t, env.CheckoutDir, srv.URL)

	writeFile(t, filepath.Join(env.WorkDir, "base.json"), baseTemplate)
	writeFile(t, filepath.Join(env.WorkDir, "clientgen.yaml"), fmt.Sprintf(`mavens:
  - %[1]s/forge/
  - %[1]s/minecraft
`, srv.URL))

	t.Setenv("CLIENTGEN_LOCATION", env.CheckoutDir)
	t.Setenv("CLIENTGEN_TEMPLATE", filepath.Join(env.WorkDir, "base.json"))
	t.Setenv("CLIENTGEN_LIBRARIES_DIR", filepath.Join(env.WorkDir, "libraries"))
	t.Setenv("CLIENTGEN_OUT_DIR", filepath.Join(env.WorkDir, "out"))
	t.Setenv("CLIENTGEN_FORGE_PATCHES_REPOSITORY", srv.URL+"/nexus")

	return env
}

// setupCheckout writes the Prism patches lwjgl3ify ships and tags the commit.
func setupCheckout(t *testing.T, dir, serverURL string) {
	t.Helper()
	patches := filepath.Join(dir, "prism-libraries", "patches")

	writeFile(t, filepath.Join(patches, "net.minecraftforge.json"), `{
    "formatVersion": 1,
    "uid": "net.minecraftforge",
    "+jvmArgs": ["-Dfml.ignoreInvalidMinecraftCertificates=true"],
    "libraries": [
        {"name": "com.google.guava:guava:21.0", "url": "`+serverURL+`/forge/"},
        {"name": "net.minecraft:launchwrapper:1.12"},
        {"name": "org.ow2.asm:asm:9.4"}
    ]
}`)
	writeFile(t, filepath.Join(patches, "org.lwjgl3.json"), `{
    "formatVersion": 1,
    "uid": "org.lwjgl3",
    "+jvmArgs": ["-Dorg.lwjgl.util.NoChecks=true"],
    "libraries": [
        {"name": "com.google.guava:guava:17.0"},
        {"name": "org.lwjgl:lwjgl:3.3.2", "MMC-absoluteUrl": "`+serverURL+`/lwjgl/3.3.2/lwjgl.jar"},
        {"name": "org.lwjgl:lwjgl-natives:3.3.2:natives-linux",
         "rules": [{"action": "allow", "os": {"name": "linux"}}],
         "downloads": {"artifact": {"url": "`+serverURL+`/lwjgl/3.3.2/lwjgl-natives-linux.jar"}}},
        {"name": "org.lwjgl:lwjgl-glfw:3.3.2",
         "downloads": {"classifiers": {"natives-linux": {"url": "https://example.invalid/glfw.jar"}}}}
    ]
}`)
	writeFile(t, filepath.Join(patches, "me.eigenraven.lwjgl3ify.forgepatches.json"), `{"libraries": [{"name": "not:a:valid:name:at:all"}]}`)
	writeFile(t, filepath.Join(dir, "README.md"), "lwjgl3ify\n")

	git(t, dir, "init", "-q")
	git(t, dir, "add", ".")
	git(t, dir, "commit", "-q", "-m", "release")
	git(t, dir, "tag", "2.2.0")
}

const baseTemplate = `{
    "id": "template",
    "version": "template",
    "type": "release",
    "mainClass": "net.minecraft.launchwrapper.Launch",
    "arguments": {
        "game": ["--username", "${auth_player_name}"],
        "jvm": [
            {"rules": [{"action": "allow", "os": {"name": "osx"}}], "value": ["-XstartOnFirstThread"]},
            "-cp",
            "${classpath}"
        ]
    },
    "libraries": [
        {"name": "net.minecraft:minecraft:1.7.10"}
    ]
}`

func git(t *testing.T, dir string, args ...string) {
	t.Helper()
	full := append([]string{"-c", "commit.gpgsign=false", "-c", "tag.gpgsign=false"}, args...)
	cmd := exec.Command("git", full...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		"GIT_AUTHOR_DATE=2024-05-04T10:00:00Z",
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s", path)
	}
}

func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file to not exist: %s", path)
	}
}
