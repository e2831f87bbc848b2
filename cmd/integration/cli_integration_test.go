package integration

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildCLI compiles the autoversion binary into a temporary directory.
func buildCLI(t *testing.T) string {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "autoversion")
	// The main package lives at the module root, two levels up from cmd/integration.
	buildCmd := exec.Command("go", "build", "-o", binPath, "../..")
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build CLI binary: %v; build output: %s", err, out)
	}
	return binPath
}

// TestCLIBinaryIntegration drives the built binary through a sequence of commits
// in a temporary repository, the way the CI workflow would.
func TestCLIBinaryIntegration(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not available on system")
	}
	binPath := buildCLI(t)
	tmpRepo := t.TempDir()

	runGit := func(args ...string) string {
		cmd := exec.Command("git", args...)
		cmd.Dir = tmpRepo
		out, err := cmd.CombinedOutput()
		if err != nil {
			t.Fatalf("git %v failed: %v; output: %s", args, err, out)
		}
		return string(out)
	}
	runGit("init")
	runGit("config", "user.email", "test@example.com")
	runGit("config", "user.name", "Test User")
	runGit("config", "commit.gpgsign", "false")

	runCLI := func(args ...string) int {
		cmd := exec.Command(binPath, args...)
		cmd.Dir = tmpRepo
		cmd.Env = append(os.Environ(), "NO_COLOR=1", "VERSION_FILE=src/demo/__init__.py")
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		err := cmd.Run()
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		require.NoError(t, err, "stdout: %s; stderr: %s", stdout.String(), stderr.String())
		return 0
	}

	// Set up the repository with init and commit the scaffolding.
	require.Equal(t, 0, runCLI("init"))
	versionFile := filepath.Join(tmpRepo, "src", "demo", "__init__.py")
	require.NoError(t, os.WriteFile(versionFile, []byte("\"\"\"Demo package.\"\"\"\n__version__ = \"0.0.0\"\n"), 0644))
	runGit("add", ".")
	runGit("commit", "-m", "Add auto-versioning setup [patch]")

	steps := []struct {
		message  string
		expected string
	}{
		{"", "0.0.1"}, // the setup commit itself
		{"Add feature [minor]", "0.1.0"},
		{"Fix typo", "0.1.1"},
		{"Rewrite API [MAJOR]", "1.0.0"},
	}
	for _, step := range steps {
		if step.message != "" {
			require.NoError(t, os.WriteFile(filepath.Join(tmpRepo, "work.txt"), []byte(step.message), 0644))
			runGit("add", "work.txt")
			runGit("commit", "-m", step.message)
		}

		require.Equal(t, 0, runCLI("--tag"), "bump after %q", step.message)

		contents, err := os.ReadFile(versionFile)
		require.NoError(t, err)
		assert.Equal(t, "\"\"\"Demo package.\"\"\"\n__version__ = \""+step.expected+"\"\n", string(contents))

		tags := strings.Split(strings.TrimSpace(runGit("tag")), "\n")
		assert.True(t, slices.Contains(tags, "v"+step.expected), "expected tag v%s, got %v", step.expected, tags)

		// The version commit must be inert.
		assert.Equal(t, 2, runCLI("--tag"))
	}
}
