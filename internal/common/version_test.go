package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetVersion(t *testing.T) {
	t.Helper()
	origVersion, origBuild, origCommit := Version, Build, GitCommit
	Version, Build, GitCommit = "dev", "unknown", "unknown"
	t.Cleanup(func() {
		Version, Build, GitCommit = origVersion, origBuild, origCommit
	})
}

func writeVersionFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".version")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestApplyVersionFile(t *testing.T) {
	resetVersion(t)

	path := writeVersionFile(t, `
# build metadata
version = 1.4.0
build = 2026-08-29T10:00:00Z
commit = abc1234
`)
	applyVersionFile(path)

	assert.Equal(t, "1.4.0", GetVersion())
	assert.Equal(t, "2026-08-29T10:00:00Z", GetBuild())
	assert.Equal(t, "abc1234", GetGitCommit())
	assert.Equal(t, "1.4.0 (build: 2026-08-29T10:00:00Z, commit: abc1234)", GetFullVersion())
}

func TestApplyVersionFile_LdflagsWin(t *testing.T) {
	resetVersion(t)
	Version = "2.0.0"

	applyVersionFile(writeVersionFile(t, "version = 1.0.0\nbuild = b1\n"))

	assert.Equal(t, "2.0.0", GetVersion(), "injected version must not be overwritten")
	assert.Equal(t, "b1", GetBuild())
}

func TestApplyVersionFile_MalformedLinesSkipped(t *testing.T) {
	resetVersion(t)

	applyVersionFile(writeVersionFile(t, "not a pair\nversion =\nunknown_key = x\nbuild = ok\n"))

	assert.Equal(t, "dev", GetVersion())
	assert.Equal(t, "ok", GetBuild())
}

func TestApplyVersionFile_MissingFile(t *testing.T) {
	resetVersion(t)
	applyVersionFile(filepath.Join(t.TempDir(), ".version"))
	assert.Equal(t, "dev", GetVersion())
}
