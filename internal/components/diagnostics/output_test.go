package diagnostics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "diagnostics")

	out, err := NewFilesystemOutput(dir, false)
	require.NoError(t, err)
	out.Write("debug_body.txt", "الفجر 04:50")

	contents, err := os.ReadFile(filepath.Join(dir, "debug_body.txt"))
	require.NoError(t, err)
	require.Equal(t, "الفجر 04:50", string(contents))

	kept, err := NewFilesystemOutput(dir, false)
	require.NoError(t, err)
	require.FileExists(t, kept.Path("debug_body.txt"))

	reset, err := NewFilesystemOutput(dir, true)
	require.NoError(t, err)
	require.NoFileExists(t, reset.Path("debug_body.txt"))
	require.DirExists(t, reset.Directory())
}

func TestFilesystemOutputWriteFailureIsIgnored(t *testing.T) {
	out, err := NewFilesystemOutput(t.TempDir(), false)
	require.NoError(t, err)
	require.NotPanics(t, func() {
		out.Write(filepath.Join("missing", "nested.txt"), "x")
	})
	require.NoFileExists(t, out.Path(filepath.Join("missing", "nested.txt")))
}
