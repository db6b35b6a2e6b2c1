package textfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendLinesAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.txt")
	repo := NewAppenderRepo()

	n, err := repo.AppendLines(path, []string{"a", "b"})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	n, err = repo.AppendLines(path, []string{"c"})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "a\nb\nc\n", string(data))
}

func TestAppendLinesOpenFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "output.txt")

	n, err := NewAppenderRepo().AppendLines(path, []string{"a"})
	require.Error(t, err)
	require.Zero(t, n)
}
