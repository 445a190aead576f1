package letters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeLabels(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "labels.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadLabels(t *testing.T) {
	tests := []struct {
		description string
		content     string
		want        []string
		wantErr     error
	}{
		{
			"Should read one label per line",
			"A\nB\nC\n",
			[]string{"A", "B", "C"},
			nil,
		},
		{
			"Should trim whitespace and CRLF endings",
			" A \r\nB\r\n",
			[]string{"A", "B"},
			nil,
		},
		{
			"Should keep interior blank lines to preserve indices",
			"A\n\nC\n",
			[]string{"A", "", "C"},
			nil,
		},
		{
			"Should drop trailing blank lines",
			"A\nB\n\n\n",
			[]string{"A", "B"},
			nil,
		},
		{
			"Should fail on an empty file",
			"",
			nil,
			ErrBadLabels,
		},
		{
			"Should fail on a blank file",
			"\n  \n",
			nil,
			ErrBadLabels,
		},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			got, err := LoadLabels(writeLabels(t, tt.content))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestLoadLabels_Missing(t *testing.T) {
	_, err := LoadLabels(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
}
