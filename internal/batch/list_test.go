package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "measurements.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadMeasurements(t *testing.T) {
	tests := []struct {
		name    string
		content string
		max     int
		want    []string
		wantErr bool
	}{
		{
			name:    "all lines, no cap",
			content: "plate1/wellA/field1\nplate1/wellA/field2\n",
			max:     0,
			want:    []string{"plate1/wellA/field1", "plate1/wellA/field2"},
		},
		{
			name:    "cap stops early",
			content: "p/a\np/b\np/c\n",
			max:     2,
			want:    []string{"p/a", "p/b"},
		},
		{
			name:    "cap larger than list",
			content: "p/a\n",
			max:     10,
			want:    []string{"p/a"},
		},
		{
			name:    "blank lines skipped and do not count toward the cap",
			content: "p/a\n\n   \np/b\n",
			max:     2,
			want:    []string{"p/a", "p/b"},
		},
		{
			name:    "surrounding whitespace trimmed",
			content: "  p/a  \n",
			max:     0,
			want:    []string{"p/a"},
		},
		{
			name:    "duplicates preserved",
			content: "p/a\np/a\n",
			max:     0,
			want:    []string{"p/a", "p/a"},
		},
		{
			name:    "path traversal rejected",
			content: "p/../etc\n",
			max:     0,
			wantErr: true,
		},
		{
			name:    "absolute path rejected",
			content: "/p/a\n",
			max:     0,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadMeasurements(writeList(t, tt.content), tt.max)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadMeasurements_MissingFile(t *testing.T) {
	_, err := ReadMeasurements(filepath.Join(t.TempDir(), "absent.txt"), 0)
	assert.Error(t, err)
}
