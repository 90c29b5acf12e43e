package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditor(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	auditor := NewAuditor(dir)

	t.Run("SaveJSON creates directory and file", func(t *testing.T) {
		report := map[string]any{
			"file":    "dune.epub",
			"skipped": []string{"nav: unsupported media type"},
		}

		filename, err := auditor.SaveJSON(report)
		require.NoError(t, err)
		assert.Contains(t, filename, ".json")

		content, err := os.ReadFile(filepath.Join(dir, filename))
		require.NoError(t, err)

		var saved map[string]any
		require.NoError(t, json.Unmarshal(content, &saved))
		assert.Equal(t, "dune.epub", saved["file"])
		assert.Equal(t, []any{"nav: unsupported media type"}, saved["skipped"])
	})

	t.Run("SaveJSON generates unique filenames", func(t *testing.T) {
		a, err := auditor.SaveJSON(map[string]string{"k": "v"})
		require.NoError(t, err)
		b, err := auditor.SaveJSON(map[string]string{"k": "v"})
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("SaveJSON rejects unmarshalable data", func(t *testing.T) {
		_, err := auditor.SaveJSON(map[string]any{"ch": make(chan int)})
		assert.Error(t, err)
	})
}
