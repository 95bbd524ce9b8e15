package taxonomy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackup_TimestampedCopy(t *testing.T) {
	path := writeDoc(t, testDoc(), "taxonomy.json")
	backupDir := t.TempDir()

	backupPath, err := Backup(path, backupDir)
	require.NoError(t, err)

	base := filepath.Base(backupPath)
	assert.True(t, strings.HasPrefix(base, "taxonomy_backup_"), base)
	assert.True(t, strings.HasSuffix(base, ".json"), base)
	assert.Equal(t, backupDir, filepath.Dir(backupPath))

	original, err := os.ReadFile(path)
	require.NoError(t, err)
	copied, err := os.ReadFile(backupPath)
	require.NoError(t, err)
	assert.Equal(t, original, copied)
}

func TestBackup_DefaultsToDocumentDir(t *testing.T) {
	path := writeDoc(t, testDoc(), "taxonomy.json")

	backupPath, err := Backup(path, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Dir(path), filepath.Dir(backupPath))
}

func TestBackup_MissingDocument(t *testing.T) {
	_, err := Backup(filepath.Join(t.TempDir(), "absent.json"), "")
	require.Error(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	doc := testDoc()
	path := filepath.Join(t.TempDir(), "taxonomy.json")

	require.NoError(t, Save(doc, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, doc.System.Version, loaded.System.Version)
	assert.Equal(t, doc.Taxonomy.KeywordCount(), loaded.Taxonomy.KeywordCount())
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "taxonomy.json")
	require.NoError(t, Save(testDoc(), path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "taxonomy.json", entries[0].Name())
}

func TestSave_OverwritesExisting(t *testing.T) {
	path := writeDoc(t, testDoc(), "taxonomy.json")

	doc := testDoc()
	doc.System.Version = "2.0"
	require.NoError(t, Save(doc, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "2.0", loaded.System.Version)
}
