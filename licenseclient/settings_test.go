package licenseclient

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	t.Run("MissingFileReturnsEmpty", func(t *testing.T) {
		store := NewFileStore(filepath.Join(t.TempDir(), "settings.json"))

		value, err := store.Get(SettingLicenseToken)

		require.NoError(t, err)
		assert.Empty(t, value)
	})

	t.Run("SetAndGet", func(t *testing.T) {
		store := NewFileStore(filepath.Join(t.TempDir(), "settings.json"))

		require.NoError(t, store.Set(SettingLicenseToken, "signed-token"))
		require.NoError(t, store.Set(SettingAPIBase, "https://licensing.example.com"))

		token, err := store.Get(SettingLicenseToken)
		require.NoError(t, err)
		assert.Equal(t, "signed-token", token)

		base, err := store.Get(SettingAPIBase)
		require.NoError(t, err)
		assert.Equal(t, "https://licensing.example.com", base)
	})

	t.Run("EmptyValueRemovesKey", func(t *testing.T) {
		store := NewFileStore(filepath.Join(t.TempDir(), "settings.json"))

		require.NoError(t, store.Set(SettingLicenseToken, "signed-token"))
		require.NoError(t, store.Set(SettingLicenseToken, ""))

		value, err := store.Get(SettingLicenseToken)
		require.NoError(t, err)
		assert.Empty(t, value)
	})

	t.Run("SurvivesReopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.json")

		store := NewFileStore(path)
		require.NoError(t, store.Set(SettingLicenseToken, "signed-token"))

		reopened := NewFileStore(path)
		value, err := reopened.Get(SettingLicenseToken)
		require.NoError(t, err)
		assert.Equal(t, "signed-token", value)
	})

	t.Run("CreatesParentDirectories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "settings.json")

		store := NewFileStore(path)
		require.NoError(t, store.Set(SettingLicenseToken, "signed-token"))

		_, err := os.Stat(path)
		require.NoError(t, err)
	})

	t.Run("CorruptFileActsEmpty", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		store := NewFileStore(path)
		value, err := store.Get(SettingLicenseToken)

		require.NoError(t, err)
		assert.Empty(t, value)
	})
}
