package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/proppilot/internal/storage"
)

func TestLoadWithoutStoredValueUsesDefaults(t *testing.T) {
	store, err := Load(storage.NewMemoryStore(), nil)
	require.NoError(t, err)

	assert.Equal(t, Defaults(), store.Current())
	assert.False(t, store.HasChanges())
}

func TestUpdateSaveRoundTrip(t *testing.T) {
	backend := storage.NewMemoryStore()
	store, err := Load(backend, nil)
	require.NoError(t, err)

	store.Update(func(s *Settings) { s.Theme = "dark"; s.Language = "fr" })
	require.NoError(t, store.Toggle("twoFactorAuth"))
	assert.True(t, store.HasChanges())

	require.NoError(t, store.Save())
	assert.False(t, store.HasChanges())

	reloaded, err := Load(backend, nil)
	require.NoError(t, err)
	want := Defaults()
	want.Theme = "dark"
	want.Language = "fr"
	want.TwoFactorAuth = true
	assert.Equal(t, want, reloaded.Current())
}

func TestSaveRejectsUnknownTheme(t *testing.T) {
	backend := storage.NewMemoryStore()
	store, err := Load(backend, nil)
	require.NoError(t, err)

	store.Update(func(s *Settings) { s.Theme = "neon" })

	assert.Error(t, store.Save())
	assert.True(t, store.HasChanges())
	_, ok, _ := backend.Get(StorageKey)
	assert.False(t, ok)
}

func TestToggleUnknownFlag(t *testing.T) {
	store, err := Load(storage.NewMemoryStore(), nil)
	require.NoError(t, err)

	assert.Error(t, store.Toggle("darkMode"))
	assert.False(t, store.HasChanges())
}

func TestGarbledStoredSettingsFallBack(t *testing.T) {
	backend := storage.NewMemoryStore()
	require.NoError(t, backend.Set(StorageKey, `{"theme":"plaid"}`))

	store, err := Load(backend, nil)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), store.Current())
}

func TestFlagsAreSorted(t *testing.T) {
	assert.Equal(t, []string{"analytics", "autoSave", "dataExport", "emailNotifications", "pushNotifications", "twoFactorAuth"}, Flags())
}
