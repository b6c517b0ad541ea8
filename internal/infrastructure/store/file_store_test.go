package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"network_manager/internal/domain/entity"
	"network_manager/internal/infrastructure/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadReturnsNilWhenFileMissing(t *testing.T) {
	t.Parallel()

	s := store.NewFileStore(filepath.Join(t.TempDir(), "state.json"), zap.NewNop())

	st, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "state.json")
	s := store.NewFileStore(path, zap.NewNop())

	generationID := "59144"
	saved := entity.PersistedState{
		ChainGenerationID:  &generationID,
		ConnectivityStatus: entity.StatusAvailable,
		EndpointConfig: entity.EndpointConfig{
			Kind:     entity.EndpointCustom,
			ChainID:  "0xe708",
			Ticker:   "ETH",
			Nickname: "Linea via local node",
			RPCURL:   "https://rpc.example.com/linea",
		},
		ConnectivityState: entity.ConnectivityState{
			Status:       entity.StatusAvailable,
			Capabilities: map[string]bool{entity.CapabilityDynamicFee: true},
		},
		CustomEndpoints: map[string]entity.CustomEndpoint{
			"ep-1": {
				ID:      "ep-1",
				RPCURL:  "https://rpc.example.com/linea",
				ChainID: "0xe708",
				Ticker:  "ETH",
			},
		},
	}

	require.NoError(t, s.Save(saved))

	loaded, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, saved, *loaded)
}

func TestLoadInitializesNilEndpointRegistry(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"connectivityStatus":"unknown"}`), 0o644))

	s := store.NewFileStore(path, zap.NewNop())
	loaded, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.NotNil(t, loaded.CustomEndpoints)
	assert.Empty(t, loaded.CustomEndpoints)
}

func TestLoadFailsOnCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := store.NewFileStore(path, zap.NewNop())
	_, err := s.Load()
	assert.Error(t, err)
}

func TestSaveOverwritesPreviousState(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	s := store.NewFileStore(path, zap.NewNop())

	require.NoError(t, s.Save(entity.PersistedState{ConnectivityStatus: entity.StatusUnavailable}))
	require.NoError(t, s.Save(entity.PersistedState{ConnectivityStatus: entity.StatusAvailable}))

	loaded, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, entity.StatusAvailable, loaded.ConnectivityStatus)
}
