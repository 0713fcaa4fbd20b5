package tools

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xattrtest/pkg/store"
)

func TestNewStoreS3(t *testing.T) {
	t.Setenv("XATTRTEST_S3_ENDPOINT", "http://127.0.0.1:7480")
	t.Setenv("XATTRTEST_S3_BUCKET", "xattrtest")

	cfg := DefaultConfig()
	cfg.Store = StoreS3
	st, err := NewStore(cfg)
	require.NoError(t, err)
	assert.IsType(t, &store.ObjectStore{}, st)
}

func TestNewStoreS3MissingConfig(t *testing.T) {
	t.Setenv("XATTRTEST_S3_ENDPOINT", "unset below")
	require.NoError(t, os.Unsetenv("XATTRTEST_S3_ENDPOINT"))

	cfg := DefaultConfig()
	cfg.Store = StoreS3
	_, err := NewStore(cfg)
	assert.Error(t, err)
}

func TestNewStoreUnknown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store = "tape"
	_, err := NewStore(cfg)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}
