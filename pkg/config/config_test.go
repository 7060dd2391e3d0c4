package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaultsWithNoFile(t *testing.T) {
	t.Setenv("LISTSTORE_OBJECT_STORE_BUCKET", "my-bucket")
	t.Setenv("LISTSTORE_OBJECT_STORE_ACCESS_KEY", "ak")
	t.Setenv("LISTSTORE_OBJECT_STORE_SECRET_KEY", "sk")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "my-bucket", cfg.ObjectStore.Bucket)
	assert.Equal(t, "us-east-1", cfg.ObjectStore.Region)
	assert.Equal(t, 30*time.Second, cfg.ObjectStore.RequestTimeout)
	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.NotEmpty(t, cfg.Cache.Dir)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestValidateRejectsMissingBucket(t *testing.T) {
	cfg := &Config{
		Cache: CacheConfig{Dir: "/tmp/x"},
	}
	err := Validate(cfg)
	assert.Error(t, err)
}

func TestValidateAcceptsInMemoryCacheWithoutDir(t *testing.T) {
	cfg := &Config{
		ObjectStore: ObjectStoreConfig{Bucket: "b", Region: "us-east-1"},
		Cache:       CacheConfig{InMemory: true},
	}
	assert.NoError(t, Validate(cfg))
}
