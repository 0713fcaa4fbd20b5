package tools

import (
	"fmt"

	"xattrtest/pkg/ceph"
	"xattrtest/pkg/store"
)

// NewStore opens the backend named by cfg.Store. The s3 backend reads its
// endpoint, bucket and credentials from XATTRTEST_S3_* variables.
func NewStore(cfg *Config) (store.Store, error) {
	switch cfg.Store {
	case StoreFS:
		return store.NewFileStore()
	case StoreS3:
		cephCfg, err := ceph.LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("loading s3 config: %w", err)
		}
		return store.NewObjectStore(ceph.NewCephClient(cephCfg), cephCfg.Bucket), nil
	}
	return nil, configErrorf("unknown store %q", cfg.Store)
}
