package storagesvc

import (
	"github.com/pkg/errors"

	"github.com/trezcool/divyang/core"
)

// New returns the BlobStore selected by conf.Driver.
func New(conf core.StorageConfig) (core.BlobStore, error) {
	switch conf.Driver {
	case "", "local":
		return NewLocalStore(conf.LocalRoot, conf.PublicBaseURL)
	case "supabase":
		if conf.SupabaseURL == "" || conf.SupabaseKey == "" || conf.Bucket == "" {
			return nil, errors.New("supabase storage requires an URL, a key and a bucket")
		}
		return NewSupabaseStore(conf.SupabaseURL, conf.SupabaseKey, conf.Bucket), nil
	default:
		return nil, errors.Errorf("unknown storage driver %q", conf.Driver)
	}
}
