package cache

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/matzehuels/noisering/pkg/config"
)

// FrameOpts are the output settings that change a frame's encoding.
type FrameOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
	Cols   int     `json:"cols,omitempty"`
	Rows   int     `json:"rows,omitempty"`
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) (string, error) {
	data, err := json.Marshal(parts)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%016x", prefix, xxhash.Sum64(data)), nil
}

// FrameKey returns the cache key of frame t rendered with cfg and opts.
func FrameKey(cfg config.Config, t int, opts FrameOpts) (string, error) {
	return hashKey("frame", cfg, t, opts)
}

// Hash returns a 16-character hex digest of data, suitable as an ETag.
func Hash(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
