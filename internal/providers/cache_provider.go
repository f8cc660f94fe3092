package providers

import (
	"fmt"
	"unsafe"

	"github.com/coocood/freecache"
	"github.com/klauspost/compress/zstd"

	"adlens/internal/structures"
)

type CacheProviderInterface interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

// CacheProvider caches scrape payloads keyed by the composite query key.
// Values are zstd-compressed: a single scrape result is a large JSON array
// and compresses well. Eviction is TTL-based (cache.ttl) plus freecache LRU
// when the configured size is exceeded.
type CacheProvider struct {
	cache   *freecache.Cache
	ttl     int
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func NewCacheProvider(conf *structures.Config, logger Logger) (CacheProviderInterface, error) {
	if !conf.Cache.Enabled || conf.Cache.Size <= 0 {
		logger.Infof(TypeApp, "Cache disabled")
		return &noopCache{}, nil
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	sizeBytes := conf.Cache.Size * 1024 * 1024
	ttl := max(int(conf.Cache.TTL.Seconds()), 1)

	logger.Infof(TypeApp, "Cache initialized: %dMB, TTL=%ds", conf.Cache.Size, ttl)

	return &CacheProvider{
		cache:   freecache.NewCache(sizeBytes),
		ttl:     ttl,
		encoder: encoder,
		decoder: decoder,
	}, nil
}

// unsafeStringToBytes converts string to []byte without allocation.
// Safe when the result is only read (not modified), which is the case
// for freecache since it copies keys internally.
func unsafeStringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func (c *CacheProvider) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get(unsafeStringToBytes(key))
	if err != nil {
		return nil, false
	}
	decoded, err := c.decoder.DecodeAll(val, nil)
	if err != nil {
		return nil, false
	}
	return decoded, true
}

func (c *CacheProvider) Set(key string, value []byte) {
	compressed := c.encoder.EncodeAll(value, make([]byte, 0, len(value)/2))
	_ = c.cache.Set(unsafeStringToBytes(key), compressed, c.ttl)
}

type noopCache struct{}

func (n *noopCache) Get(_ string) ([]byte, bool) { return nil, false }
func (n *noopCache) Set(_ string, _ []byte)      {}
