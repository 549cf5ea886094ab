package imageresize

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/tendant/simple-resize/pkg/imageresize/urlstrategy"
)

// fakeBackend is a scriptable Backend for package-internal tests
type fakeBackend struct {
	mu       sync.Mutex
	objects  map[string][]byte
	metas    map[string]*ObjectMeta
	metaErr  map[string]error
	uploads  []UploadParams
	base     string
	metaHits map[string]int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		objects:  map[string][]byte{},
		metas:    map[string]*ObjectMeta{},
		metaErr:  map[string]error{},
		metaHits: map[string]int{},
		base:     "http://files.test",
	}
}

func (f *fakeBackend) put(key string, data []byte, ts time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	f.metas[key] = &ObjectMeta{Key: key, Size: int64(len(data)), Timestamp: ts}
}

func (f *fakeBackend) GetObjectMeta(ctx context.Context, key string) (*ObjectMeta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metaHits[key]++
	if err, ok := f.metaErr[key]; ok {
		return nil, err
	}
	meta, ok := f.metas[key]
	if !ok {
		return nil, &StorageError{Backend: "fake", Key: key, Op: "meta", Err: ErrObjectNotFound}
	}
	return meta, nil
}

func (f *fakeBackend) Exists(ctx context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok, nil
}

func (f *fakeBackend) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeBackend) UploadWithParams(ctx context.Context, r io.Reader, params UploadParams) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[params.ObjectKey] = data
	f.metas[params.ObjectKey] = &ObjectMeta{Key: params.ObjectKey, Size: int64(len(data)), ContentType: params.MimeType, Timestamp: time.Unix(2000000000, 0)}
	f.uploads = append(f.uploads, params)
	return nil
}

func (f *fakeBackend) Kind() urlstrategy.Kind {
	return urlstrategy.KindLocal
}

func (f *fakeBackend) PublicBaseURL() string {
	return f.base
}

// mapCache is a Cache without expiry that can be told to fail
type mapCache struct {
	mu      sync.Mutex
	entries map[string]time.Time
	ttls    map[string]time.Duration
	fail    error
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string]time.Time{}, ttls: map[string]time.Duration{}}
}

func (c *mapCache) Get(ctx context.Context, key string) (time.Time, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return time.Time{}, false, c.fail
	}
	ts, ok := c.entries[key]
	return ts, ok, nil
}

func (c *mapCache) Put(ctx context.Context, key string, ts time.Time, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return c.fail
	}
	c.entries[key] = ts
	c.ttls[key] = ttl
	return nil
}

func (c *mapCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

var errBoom = errors.New("boom")
