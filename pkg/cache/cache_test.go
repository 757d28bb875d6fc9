package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	defer c.Close()

	// Miss on empty cache
	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("empty cache should miss")
	}

	// Set then Get
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("expected hit after Set")
	}
	if string(data) != "value" {
		t.Errorf("unexpected data: %s", data)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}

	// Delete
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("should miss after Delete")
	}

	// Deleting a missing key is fine
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestMemoryCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	defer c.Close()

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(time.Millisecond)

	_, hit, err := c.Get(ctx, "short")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expired entry should miss")
	}

	// Zero TTL means no expiration
	if err := c.Set(ctx, "forever", []byte("y"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "forever")
	if !hit {
		t.Error("zero-TTL entry should not expire")
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("empty cache should miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("expected hit after Set")
	}
	if string(data) != "value" {
		t.Errorf("unexpected data: %s", data)
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("should miss after Delete")
	}
}

func TestFileCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(time.Millisecond)

	_, hit, err := c.Get(ctx, "short")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expired entry should miss")
	}
}

func TestFileCachePurge(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	for _, key := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, key, []byte(key), time.Hour); err != nil {
			t.Fatalf("Set error: %v", err)
		}
	}
	if err := c.Purge(); err != nil {
		t.Fatalf("Purge error: %v", err)
	}
	for _, key := range []string{"a", "b", "c"} {
		_, hit, _ := c.Get(ctx, key)
		if hit {
			t.Errorf("key %q should be gone after Purge", key)
		}
	}
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// SequenceKey should be deterministic
	sk1 := k.SequenceKey("1 2 [3 4]*2", SequenceKeyOpts{MaxDepth: 10, RestSymbol: "-", Seed: 42})
	sk2 := k.SequenceKey("1 2 [3 4]*2", SequenceKeyOpts{MaxDepth: 10, RestSymbol: "-", Seed: 42})
	if sk1 != sk2 {
		t.Error("SequenceKey should be deterministic")
	}

	// Options belong in the key
	sk3 := k.SequenceKey("1 2 [3 4]*2", SequenceKeyOpts{MaxDepth: 20, RestSymbol: "-", Seed: 42})
	if sk1 == sk3 {
		t.Error("Different SequenceKeyOpts should produce different keys")
	}
	sk4 := k.SequenceKey("1 2 [3 4]*2", SequenceKeyOpts{MaxDepth: 10, RestSymbol: "-", Seed: 7})
	if sk1 == sk4 {
		t.Error("Different seeds should produce different keys")
	}

	// So does the pattern itself
	sk5 := k.SequenceKey("5 6 7", SequenceKeyOpts{MaxDepth: 10, RestSymbol: "-", Seed: 42})
	if sk1 == sk5 {
		t.Error("Different patterns should produce different keys")
	}

	// ArtifactKey
	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}

	// Stages must not collide even for identical inputs
	if k.SequenceKey("x", SequenceKeyOpts{}) == k.ArtifactKey("x", ArtifactKeyOpts{}) {
		t.Error("sequence and artifact keys should not collide")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "user:123:")

	// All keys should be prefixed
	sk := scoped.SequenceKey("1 2 3", SequenceKeyOpts{})
	if len(sk) < 9 || sk[:9] != "user:123:" {
		t.Errorf("ScopedKeyer SequenceKey should be prefixed: %s", sk)
	}
	if sk[9:] != inner.SequenceKey("1 2 3", SequenceKeyOpts{}) {
		t.Error("ScopedKeyer should delegate to inner keyer")
	}

	ak := scoped.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg"})
	if len(ak) < 9 || ak[:9] != "user:123:" {
		t.Errorf("ScopedKeyer ArtifactKey should be prefixed: %s", ak)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.SequenceKey("1 2 3", SequenceKeyOpts{})
	want := "prefix:" + NewDefaultKeyer().SequenceKey("1 2 3", SequenceKeyOpts{})
	if key != want {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(ErrBackend)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != ErrBackend.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(errors.New("plain")) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	plain := errors.New("fatal")
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return plain
	})
	if err != plain {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrBackend)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

// flakyCache fails a configurable number of times before succeeding,
// standing in for a backend with transient outages.
type flakyCache struct {
	inner    Cache
	failures int
	calls    int
}

func (c *flakyCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.calls++
	if c.calls <= c.failures {
		return nil, false, Retryable(ErrBackend)
	}
	return c.inner.Get(ctx, key)
}

func (c *flakyCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.calls++
	if c.calls <= c.failures {
		return Retryable(ErrBackend)
	}
	return c.inner.Set(ctx, key, data, ttl)
}

func (c *flakyCache) Delete(ctx context.Context, key string) error {
	c.calls++
	if c.calls <= c.failures {
		return Retryable(ErrBackend)
	}
	return c.inner.Delete(ctx, key)
}

func (c *flakyCache) Close() error { return c.inner.Close() }

func TestWithRetry(t *testing.T) {
	ctx := context.Background()

	mem := NewMemoryCache()
	defer mem.Close()
	if err := mem.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	// A single transient failure is absorbed by the retry layer.
	flaky := &flakyCache{inner: mem, failures: 1}
	c := WithRetry(flaky)
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("expected hit after retry")
	}
	if string(data) != "value" {
		t.Errorf("unexpected data: %s", data)
	}
	if flaky.calls != 2 {
		t.Errorf("backend calls = %d, want 2", flaky.calls)
	}
}

func TestWithRetryNonRetryable(t *testing.T) {
	ctx := context.Background()

	// Errors the backend did not mark retryable pass straight through.
	plain := errors.New("corrupt entry")
	calls := 0
	c := WithRetry(&funcCache{get: func() ([]byte, bool, error) {
		calls++
		return nil, false, plain
	}})
	_, _, err := c.Get(ctx, "key")
	if err != plain {
		t.Errorf("Get error = %v, want passthrough", err)
	}
	if calls != 1 {
		t.Errorf("backend calls = %d, want 1", calls)
	}
}

// funcCache adapts a Get func to the Cache interface for tests.
type funcCache struct {
	get func() ([]byte, bool, error)
}

func (c *funcCache) Get(ctx context.Context, key string) ([]byte, bool, error) { return c.get() }
func (c *funcCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}
func (c *funcCache) Delete(ctx context.Context, key string) error { return nil }
func (c *funcCache) Close() error                                 { return nil }

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrBackend)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
