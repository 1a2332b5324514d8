package cache

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

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
	base := ArtifactKeyOpts{Format: "svg", Width: 900, Height: 600, ColorBy: "target"}

	a := k.ArtifactKey("abc", base)
	if a != k.ArtifactKey("abc", base) {
		t.Error("ArtifactKey should be deterministic")
	}
	if !strings.HasPrefix(a, "artifact:svg:") {
		t.Errorf("ArtifactKey = %q, want artifact:svg: prefix", a)
	}

	variants := []ArtifactKeyOpts{
		{Format: "png", Width: 900, Height: 600, ColorBy: "target"},
		{Format: "svg", Width: 901, Height: 600, ColorBy: "target"},
		{Format: "svg", Width: 900, Height: 600, ColorBy: "source"},
		{Format: "svg", Width: 900, Height: 600, ColorBy: "target", Palette: []string{"#000000"}},
		{Format: "svg", Width: 900, Height: 600, ColorBy: "target", PadAngle: 0.1},
	}
	for _, v := range variants {
		if k.ArtifactKey("abc", v) == a {
			t.Errorf("options %+v should change the key", v)
		}
	}
	if k.ArtifactKey("abd", base) == a {
		t.Error("dataset hash should change the key")
	}

	l := k.LayoutKey("abc", LayoutKeyOpts{PadAngle: 0.05})
	if !strings.HasPrefix(l, "layout:") {
		t.Errorf("LayoutKey = %q", l)
	}
	if l == k.LayoutKey("abc", LayoutKeyOpts{PadAngle: 0.02}) {
		t.Error("pad angle should change the layout key")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	k := NewScopedKeyer(inner, "chordwheel:")
	opts := LayoutKeyOpts{PadAngle: 0.05}
	if got, want := k.LayoutKey("h", opts), "chordwheel:"+inner.LayoutKey("h", opts); got != want {
		t.Errorf("LayoutKey = %q, want %q", got, want)
	}
	aopts := ArtifactKeyOpts{Format: "json"}
	if got, want := k.ArtifactKey("h", aopts), "chordwheel:"+inner.ArtifactKey("h", aopts); got != want {
		t.Errorf("ArtifactKey = %q, want %q", got, want)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	k := NewScopedKeyer(nil, "p:")
	if got := k.LayoutKey("h", LayoutKeyOpts{}); !strings.HasPrefix(got, "p:layout:") {
		t.Errorf("LayoutKey = %q", got)
	}
}

// exerciseCache runs the behavior every backend shares.
func exerciseCache(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("v1"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v1" {
		t.Fatalf("Get(k) = %q, %v, %v", data, hit, err)
	}
	if err := c.Set(ctx, "k", []byte("v2"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if data, _, _ := c.Get(ctx, "k"); string(data) != "v2" {
		t.Errorf("overwrite: got %q", data)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("hit after Delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete(missing): %v", err)
	}

	if cl, ok := c.(Clearer); ok {
		_ = c.Set(ctx, "a", []byte("1"), time.Hour)
		_ = c.Set(ctx, "b", []byte("2"), time.Hour)
		if err := cl.Clear(ctx); err != nil {
			t.Fatalf("Clear: %v", err)
		}
		for _, key := range []string{"a", "b"} {
			if _, hit, _ := c.Get(ctx, key); hit {
				t.Errorf("%s survived Clear", key)
			}
		}
	}
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	exerciseCache(t, c)
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	fc := c.(*FileCache)
	if fc.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", fc.Dir(), dir)
	}
	_ = c.Set(ctx, "k", []byte("v"), time.Hour)
	if err := os.WriteFile(fc.path("k"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v", hit, err)
	}
	if _, err := os.Stat(fc.path("k")); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheClearMissingDir(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCache(dir + "/sub")
	if err != nil {
		t.Fatal(err)
	}
	_ = os.RemoveAll(dir + "/sub")
	if err := c.(Clearer).Clear(context.Background()); err != nil {
		t.Errorf("Clear on missing dir: %v", err)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Hour, DefaultCleanupInterval)
	defer c.Close()
	exerciseCache(t, c)
}

func TestMemoryCacheCopiesData(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0, time.Minute)
	buf := []byte("abc")
	_ = c.Set(ctx, "k", buf, 0)
	buf[0] = 'x'
	got, _, _ := c.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("Get = %q, want abc", got)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("CHORDWHEEL_TEST_REDIS")
	if addr == "" {
		t.Skip("CHORDWHEEL_TEST_REDIS not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisConfig{Addr: addr, Prefix: "chordwheel-test:"})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	exerciseCache(t, c)
}

func TestRedisCacheClearNeedsPrefix(t *testing.T) {
	c := NewRedisCacheFromClient(nil, "")
	if err := c.Clear(context.Background()); err == nil {
		t.Error("Clear without prefix should fail")
	}
}

func TestRedisOptions(t *testing.T) {
	opts, err := redisOptions(RedisConfig{Addr: "redis://:secret@example.com:6380/2"})
	if err != nil {
		t.Fatal(err)
	}
	if opts.Addr != "example.com:6380" || opts.DB != 2 || opts.Password != "secret" {
		t.Errorf("opts = %+v", opts)
	}
	opts, err = redisOptions(RedisConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if opts.Addr != "localhost:6379" {
		t.Errorf("default addr = %q", opts.Addr)
	}
	if _, err := redisOptions(RedisConfig{Addr: "redis://[bad"}); err == nil {
		t.Error("expected parse error")
	}
}
