package pipeline

import (
	"context"
	"testing"
	"time"
)

func TestOutputCache_PutGet(t *testing.T) {
	c := NewOutputCache(time.Hour)
	key := CacheKey("abc", "html")
	c.Put(key, []byte("<p>x</p>"))

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected entry to be found")
	}
	if string(got) != "<p>x</p>" {
		t.Errorf("expected %q, got %q", "<p>x</p>", got)
	}
	if _, ok := c.Get(CacheKey("abc", "text")); ok {
		t.Error("expected formats to be cached separately")
	}
}

func TestOutputCache_TTLCleanup(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewOutputCache(time.Minute)
	c.now = func() time.Time { return now }

	c.Put("old", []byte("1"))
	c.Put("used", []byte("2"))
	now = now.Add(45 * time.Second)
	c.Get("used")
	now = now.Add(30 * time.Second)
	c.Put("new", []byte("3"))

	c.Cleanup()

	if _, ok := c.Get("old"); ok {
		t.Error("expected expired entry to be cleaned up")
	}
	if _, ok := c.Get("used"); !ok {
		t.Error("expected recently read entry to survive cleanup")
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", c.Len())
	}
}

func TestOutputCache_RunStopsWithContext(t *testing.T) {
	c := NewOutputCache(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected Run to return after cancel")
	}
}
