package cache

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestMemorySetGet(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Error("Get on empty cache reported a hit")
	}

	c.Set(ctx, "k", []byte("v"), time.Minute)
	got, ok := c.Get(ctx, "k")
	if !ok || !bytes.Equal(got, []byte("v")) {
		t.Errorf("Get = %q, %v; want v, true", got, ok)
	}

	c.Set(ctx, "k", []byte("v2"), time.Minute)
	if got, _ := c.Get(ctx, "k"); !bytes.Equal(got, []byte("v2")) {
		t.Errorf("overwrite not applied, got %q", got)
	}
}

func TestMemoryExpiry(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"), time.Nanosecond)
	time.Sleep(10 * time.Millisecond)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("expired entry still served")
	}
}

func TestMemoryDelete(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"), time.Minute)
	c.Delete(ctx, "k")
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("deleted entry still served")
	}

	// Deleting an absent key must not panic.
	c.Delete(ctx, "missing")
}
