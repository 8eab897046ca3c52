package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemorySetGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	c.Set(ctx, "k", "v", time.Minute)
	got, ok := c.Get(ctx, "k")
	if !ok || got != "v" {
		t.Errorf("Get = (%q, %v), want (v, true)", got, ok)
	}
}

func TestMemoryMiss(t *testing.T) {
	c := NewMemory()
	if _, ok := c.Get(context.Background(), "absent"); ok {
		t.Error("expected miss for absent key")
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	c.Set(ctx, "k", "v", -time.Second)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	c.Set(ctx, "k", "v", time.Minute)
	c.Delete(ctx, "k")
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("expected deleted entry to miss")
	}
}

func TestMemoryOverwrite(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	c.Set(ctx, "k", "v1", time.Minute)
	c.Set(ctx, "k", "v2", time.Minute)
	if got, _ := c.Get(ctx, "k"); got != "v2" {
		t.Errorf("Get after overwrite = %q, want v2", got)
	}
}
