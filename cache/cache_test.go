package cache

import (
	"testing"
	"time"
)

func TestCache_SetAndGet(t *testing.T) {
	c := New[string](time.Second, 0)
	defer c.Close()

	c.Set("key1", "value1")

	val, found := c.Get("key1")
	if !found {
		t.Error("Expected to find key1")
	}
	if val != "value1" {
		t.Errorf("Expected value1, got %v", val)
	}
}

func TestCache_Expiration(t *testing.T) {
	c := New[string](time.Minute, 0)
	defer c.Close()

	now := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return now }

	c.Set("key1", "value1")
	if _, found := c.Get("key1"); !found {
		t.Error("Expected to find key1 immediately")
	}

	now = now.Add(time.Minute)
	if _, found := c.Get("key1"); found {
		t.Error("Expected key1 to be expired at the TTL boundary")
	}
}

func TestCache_Delete(t *testing.T) {
	c := New[[]byte](time.Second, 0)
	defer c.Close()

	c.Set("key1", []byte("v"))
	c.Delete("key1")

	if _, found := c.Get("key1"); found {
		t.Error("Expected key1 to be deleted")
	}
}

func TestCache_LenSkipsExpired(t *testing.T) {
	c := New[int](time.Minute, 0)
	defer c.Close()

	now := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	now = now.Add(30 * time.Second)
	c.Set("b", 2)
	now = now.Add(45 * time.Second)

	if got := c.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}

	c.sweep()
	if _, found := c.store.Load("a"); found {
		t.Error("Expected sweep to remove expired entry")
	}
}

func TestCache_CloseIsIdempotent(t *testing.T) {
	c := New[int](time.Second, 10*time.Millisecond)
	c.Close()
	c.Close()
}
