package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

func exercise(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()
	if err := c.Set(ctx, "metadata:subjects:CBSE", []string{"Mathematics", "Science"}); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "other:key", 7); err != nil {
		t.Fatal(err)
	}

	var got []string
	ok, err := c.Get(ctx, "metadata:subjects:CBSE", &got)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if len(got) != 2 || got[1] != "Science" {
		t.Fatalf("got %v", got)
	}

	if err := c.InvalidatePrefix(ctx, "metadata:"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := c.Get(ctx, "metadata:subjects:CBSE", &got); ok {
		t.Fatal("invalidated key still cached")
	}
	var n int
	if ok, _ := c.Get(ctx, "other:key", &n); !ok || n != 7 {
		t.Fatal("unrelated key was invalidated")
	}
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory(time.Minute))
}

func TestMemoryExpires(t *testing.T) {
	c := NewMemory(time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }
	ctx := context.Background()
	if err := c.Set(ctx, "k", "v"); err != nil {
		t.Fatal(err)
	}
	now = now.Add(2 * time.Minute)
	var v string
	if ok, _ := c.Get(ctx, "k", &v); ok {
		t.Fatal("entry should have expired")
	}
}

func TestRedis(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	c, err := NewRedis(context.Background(), url, time.Minute, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	exercise(t, c)
}
