package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// Runs against a live server when NODECANVAS_TEST_REDIS holds its URL.
func TestRedisCache(t *testing.T) {
	url := os.Getenv("NODECANVAS_TEST_REDIS")
	if url == "" {
		t.Skip("NODECANVAS_TEST_REDIS not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisConfig{URL: url, Prefix: "nodecanvas-test:"})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get() = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted key should miss")
	}
}

func TestRedisCacheBadURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), RedisConfig{URL: "ftp://nope"})
	if err == nil {
		t.Error("invalid URL scheme should fail")
	}
}
