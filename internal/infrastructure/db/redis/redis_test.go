package redis

import (
	"context"
	"testing"
	"time"
)

func TestConfigOptions(t *testing.T) {
	opts := Config{Addr: "cache:6379", Password: "pw", DB: 2, PoolSize: 4}.options()
	if opts.Addr != "cache:6379" || opts.Password != "pw" || opts.DB != 2 || opts.PoolSize != 4 {
		t.Fatalf("unexpected options %+v", opts)
	}

	if got := (Config{Addr: "cache:6379"}).options().PoolSize; got != defaultPoolSize {
		t.Fatalf("pool size = %d, want %d", got, defaultPoolSize)
	}
}

func TestConnect_EmptyAddr(t *testing.T) {
	if _, err := Connect(context.Background(), Config{}); err == nil {
		t.Fatal("expected error for empty address")
	}
}

func TestConnect_PingFailure(t *testing.T) {
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", PingTimeout: 200 * time.Millisecond})
	if err == nil {
		t.Fatal("expected ping error against a closed port")
	}
}
