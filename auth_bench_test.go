package otpAuth

import (
	"context"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func BenchmarkGenerateOTPMemory(b *testing.B) {
	engine, cleanup := newBenchmarkEngine(b, false, PolicyTime)
	defer cleanup()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.GenerateOTP(context.Background(), "alice"); err != nil {
			b.Fatalf("generate failed: %v", err)
		}
	}
}

func BenchmarkGenerateOTPRedis(b *testing.B) {
	engine, cleanup := newBenchmarkEngine(b, true, PolicyTime)
	defer cleanup()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.GenerateOTP(context.Background(), "alice"); err != nil {
			b.Fatalf("generate failed: %v", err)
		}
	}
}

// Counter policy lets every iteration consume a fresh window.
func BenchmarkAuthenticateCounterRedis(b *testing.B) {
	engine, cleanup := newBenchmarkEngine(b, true, PolicyCounter)
	defer cleanup()
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		code, err := engine.GenerateOTP(ctx, "alice")
		if err != nil {
			b.Fatalf("generate failed: %v", err)
		}
		if _, err := engine.Authenticate(ctx, benchKey, code); err != nil {
			b.Fatalf("authenticate failed: %v", err)
		}
	}
}

func BenchmarkAuthenticateRejected(b *testing.B) {
	engine, cleanup := newBenchmarkEngine(b, false, PolicyTime)
	defer cleanup()
	ctx := context.Background()

	code, err := engine.GenerateOTP(ctx, "alice")
	if err != nil {
		b.Fatalf("generate failed: %v", err)
	}
	wrong := (code + 1) % 1000000

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Authenticate(ctx, benchKey, wrong); err == nil {
			b.Fatal("wrong code accepted")
		}
	}
}

func BenchmarkRegisterUser(b *testing.B) {
	engine, cleanup := newBenchmarkEngine(b, false, PolicyTime)
	defer cleanup()
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var key PublicKey
		key[0] = 0xbe
		binary.BigEndian.PutUint64(key[12:], uint64(i)+1)
		if _, err := engine.RegisterUser(ctx, fmt.Sprintf("bench-%d", i), key, "seed"); err != nil {
			b.Fatalf("register failed: %v", err)
		}
	}
}

var benchKey = mustParseKey("0x00000000000000000000000000000000000000be")

func newBenchmarkEngine(tb testing.TB, withRedis bool, policy MovingFactorPolicy) (*Engine, func()) {
	tb.Helper()

	cfg := DefaultConfig()
	cfg.OTP.Policy = policy
	cfg.Seed.Memory = 8 * 1024
	cfg.Seed.Time = 1
	cfg.Seed.Parallelism = 1
	cfg.Metrics.Enabled = false
	cfg.Events.Enabled = false

	builder := New().WithConfig(cfg).WithClock(newFakeClock())
	cleanup := func() {}
	if withRedis {
		mr, err := miniredis.Run()
		if err != nil {
			tb.Fatalf("miniredis.Run failed: %v", err)
		}
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		builder = builder.WithRedis(rdb)
		cleanup = func() {
			_ = rdb.Close()
			mr.Close()
		}
	}

	engine, err := builder.Build()
	if err != nil {
		tb.Fatalf("Build failed: %v", err)
	}
	if _, err := engine.RegisterUser(context.Background(), "alice", benchKey, "correct-seed-123"); err != nil {
		tb.Fatalf("register failed: %v", err)
	}

	return engine, func() {
		engine.Close()
		cleanup()
	}
}
