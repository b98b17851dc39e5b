package test

import (
	"context"
	"errors"
	"fmt"
	"time"

	otpAuth "github.com/MrEthical07/otpAuth"
	"github.com/redis/go-redis/v9"
)

// ExampleNew demonstrates engine construction against a shared Redis.
func ExampleNew() {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379"})

	engine, _ := otpAuth.New().
		WithRedis(rdb).
		WithMetricsEnabled(true).
		Build()
	_ = engine
}

// ExampleEngine_Authenticate walks through register, generate and a single
// use of the resulting code.
func ExampleEngine_Authenticate() {
	cfg := otpAuth.DefaultConfig()
	cfg.Seed.Memory = 8192
	cfg.Seed.Time = 1
	cfg.Events.Enabled = false

	fixed := time.Unix(1700000010, 0)
	engine, err := otpAuth.New().
		WithConfig(cfg).
		WithClock(otpAuth.ClockFunc(func() time.Time { return fixed })).
		Build()
	if err != nil {
		fmt.Println("build:", err)
		return
	}
	defer engine.Close()

	ctx := context.Background()
	key, _ := otpAuth.ParsePublicKey("0x1111111111111111111111111111111111111111")
	info, err := engine.RegisterUser(ctx, "alice", key, "correct horse")
	if err != nil {
		fmt.Println("register:", err)
		return
	}
	fmt.Println("registered:", info.Username)

	code, _ := engine.GenerateOTP(ctx, "alice")
	ok, _ := engine.Authenticate(ctx, key, code)
	fmt.Println("authenticated:", ok)

	_, err = engine.Authenticate(ctx, key, code)
	fmt.Println("replay rejected:", errors.Is(err, otpAuth.ErrInvalidOTP))

	// Output:
	// registered: alice
	// authenticated: true
	// replay rejected: true
}

// ExampleEngine_MetricsSnapshot shows how to read in-process metrics counters.
func ExampleEngine_MetricsSnapshot() {
	var engine *otpAuth.Engine
	snapshot := engine.MetricsSnapshot()
	_ = snapshot.Counters[otpAuth.MetricAuthSuccess]
}
