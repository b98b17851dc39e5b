//go:build integration
// +build integration

package test

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	otpAuth "github.com/MrEthical07/otpAuth"
	"github.com/redis/go-redis/v9"
)

var prefixSeq atomic.Int64

// uniquePrefix keeps runs against shared Redis deployments apart.
func uniquePrefix() string {
	return fmt.Sprintf("it%d-%d", time.Now().UnixNano(), prefixSeq.Add(1))
}

func integrationConfig(prefix string) otpAuth.Config {
	cfg := otpAuth.DefaultConfig()
	cfg.Seed.Memory = 8192
	cfg.Seed.Time = 1
	cfg.Events.Enabled = false
	cfg.Metrics.Enabled = true
	cfg.Registry.RedisPrefix = prefix
	return cfg
}

func fixedClock() otpAuth.Clock {
	now := time.Unix(1700000010, 0)
	return otpAuth.ClockFunc(func() time.Time { return now })
}

func newIntegrationEngine(t *testing.T, rdb redis.UniversalClient, cfg otpAuth.Config) *otpAuth.Engine {
	t.Helper()
	engine, err := otpAuth.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithClock(fixedClock()).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func keyByte(b byte) otpAuth.PublicKey {
	var out otpAuth.PublicKey
	for i := range out {
		out[i] = b
	}
	return out
}

// uniqueKey returns a public key no earlier run has used.
func uniqueKey() otpAuth.PublicKey {
	out := keyByte(0x5a)
	v := uint64(time.Now().UnixNano()) + uint64(prefixSeq.Add(1))
	for i := 0; i < 8; i++ {
		out[i] = byte(v >> (8 * i))
	}
	return out
}

func splitAddrs(s string) []string {
	var addrs []string
	for _, a := range strings.Split(s, ",") {
		if a = strings.TrimSpace(a); a != "" {
			addrs = append(addrs, a)
		}
	}
	return addrs
}
