package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	otpAuth "github.com/MrEthical07/otpAuth"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"
)

type identityState struct {
	key otpAuth.PublicKey
	mu  sync.Mutex
}

func main() {
	var (
		identities  = flag.Int("identities", 1000, "number of identities to register")
		concurrency = flag.Int("concurrency", 64, "number of concurrent workers")
		ops         = flag.Int("ops", 50000, "generate+authenticate operations")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "otplt", "registry key prefix")
		configPath  = flag.String("config", "", "optional YAML config file")
		opsRate     = flag.Float64("rate", 0, "authenticate phase ops per second across all workers; 0 means unlimited")
	)
	flag.Parse()

	if *identities <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "identities, concurrency, and ops must be > 0")
		os.Exit(2)
	}
	if *opsRate < 0 {
		fmt.Fprintln(os.Stderr, "rate must be >= 0")
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx := context.Background()

	cfg := otpAuth.DefaultConfig()
	if *configPath != "" {
		loaded, err := otpAuth.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	// Counter policy lets one identity authenticate many times per period.
	cfg.OTP.Policy = otpAuth.PolicyCounter
	cfg.Registry.RedisPrefix = *prefix
	cfg.Seed.Memory = 8 * 1024
	cfg.Seed.Time = 1
	cfg.Events.Enabled = false
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	if err := waitForRedis(ctx, client, logger); err != nil {
		fmt.Fprintf(os.Stderr, "redis not reachable: %v\n", err)
		os.Exit(1)
	}

	engine, err := otpAuth.New().
		WithConfig(cfg).
		WithRedis(client).
		WithLogger(logger).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine build: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	states := make([]identityState, *identities)
	fmt.Printf("registering %d identities...\n", *identities)
	registerStats := runRegisterPhase(ctx, engine, states, *concurrency)

	var pacer *rate.Limiter
	if *opsRate > 0 {
		pacer = rate.NewLimiter(rate.Limit(*opsRate), *concurrency)
	}
	authStats := runAuthenticatePhase(ctx, engine, states, *ops, *concurrency, pacer)

	fmt.Println("---- results ----")
	printStats("register", registerStats)
	printStats("authenticate", authStats)

	snap := engine.MetricsSnapshot()
	fmt.Printf("auth_success=%d auth_invalid=%d auth_replay=%d store_errors=%d\n",
		snap.Counters[otpAuth.MetricAuthSuccess],
		snap.Counters[otpAuth.MetricAuthInvalid],
		snap.Counters[otpAuth.MetricAuthReplay],
		snap.Counters[otpAuth.MetricStoreError],
	)
}

// waitForRedis pings with capped Fibonacci backoff so the tool can start
// alongside a Redis container that is still booting.
func waitForRedis(ctx context.Context, client redis.UniversalClient, logger *slog.Logger) error {
	b := retry.NewFibonacci(100 * time.Millisecond)
	b = retry.WithCappedDuration(2*time.Second, b)
	b = retry.WithMaxDuration(15*time.Second, b)

	return retry.Do(ctx, b, func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis ping failed, retrying", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}

func runRegisterPhase(ctx context.Context, engine *otpAuth.Engine, states []identityState, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, len(states))
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= len(states) {
					return
				}
				states[i].key = keyFor(i)
				t0 := time.Now()
				_, err := engine.RegisterUser(ctx, usernameFor(i), states[i].key, fmt.Sprintf("seed-%d", i))
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

// runAuthenticatePhase paces operations through pacer when it is non-nil.
func runAuthenticatePhase(ctx context.Context, engine *otpAuth.Engine, states []identityState, ops, concurrency int, pacer *rate.Limiter) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				if pacer != nil {
					if err := pacer.Wait(ctx); err != nil {
						return
					}
				}
				idx := r.Intn(len(states))
				state := &states[idx]

				// generate and authenticate must not interleave for one identity
				state.mu.Lock()
				t0 := time.Now()
				code, err := engine.GenerateOTP(ctx, usernameFor(idx))
				if err == nil {
					_, err = engine.Authenticate(ctx, state.key, code)
				}
				d := time.Since(t0)
				state.mu.Unlock()
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}

				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}

func usernameFor(i int) string {
	return fmt.Sprintf("user-%d", i)
}

func keyFor(i int) otpAuth.PublicKey {
	var out otpAuth.PublicKey
	for j := 0; j < len(out); j++ {
		out[j] = byte((i>>(8*(j%4)))&0xFF) ^ byte(j*29+7)
	}
	return out
}
