package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	keystoreauth "github.com/hentaiOS/platform-system-security"
	"github.com/hentaiOS/platform-system-security/permission"
)

type infraConfig struct {
	RedisAddr   string `mapstructure:"redis_addr"`
	CacheEnable bool   `mapstructure:"cache_enable"`
	LogLevel    string `mapstructure:"log_level"`
}

func loadInfraConfig() (infraConfig, error) {
	v := viper.New()

	v.SetConfigName("loadtest")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	v.SetEnvPrefix("KSLOAD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("redis_addr", "")
	v.SetDefault("cache_enable", true)
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return infraConfig{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg infraConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return infraConfig{}, fmt.Errorf("unable to decode into struct: %w", err)
	}
	return cfg, nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func main() {
	var (
		namespaces  = flag.Int("namespaces", 1000, "number of policy namespaces to seed")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase (key-check + grant-check)")
	)
	flag.Parse()

	if *namespaces <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "namespaces, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	infra, err := loadInfraConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(infra.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	const (
		callerPrivileged = keystoreauth.SecurityContext("u:r:system_server:s0")
		callerLimited    = keystoreauth.SecurityContext("u:r:untrusted_app:s0")
		ownContext       = keystoreauth.SecurityContext("u:r:keystore:s0")
	)

	backend := keystoreauth.NewStaticBackend(ownContext)
	seedStart := time.Now()
	keyPermNames := make([]string, 0, len(permission.AllKeyPerms()))
	for _, p := range permission.AllKeyPerms() {
		keyPermNames = append(keyPermNames, p.Name())
	}
	backend.AllowAll(callerPrivileged, ownContext, "keystore2_key", keyPermNames)
	backend.AllowAll(callerLimited, ownContext, "keystore2_key", []string{
		permission.KeyPermGetInfo.Name(),
		permission.KeyPermUse.Name(),
	})
	for i := 0; i < *namespaces; i++ {
		target := keystoreauth.SecurityContext(fmt.Sprintf("u:object_r:ns_%d_key:s0", i))
		backend.AddNamespace(int64(i), target)
		backend.AllowAll(callerPrivileged, target, "keystore2_key", keyPermNames)
	}
	logger.Info("seeded backend",
		zap.Int("namespaces", *namespaces),
		zap.Duration("elapsed", time.Since(seedStart)),
	)

	builder := keystoreauth.New().WithBackend(backend)

	var cleanup func()
	if infra.CacheEnable {
		addr := infra.RedisAddr
		if addr == "" {
			mr, err := miniredis.Run()
			if err != nil {
				logger.Fatal("failed to start miniredis", zap.Error(err))
			}
			addr = mr.Addr()
			cleanup = mr.Close
			logger.Info("using miniredis", zap.String("addr", addr))
		} else {
			logger.Info("using redis", zap.String("addr", addr))
		}
		client := redis.NewClient(&redis.Options{Addr: addr})
		builder = builder.WithRedis(client).WithNamespaceCache(true)
		prev := cleanup
		cleanup = func() {
			_ = client.Close()
			if prev != nil {
				prev()
			}
		}
	}
	if cleanup != nil {
		defer cleanup()
	}

	engine, err := builder.WithLatencyHistograms(true).Build()
	if err != nil {
		logger.Fatal("engine build failed", zap.Error(err))
	}
	defer engine.Close()

	keyStats := runKeyCheckPhase(ctx, engine, callerPrivileged, callerLimited, *namespaces, *ops, *concurrency)
	grantStats := runGrantCheckPhase(ctx, engine, callerPrivileged, *namespaces, *ops, *concurrency)

	logPhase(logger, "key_check", keyStats)
	logPhase(logger, "grant_check", grantStats)

	snap := engine.MetricsSnapshot()
	logger.Info("engine counters",
		zap.Uint64("key_allowed", snap.Counters[keystoreauth.MetricKeyCheckAllowed]),
		zap.Uint64("key_denied", snap.Counters[keystoreauth.MetricKeyCheckDenied]),
		zap.Uint64("grant_allowed", snap.Counters[keystoreauth.MetricGrantCheckAllowed]),
		zap.Uint64("grant_denied", snap.Counters[keystoreauth.MetricGrantCheckDenied]),
		zap.Uint64("cache_hits", snap.Counters[keystoreauth.MetricNamespaceCacheHit]),
		zap.Uint64("cache_misses", snap.Counters[keystoreauth.MetricNamespaceCacheMiss]),
		zap.Uint64("audit_dropped", engine.AuditDropped()),
	)
}

func runKeyCheckPhase(ctx context.Context, engine *keystoreauth.Engine, privileged, limited keystoreauth.SecurityContext, namespaces, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		denies    int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	grantVector := permission.NewKeyPermSet(permission.KeyPermUse, permission.KeyPermGetInfo)

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

				caller := privileged
				if r.Intn(4) == 0 {
					caller = limited
				}

				var key keystoreauth.KeyDescriptor
				var vector *permission.KeyPermSet
				switch r.Intn(3) {
				case 0:
					key = keystoreauth.KeyDescriptor{Domain: keystoreauth.DomainApp}
				case 1:
					key = keystoreauth.KeyDescriptor{
						Domain:    keystoreauth.DomainSELinux,
						Namespace: int64(r.Intn(namespaces)),
					}
				default:
					key = keystoreauth.KeyDescriptor{Domain: keystoreauth.DomainGrant}
					vector = &grantVector
				}

				t0 := time.Now()
				err := engine.CheckKeyPermission(ctx, caller, permission.KeyPermUse, key, vector)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&denies, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, denies)
}

func runGrantCheckPhase(ctx context.Context, engine *keystoreauth.Engine, caller keystoreauth.SecurityContext, namespaces, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		denies    int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	requested := permission.NewKeyPermSet(
		permission.KeyPermGetInfo,
		permission.KeyPermUse,
		permission.KeyPermDelete,
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*6151))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}

				key := keystoreauth.KeyDescriptor{Domain: keystoreauth.DomainApp}
				if r.Intn(2) == 0 {
					key = keystoreauth.KeyDescriptor{
						Domain:    keystoreauth.DomainSELinux,
						Namespace: int64(r.Intn(namespaces)),
					}
				}

				t0 := time.Now()
				err := engine.CheckGrantPermission(ctx, caller, requested, key)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&denies, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, denies)
}

type phaseStats struct {
	total   time.Duration
	ops     int
	denies  int64
	p50     time.Duration
	p95     time.Duration
	p99     time.Duration
	opsPerS float64
}

func computeStats(total time.Duration, samples []time.Duration, denies int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:   total,
		ops:     len(samples),
		denies:  denies,
		p50:     percentile(samples, 50),
		p95:     percentile(samples, 95),
		p99:     percentile(samples, 99),
		opsPerS: float64(len(samples)) / total.Seconds(),
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

func logPhase(logger *zap.Logger, name string, s phaseStats) {
	logger.Info("phase complete",
		zap.String("phase", name),
		zap.Int("ops", s.ops),
		zap.Int64("denies", s.denies),
		zap.Duration("total", s.total.Round(time.Millisecond)),
		zap.Float64("ops_per_sec", s.opsPerS),
		zap.Duration("p50", s.p50.Round(time.Microsecond)),
		zap.Duration("p95", s.p95.Round(time.Microsecond)),
		zap.Duration("p99", s.p99.Round(time.Microsecond)),
	)
}
