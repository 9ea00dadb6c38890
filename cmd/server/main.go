// Command server runs the devotional content API.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quiethour/quiethour/internal/ai"
	"github.com/quiethour/quiethour/internal/auth"
	"github.com/quiethour/quiethour/internal/config"
	"github.com/quiethour/quiethour/internal/cookie"
	"github.com/quiethour/quiethour/internal/devotion"
	"github.com/quiethour/quiethour/internal/httpapi"
	"github.com/quiethour/quiethour/internal/logger"
	"github.com/quiethour/quiethour/internal/ratelimiter"
	"github.com/quiethour/quiethour/internal/server"
	"github.com/quiethour/quiethour/internal/storage/mongo"
)

type appConfig struct {
	AppEnv        string   `env:"APP_ENV" envDefault:"development"`
	CookieSecrets []string `env:"COOKIE_SECRETS,required" envSeparator:","`

	// RedisURL enables the shared AI rate limit store; empty falls back to
	// the in-process store.
	RedisURL string `env:"REDIS_URL"`

	AIRateCapacity int           `env:"AI_RATE_CAPACITY" envDefault:"20"`
	AIRateRefill   int           `env:"AI_RATE_REFILL" envDefault:"20"`
	AIRateInterval time.Duration `env:"AI_RATE_INTERVAL" envDefault:"1h"`

	// DevVerifierTokens maps static identity tokens to emails for local
	// development, e.g. "token1=dev@example.com". Ignored in production.
	DevVerifierTokens map[string]string `env:"DEV_VERIFIER_TOKENS" envSeparator:"," envKeyValSeparator:"="`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg appConfig
	config.MustLoad(&cfg)

	var authCfg auth.Config
	config.MustLoad(&authCfg)

	var srvCfg server.Config
	config.MustLoad(&srvCfg)

	var mongoCfg mongo.Config
	config.MustLoad(&mongoCfg)

	production := cfg.AppEnv == "production"

	var log *slog.Logger
	if production {
		log = logger.New(logger.WithProduction("quiethour"))
	} else {
		log = logger.New(logger.WithDevelopment("quiethour"))
	}

	if err := run(ctx, cfg, authCfg, srvCfg, mongoCfg, production, log); err != nil {
		log.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(
	ctx context.Context,
	cfg appConfig,
	authCfg auth.Config,
	srvCfg server.Config,
	mongoCfg mongo.Config,
	production bool,
	log *slog.Logger,
) error {
	client, err := mongo.New(ctx, mongoCfg)
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Warn("mongo disconnect failed", logger.Error(err))
		}
	}()

	store := mongo.NewStore(client.Database(mongoCfg.Database), mongo.DefaultCollection)
	repo := devotion.NewRepository(store,
		devotion.WithLogger(log.With(logger.Component("repository"))))

	cookies, err := cookie.New(cfg.CookieSecrets)
	if err != nil {
		return err
	}

	verifier, err := buildVerifier(cfg, authCfg, production, log)
	if err != nil {
		return err
	}

	authenticator, err := auth.NewAuthenticator(verifier, authCfg.SigningKey,
		auth.WithTTL(authCfg.SessionTTL),
		auth.WithLogger(log.With(logger.Component("auth"))))
	if err != nil {
		return err
	}

	healthchecks := map[string]func(context.Context) error{
		"mongo": mongo.Healthcheck(client),
	}

	limiterStore, redisHealth, err := buildLimiterStore(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisHealth != nil {
		healthchecks["redis"] = redisHealth
	}

	limiter, err := ratelimiter.NewBucket(limiterStore, ratelimiter.Config{
		Capacity:       cfg.AIRateCapacity,
		RefillRate:     cfg.AIRateRefill,
		RefillInterval: cfg.AIRateInterval,
	})
	if err != nil {
		return err
	}

	composer := buildComposer(ctx, log)

	h := httpapi.NewRouter(httpapi.Deps{
		Log:           log,
		Repository:    repo,
		Authenticator: authenticator,
		Allowlist:     auth.NewAllowlist(authCfg.AdminEmails...),
		Cookies:       cookies,
		Composer:      composer,
		AILimiter:     limiter,
		SecureCookies: production,
		Healthchecks:  healthchecks,
	})

	srv, err := server.NewFromConfig(srvCfg, server.WithLogger(log))
	if err != nil {
		return err
	}
	return srv.Start(ctx, h)
}

// buildVerifier wires the identity verifier. Production always uses the
// shared-secret token verifier; development may substitute the static table
// so the app runs without an identity provider.
func buildVerifier(cfg appConfig, authCfg auth.Config, production bool, log *slog.Logger) (auth.Verifier, error) {
	if !production && len(cfg.DevVerifierTokens) > 0 {
		identities := make(map[string]auth.Identity, len(cfg.DevVerifierTokens))
		for token, email := range cfg.DevVerifierTokens {
			identities[token] = auth.Identity{
				UID:           "dev:" + email,
				Email:         email,
				EmailVerified: true,
			}
		}
		log.Warn("using static development verifier", slog.Int("identities", len(identities)))
		return auth.NewStaticVerifier(identities), nil
	}
	return auth.NewTokenVerifier(authCfg.SharedSecret)
}

// buildLimiterStore picks the rate limit store: Redis when configured, else
// in-process memory.
func buildLimiterStore(ctx context.Context, redisURL string) (ratelimiter.Store, func(context.Context) error, error) {
	if redisURL == "" {
		return ratelimiter.NewMemoryStore(), nil, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, nil, err
	}

	store := ratelimiter.NewRedisStore(client)
	return store, store.Healthcheck, nil
}

// buildComposer wires the AI completion client. Completions are optional:
// without an API key the routes respond 503 instead of failing startup.
func buildComposer(ctx context.Context, log *slog.Logger) ai.Composer {
	var aiCfg ai.Config
	if err := config.Load(&aiCfg); err != nil {
		log.Warn("ai completions disabled", logger.Error(err))
		return nil
	}

	composer, err := ai.NewFromConfig(ctx, aiCfg)
	if err != nil {
		log.Warn("ai completions disabled", logger.Error(err))
		return nil
	}
	return composer
}
