package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"partsnotifier/config"
	"partsnotifier/helpers"
	"partsnotifier/internal/feed"
	"partsnotifier/internal/rules"
	"partsnotifier/logger"
	"partsnotifier/services/cache"
	"partsnotifier/services/notifier"
	"partsnotifier/services/seen"
	"partsnotifier/services/worker"
)

func main() {
	testMode := flag.Bool("test", false, "send one synthetic notification and exit")
	dryRun := flag.Bool("dry-run", false, "run the pipeline, print decisions, send and persist nothing")
	flag.Parse()

	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	if *testMode && *dryRun {
		log.Fatal().Msg("--test and --dry-run are mutually exclusive")
	}

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	helpers.SetTimeout(cfg.HTTPTimeout)

	// Set up context cancelled on shutdown signals
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Test mode verifies delivery without touching feeds or the seen-set
	if *testMode {
		if cfg.DiscordWebhookURL == "" {
			log.Fatal().Msg("--test requires DISCORD_WEBHOOK_URL")
		}
		notif := notifier.NewDiscordNotifier(cfg.DiscordWebhookURL, cfg.RoleMention, cfg.HTTPTimeout)
		if err := notif.NotifyTest(ctx); err != nil {
			log.Fatal().Err(err).Msg("Test notification failed")
		}
		log.Info().Msg("Test notification sent")
		return
	}

	if !*dryRun && cfg.DiscordWebhookURL == "" {
		log.Fatal().Msg("DISCORD_WEBHOOK_URL must be set (or use --dry-run)")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Bool("dry_run", *dryRun).
		Msg("Starting run")

	// Initialize services
	services, err := initializeServices(ctx, cfg, *dryRun)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	matcher, err := rules.NewMatcher(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid rule configuration")
	}

	sources := []feed.Source{
		feed.NewRSSSource("bapcsalescanada", feed.KindPrimary, cfg.PrimaryFeedURL, services.Cache, cfg.FetchBlock),
		feed.NewRSSSource("canadianhardwareswap", feed.KindSecondary, cfg.SecondaryFeedURL, services.Cache, cfg.FetchBlock),
	}

	w := worker.NewWorker(sources, matcher, services.SeenStore, services.Notifier, *dryRun)
	stats := w.Run(ctx)

	if stats.Errors > 0 {
		log.Warn().Int("errors", stats.Errors).Msg("Run finished with errors")
	}
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	SeenStore seen.Store
	Notifier  notifier.Notifier
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.SeenStore != nil {
		s.SeenStore.Close()
	}
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg *config.Config, dryRun bool) (*Services, error) {
	services := &Services{}

	// Fetch-cooldown cache: shared memcache when configured, otherwise
	// in-process only
	if cfg.MemcacheAddr != "" {
		services.Cache = cache.NewMemcacheService(cfg.MemcacheAddr)
		logger.Default.Info().Str("addr", cfg.MemcacheAddr).Msg("Using memcache cooldown cache")
	} else {
		services.Cache = cache.NewMemoryService()
	}

	// Seen-set store
	switch cfg.SeenStore {
	case config.SeenStoreRedis:
		services.SeenStore = seen.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisSeenKey)
		logger.Default.Info().Str("addr", cfg.RedisAddr).Str("key", cfg.RedisSeenKey).Msg("Using redis seen-set store")
	default:
		services.SeenStore = seen.NewFileStore(cfg.SeenFile)
	}
	if err := services.SeenStore.Load(); err != nil {
		return nil, err
	}

	// Notifier
	if dryRun {
		services.Notifier = notifier.NewDryRunNotifier(os.Stdout)
	} else {
		services.Notifier = notifier.NewDiscordNotifier(cfg.DiscordWebhookURL, cfg.RoleMention, cfg.HTTPTimeout)
	}

	return services, nil
}
