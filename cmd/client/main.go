package main

import (
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"gofront/internal/api"
	"gofront/internal/gateway"
	"gofront/internal/notify"
	"gofront/internal/rtc"
	"gofront/internal/store"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
)

// logSink is the stand-in platform layer: it records the side effects
// the engine decides on. A real frontend swaps in audio and OS
// notification calls here.
type logSink struct {
	log *zap.Logger
}

func (s *logSink) PlaySound(name string) {
	s.log.Info("sound", zap.String("name", name))
}

func (s *logSink) Notify(title, body string) {
	s.log.Info("notification", zap.String("title", title), zap.String("body", body))
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	apiURL := envOr("API_URL", "http://localhost:8080")
	gatewayURL := envOr("GATEWAY_URL", "ws://localhost:8080/ws")
	token := os.Getenv("TOKEN")
	breadcrumbPath := envOr("BREADCRUMB_PATH", "navigation.json")

	capacity := 0
	if raw := os.Getenv("CACHE_CAPACITY"); raw != "" {
		capacity, _ = strconv.Atoi(raw)
	}
	window := notify.DefaultBatchWindow
	if raw := os.Getenv("NOTIF_BATCH_WINDOW"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			window = parsed
		}
	}

	notifier := notify.New(&logSink{log: logger}, window, logger)
	notifier.SetEnabled(true)
	notifier.SetPermitted(true)

	replica := store.New(store.Config{
		API:            api.New(apiURL, token, logger),
		RTC:            rtc.New(logger),
		Effects:        notifier,
		Logger:         logger,
		CacheCapacity:  capacity,
		BreadcrumbPath: breadcrumbPath,
	})
	replica.RestoreNavigation()

	gw := gateway.New(gatewayURL, token, replica, logger)
	replica.SetPresencePusher(gw)

	if err := gw.Connect(); err != nil {
		logger.Fatal("cannot connect gateway", zap.Error(err))
	}
	logger.Info("connected", zap.String("gateway", gatewayURL))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	gw.Close()
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
