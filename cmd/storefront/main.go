package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/kasen/storefront/internal/cart"
	"github.com/kasen/storefront/internal/catalog"
	"github.com/kasen/storefront/internal/checkout"
	"github.com/kasen/storefront/internal/identity"
	"github.com/kasen/storefront/internal/notify"
	"github.com/kasen/storefront/internal/order"
	"github.com/kasen/storefront/internal/payment"
	"github.com/kasen/storefront/internal/web"
)

type Config struct {
	HTTPPort       string
	RedisAddr      string
	CartSessionID  string
	CatalogDBPath  string
	MigrationsPath string

	SuperAdminEmail string
	StubUserUID     string
	StubUserName    string
	StubUserEmail   string
	StubUserPhoto   string
	SignInDelay     time.Duration

	PaymentEndpoint string
	PaymentDelay    time.Duration
	DeclineRate     float64

	EmailEndpoint   string
	EmailServiceID  string
	EmailTemplateID string
	EmailPublicKey  string
	AdminEmail      string

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		CartSessionID:  getEnv("CART_SESSION_ID", "default"),
		CatalogDBPath:  getEnv("CATALOG_DB_PATH", "storefront.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "internal/catalog/migrations"),

		SuperAdminEmail: getEnv("SUPER_ADMIN_EMAIL", "admin@example.com"),
		StubUserUID:     getEnv("STUB_USER_UID", "stub-uid-1"),
		StubUserName:    getEnv("STUB_USER_NAME", "Demo User"),
		StubUserEmail:   getEnv("STUB_USER_EMAIL", "demo@example.com"),
		StubUserPhoto:   getEnv("STUB_USER_PHOTO", ""),
		SignInDelay:     getEnvDuration("SIGN_IN_DELAY", 500*time.Millisecond),

		PaymentEndpoint: getEnv("PAYMENT_ENDPOINT", ""),
		PaymentDelay:    getEnvDuration("PAYMENT_DELAY", 2*time.Second),
		DeclineRate:     getEnvFloat("PAYMENT_DECLINE_RATE", 0.1),

		EmailEndpoint:   getEnv("EMAILJS_ENDPOINT", ""),
		EmailServiceID:  getEnv("EMAILJS_SERVICE_ID", ""),
		EmailTemplateID: getEnv("EMAILJS_TEMPLATE_ID", ""),
		EmailPublicKey:  getEnv("EMAILJS_PUBLIC_KEY", ""),
		AdminEmail:      getEnv("ADMIN_NOTIFY_EMAIL", ""),

		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if lvl, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		log.SetLevel(lvl)
	}

	repo, err := catalog.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		log.WithError(err).Fatal("failed to open catalog database")
	}
	defer repo.Close()

	if err := repo.RunMigrations(cfg.MigrationsPath); err != nil {
		log.WithError(err).Fatal("failed to run catalog migrations")
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	// Cart survives restarts through Redis; restore is best effort, a cold
	// cache just means an empty cart.
	cartStore := cart.NewStore(cart.NewRedisPersistence(redisClient, cfg.CartSessionID), log)
	restoreCtx, cancelRestore := context.WithTimeout(context.Background(), 5*time.Second)
	cartStore.Restore(restoreCtx)
	cancelRestore()

	orders := order.NewStore()

	provider := identity.NewStubProvider(identity.ProviderRecord{
		UID:         cfg.StubUserUID,
		DisplayName: cfg.StubUserName,
		Email:       cfg.StubUserEmail,
		PhotoURL:    cfg.StubUserPhoto,
	}, cfg.SignInDelay)
	adapter := identity.NewAdapter(provider, cfg.SuperAdminEmail, log)
	adapter.Subscribe(func(state identity.State, user *identity.User) {
		entry := log.WithField("state", state.String())
		if user != nil {
			entry = entry.WithFields(logrus.Fields{"email": user.Email, "role": user.Role})
		}
		entry.Info("session changed")
	})
	provider.OnSessionChange(adapter.HandleSessionEvent)

	gateway := payment.NewMockGateway(cfg.PaymentEndpoint, cfg.PaymentDelay,
		&payment.RandomOutcome{DeclineRate: cfg.DeclineRate}, log)

	notifier := notify.NewEmailNotifier(notify.EmailConfig{
		Endpoint:   cfg.EmailEndpoint,
		ServiceID:  cfg.EmailServiceID,
		TemplateID: cfg.EmailTemplateID,
		PublicKey:  cfg.EmailPublicKey,
		AdminEmail: cfg.AdminEmail,
	}, log)

	svc := checkout.NewService(cartStore, orders, gateway, notifier, log)

	router := web.NewRouter(web.Handlers{
		Products: web.NewProductHandler(repo, cfg.RequestTimeout),
		Cart:     web.NewCartHandler(cartStore, repo, cfg.RequestTimeout),
		Checkout: web.NewCheckoutHandler(svc, adapter),
		Orders:   web.NewOrdersHandler(orders, adapter),
		Session:  web.NewSessionHandler(adapter),
		Adapter:  adapter,
	}, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.HTTPPort).Info("storefront starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server exited")
}
