package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"isvaryam.com/storefront/internal/router"
	"isvaryam.com/storefront/internal/service"
	"isvaryam.com/storefront/pkg/ai"
	"isvaryam.com/storefront/pkg/events"
	"isvaryam.com/storefront/pkg/gateway"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/mongo"
	"isvaryam.com/storefront/pkg/notify"
	"isvaryam.com/storefront/pkg/redis"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using process environment")
	}

	cfg, err := global.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogging(cfg)

	ctx, cancel := global.GetBackgroundTimer()
	client, err := mongo.Connect(ctx, cfg.MongoURI)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	db := client.Database(cfg.MongoDatabase)

	ctx, cancel = global.GetBackgroundTimer()
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		log.Warn().Err(err).Msg("failed to ensure indexes")
	}
	cancel()
	stores := mongo.NewStores(db)

	ctx, cancel = global.GetDefaultTimer()
	rdb, err := redis.NewClient(ctx, cfg.RedisAddress, cfg.RedisPassword)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	var publisher interface {
		service.EventPublisher
		Close() error
	} = events.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("publishing order events to Kafka")
	}

	mailer := notify.NewMailer(cfg.SMTP)
	if !mailer.Configured() {
		log.Warn().Msg("SMTP is not configured; e-mails will fail")
	}

	var google service.GoogleVerifier
	if cfg.GoogleClientID != "" {
		google = service.NewIDTokenVerifier(cfg.GoogleClientID)
	}

	catalog := service.NewCatalogService(stores.Products, redis.NewProductCache(rdb))
	coupons := service.NewCouponService(stores.Coupons, stores.Orders)
	otp := service.NewOTPService(redis.NewOTPStore(rdb), stores.Users, mailer)

	h := router.NewHandler(router.Services{
		Auth:      service.NewAuthService(stores.Users, otp, google, cfg.JWTSecret),
		OTP:       otp,
		Contact:   service.NewContactService(mailer, cfg.ContactEmail),
		Catalog:   catalog,
		Cart:      service.NewCartService(stores.Carts, stores.Products),
		Coupons:   coupons,
		Orders:    service.NewOrderService(stores.Orders, stores.Products, stores.DeliveryCharges, coupons, publisher, cfg.StoreState),
		Payments:  service.NewPaymentService(stores.Orders, stores.Payments, stores.Users, gateways(cfg), mailer, publisher, cfg.Currency),
		Reviews:   service.NewReviewService(stores.Reviews, stores.Products),
		Wishlist:  service.NewWishlistService(stores.Wishlists, stores.Products),
		Recipes:   service.NewRecipeService(stores.Recipes),
		Analytics: service.NewAnalyticsService(stores.Analytics),
		Reports:   ai.NewReporter(stores.Analytics, stores.Reviews, ai.NewClient(cfg.AI)),
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.NewEngine(cfg, h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server is running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to run server")
		}
	}()

	stop, release := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer release()
	<-stop.Done()

	log.Info().Msg("shutting down")
	ctx, cancel = global.GetBackgroundTimer()
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if err := publisher.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close event publisher")
	}
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close Redis client")
	}
	if err := client.Disconnect(ctx); err != nil {
		log.Error().Err(err).Msg("failed to disconnect MongoDB")
	}
}

func setupLogging(cfg *global.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// gateways registers only the providers whose credentials are present.
func gateways(cfg *global.Config) gateway.Registry {
	var enabled []gateway.Gateway
	if cfg.Razorpay.Configured() {
		enabled = append(enabled, gateway.NewRazorpay(cfg.Razorpay.ID, cfg.Razorpay.Secret))
	}
	if cfg.Cashfree.Configured() {
		enabled = append(enabled, gateway.NewCashfree(cfg.Cashfree.ID, cfg.Cashfree.Secret, cfg.Cashfree.Env))
	}
	if cfg.PayPal.Configured() {
		enabled = append(enabled, gateway.NewPayPal(cfg.PayPal.ID, cfg.PayPal.Secret, cfg.PayPal.Env, cfg.PayPalCurrency, cfg.PayPalFXRate))
	}
	registry := gateway.NewRegistry(enabled...)
	log.Info().Strs("gateways", registry.Names()).Msg("payment gateways enabled")
	return registry
}
