// cmd/api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopfront/storefront-api/internal/config"
	"github.com/shopfront/storefront-api/internal/domain/analytics"
	"github.com/shopfront/storefront-api/internal/domain/cart"
	"github.com/shopfront/storefront-api/internal/domain/inventory"
	"github.com/shopfront/storefront-api/internal/domain/notification"
	"github.com/shopfront/storefront-api/internal/domain/order"
	"github.com/shopfront/storefront-api/internal/domain/payment"
	"github.com/shopfront/storefront-api/internal/domain/product"
	"github.com/shopfront/storefront-api/internal/domain/user"
	"github.com/shopfront/storefront-api/internal/infrastructure/database/mongodb"
	"github.com/shopfront/storefront-api/internal/infrastructure/database/postgres"
	"github.com/shopfront/storefront-api/internal/infrastructure/database/redis"
	"github.com/shopfront/storefront-api/internal/infrastructure/messaging/rabbitmq"
	httpapi "github.com/shopfront/storefront-api/internal/interfaces/http"
	"github.com/shopfront/storefront-api/internal/pkg/auth"
	"github.com/shopfront/storefront-api/internal/pkg/email"
	"github.com/shopfront/storefront-api/internal/pkg/events"
	"github.com/shopfront/storefront-api/internal/pkg/logger"
	"github.com/shopfront/storefront-api/internal/pkg/pdf"
	"github.com/sirupsen/logrus"
)

// stores holds the repositories of the selected database driver
type stores struct {
	users    user.Repository
	products product.Repository
	carts    cart.Repository
	orders   order.Repository
	health   httpapi.HealthChecker
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	log := logger.New(cfg.Logging)
	log.WithFields(logrus.Fields{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("starting")

	passwords := auth.NewPasswordManager(cfg.Security.BcryptCost)

	var st *stores
	if cfg.Database.Driver == config.DriverMongo {
		st, err = openMongo(cfg, log)
	} else {
		st, err = openRelational(cfg, log, passwords)
	}
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer st.close()

	redisClient, err := redis.NewConnection(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to Redis")
	}
	defer redisClient.Close()

	processor, err := payment.NewStripeClient(cfg.Payment, log)
	if err != nil {
		log.WithError(err).Fatal("payment processor is not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Messaging.RabbitMQURL != "" {
		broker, err := rabbitmq.NewClient(cfg.Messaging, log)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to RabbitMQ")
		}
		defer broker.Close()
		publisher = broker

		mailer := email.NewMailer(cfg.Email, log)
		emails, err := email.NewEmailService(mailer, cfg.App, cfg.Email, log)
		if err != nil {
			log.WithError(err).Fatal("failed to load email templates")
		}
		notifier := notification.NewService(emails, log)
		if err := broker.Consume(ctx, notifier.Handle, notification.RoutingKeys...); err != nil {
			log.WithError(err).Fatal("failed to start notification consumer")
		}
	} else {
		log.Warn("RABBITMQ_URL not set, domain events are dropped")
	}

	users := user.NewService(st.users, auth.NewJWTManager(cfg.JWT), passwords, cfg.Security.AdminSecretKey, log)
	products := product.NewService(st.products, redis.NewProductCache(redisClient, cfg.Redis.ProductTTL, log), log)
	carts := cart.NewService(st.carts, products, log)
	orders := order.NewService(st.orders, carts, pdf.NewService(cfg.App), publisher, log)

	router := httpapi.NewRouter(httpapi.Dependencies{
		Config:      cfg,
		Logger:      log,
		Users:       users,
		UserAdmin:   user.NewAdminService(st.users),
		Products:    products,
		Carts:       carts,
		Orders:      orders,
		Payments:    payment.NewService(processor, orders, cfg.Payment, log),
		Analytics:   analytics.NewService(st.users, st.products, st.carts, st.orders),
		Inventory:   inventory.NewService(st.products),
		RateLimiter: redisClient,
		Checks: map[string]httpapi.HealthChecker{
			"database": st.health,
			"redis":    redisClient,
		},
	})

	server := httpapi.NewServer(cfg, router, log)
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Error("HTTP server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		log.WithError(err).Error("failed to shutdown HTTP server gracefully")
	}
	log.Info("server shutdown completed")
}

func openRelational(cfg *config.Config, log *logrus.Logger, passwords *auth.PasswordManager) (*stores, error) {
	db, err := postgres.NewConnection(cfg, log)
	if err != nil {
		return nil, err
	}

	migration := postgres.NewMigration(db.GetDB(), log)
	if err := migration.RunAutoMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := migration.CreateIndexes(); err != nil {
		log.WithError(err).Warn("index creation failed")
	}
	if cfg.IsDevelopment() {
		if err := migration.SeedInitialData(passwords); err != nil {
			log.WithError(err).Warn("data seeding failed")
		}
	}

	gdb := db.GetDB()
	return &stores{
		users:    postgres.NewUserRepository(gdb),
		products: postgres.NewProductRepository(gdb),
		carts:    postgres.NewCartRepository(gdb),
		orders:   postgres.NewOrderRepository(gdb),
		health:   db,
		close: func() {
			if err := db.Close(); err != nil {
				log.WithError(err).Warn("failed to close database")
			}
		},
	}, nil
}

func openMongo(cfg *config.Config, log *logrus.Logger) (*stores, error) {
	db, err := mongodb.NewConnection(cfg, log)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.EnsureIndexes(ctx); err != nil {
		_ = db.Close(ctx)
		return nil, err
	}

	return &stores{
		users:    mongodb.NewUserRepository(db),
		products: mongodb.NewProductRepository(db),
		carts:    mongodb.NewCartRepository(db),
		orders:   mongodb.NewOrderRepository(db),
		health:   db,
		close: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := db.Close(ctx); err != nil {
				log.WithError(err).Warn("failed to close MongoDB")
			}
		},
	}, nil
}
