package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"order-admin/internal/config"
	httpctl "order-admin/internal/controllers/http"
	mmysql "order-admin/internal/infra/mysql"
	"order-admin/internal/infra/rabbitmq"
	"order-admin/internal/infra/sanity"
	"order-admin/internal/infra/throttle"
	"order-admin/internal/metrics"
	"order-admin/internal/patterns"
	"order-admin/internal/repository/content"
	mysqlrepo "order-admin/internal/repository/mysql"
	"order-admin/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const serviceName = "order-admin"

func main() {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)

	cfg, err := config.Load(config.SectionSanity, config.SectionMySQL)
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	db, err := mmysql.NewMySQL(cfg.MySQL)
	if err != nil {
		log.WithError(err).Fatal("db: connect")
	}
	operators := mysqlrepo.NewOperatorRepository(db)

	breaker := patterns.NewCircuitBreaker("sanity", serviceName, sanity.BreakerSettings())
	store := sanity.NewClient(sanity.Config{
		ProjectID:  cfg.Sanity.ProjectID,
		Dataset:    cfg.Sanity.Dataset,
		APIVersion: cfg.Sanity.APIVersion,
		APIHost:    cfg.Sanity.APIHost,
		Token:      cfg.Sanity.Token,
		Timeout:    cfg.Sanity.Timeout,
	}, breaker)

	orders := services.NewOrderService(content.NewOrderRepository(store))
	orders.Subscribe(func(c services.Change) { metrics.ObserveCache(c.Counts) })

	if cfg.RabbitMQURL != "" {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			log.WithError(err).Fatal("Failed to init publisher")
		}
		defer publisher.Close()
		orders.Subscribe(services.NewEventForwarder(publisher))
	} else {
		log.Info("RABBITMQ_URL not set, order events are not published")
	}

	auth := services.NewAuthService(operators)
	if cfg.RedisHost != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:         cfg.RedisHost + ":6379",
			DB:           0,
			PoolSize:     20,
			MinIdleConns: 2,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		})
		defer redisClient.Close()
		auth.SetThrottle(throttle.NewRedisThrottle(redisClient, cfg.LoginMaxAttempts, cfg.LoginWindow))
	} else {
		log.Info("REDIS_HOST not set, login attempts are not throttled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := orders.Load(ctx, services.LogNotifier{}); err != nil {
			log.WithError(err).Warn("Initial order load failed, the dashboard will retry")
		}
	}()

	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CookieSecure
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpctl.RequestLogger())
	r.Use(httpctl.SecurityHeaders())
	r.Use(metrics.PrometheusMiddleware(serviceName))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler := httpctl.NewHandler(orders, auth, sessionStore)
	handler.SetCircuit(breaker)
	handler.RegisterRoutes(r)

	protect := csrf.Protect(
		cfg.CSRFKey,
		csrf.Secure(cfg.CookieSecure),
		csrf.Path("/"),
		csrf.TrustedOrigins([]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port}),
	)

	var root http.Handler = protect(r)
	if !cfg.CookieSecure {
		root = plaintext(root)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           root,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("port", cfg.Port).Info("Starting order admin")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("Server stopped with error")
	}
	log.Info("Server exited gracefully")
}

// plaintext marks requests as served over HTTP so the CSRF origin check
// compares against http:// origins during local development.
func plaintext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
