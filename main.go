package main

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/anaeze/critica/config"
	"github.com/anaeze/critica/handler"
	"github.com/anaeze/critica/internal/jsonlog"
	"github.com/anaeze/critica/repository"
	"github.com/anaeze/critica/repository/postgres"
	"github.com/anaeze/critica/service"
	"github.com/jellydator/ttlcache/v3"
	"github.com/joho/godotenv"
)

// app defines the application's layers and shared resources.
type app struct {
	config  config.Config
	repo    repository.Repository
	service service.Service
	handler *handler.Handler
}

func main() {
	logger := jsonlog.New(os.Stdout, jsonlog.LevelInfo)

	// A missing .env file is fine; plain environment variables still apply.
	_ = godotenv.Load()

	// Initialize configuration. An optional YAML config file supplies
	// defaults; command line flags take precedence.
	var cfg config.Config
	fromFile := false
	if path := os.Getenv("CONFIG"); path != "" {
		fileCfg, err := config.Load(path)
		if err != nil {
			logger.PrintFatal(err, map[string]string{"config": path})
		}
		cfg = fileCfg
		fromFile = true
	}
	flag.IntVar(&cfg.Server.Port, "port", intOr(cfg.Server.Port, 4000), "API server port")
	flag.StringVar(&cfg.Server.Env, "env", strOr(cfg.Server.Env, "development"), "Environment(development|staging|production)")

	// Read the database connection pool settings into the config
	flag.StringVar(&cfg.Database.DSN, "db-dsn", strOr(cfg.Database.DSN, os.Getenv("DSN")), "PostgreSQL DSN")
	flag.IntVar(&cfg.Database.MaxOpenConns, "db-max-open-conns", intOr(cfg.Database.MaxOpenConns, 25), "PostgreSQL max open connections")
	flag.IntVar(&cfg.Database.MaxIdleConns, "db-max-idle-conns", intOr(cfg.Database.MaxIdleConns, 25), "PostgreSQL max idle connections")
	flag.StringVar(&cfg.Database.MaxIdleTime, "db-max-idle-time", strOr(cfg.Database.MaxIdleTime, "15m"), "PostgreSQL max connection idle time")
	flag.BoolVar(&cfg.Database.AutoMigrate, "db-auto-migrate", cfg.Database.AutoMigrate, "Apply pending database migrations on startup")
	flag.StringVar(&cfg.Database.MigrationDir, "db-migration-dir", strOr(cfg.Database.MigrationDir, "./migrations"), "Database migration directory")

	// Read the SMTP server settings into the config
	smtpPort := intOr(cfg.SMTP.Port, 25)
	if s := os.Getenv("SMTPPORT"); s != "" {
		p, err := strconv.Atoi(s)
		if err != nil {
			logger.PrintError(err, nil)
		} else {
			smtpPort = p
		}
	}
	flag.StringVar(&cfg.SMTP.Host, "smtp-host", strOr(cfg.SMTP.Host, os.Getenv("SMTPHOST")), "SMTP host")
	flag.IntVar(&cfg.SMTP.Port, "smtp-port", smtpPort, "SMTP port")
	flag.StringVar(&cfg.SMTP.Username, "smtp-username", strOr(cfg.SMTP.Username, os.Getenv("SMTPUSERNAME")), "SMTP username")
	flag.StringVar(&cfg.SMTP.Password, "smtp-password", strOr(cfg.SMTP.Password, os.Getenv("SMTPPASSWORD")), "SMTP password")
	flag.StringVar(&cfg.SMTP.Sender, "smtp-sender", strOr(cfg.SMTP.Sender, "Critica <no-reply@critica.example.com>"), "SMTP sender")

	// Read the token signing settings into the config
	flag.StringVar(&cfg.Auth.Secret, "auth-secret", strOr(cfg.Auth.Secret, os.Getenv("JWTSECRET")), "JWT signing secret")
	flag.StringVar(&cfg.Auth.Issuer, "auth-issuer", strOr(cfg.Auth.Issuer, "critica"), "JWT issuer")

	// Read the rate limiter settings into the config. The limiter and
	// metrics default to on unless a config file says otherwise.
	flag.Float64Var(&cfg.Limiter.RPS, "limiter-rps", floatOr(cfg.Limiter.RPS, 4), "Rate limiter maximum requests per second")
	flag.IntVar(&cfg.Limiter.Burst, "limiter-burst", intOr(cfg.Limiter.Burst, 8), "Rate limiter maximum burst")
	flag.BoolVar(&cfg.Limiter.Enabled, "limiter-enabled", cfg.Limiter.Enabled || !fromFile, "Enable rate limiter")

	// Read the metrics and debug endpoint settings into the config
	flag.BoolVar(&cfg.Metrics.Enabled, "metrics-enabled", cfg.Metrics.Enabled || !fromFile, "Enable request metrics")
	flag.StringVar(&cfg.BasicAuth.Username, "basic-auth-username", strOr(cfg.BasicAuth.Username, os.Getenv("BASICAUTHUSERNAME")), "Basic auth username for /debug/vars")
	flag.StringVar(&cfg.BasicAuth.Password, "basic-auth-password", strOr(cfg.BasicAuth.Password, os.Getenv("BASICAUTHPASSWORD")), "Basic auth password for /debug/vars")

	// Process the -cors-trusted-origin command line flag
	flag.Func("cors-trusted-origin", "Trusted CORS origin (space separated)", func(s string) error {
		cfg.Cors.TrustedOrigins = strings.Fields(s)
		return nil
	})

	flag.Parse()

	// Apply pending migrations before opening the pool, if configured.
	if cfg.Database.AutoMigrate {
		err := postgres.Migrate(cfg)
		if err != nil {
			logger.PrintFatal(err, nil)
		}
		logger.PrintInfo("database migrations applied", nil)
	}

	// Initialize database connection
	db, err := postgres.OpenDBConn(cfg)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	defer db.Close()
	logger.PrintInfo("database connection pool established", nil)

	// Other shared resources: waitgroup and in-memory cache
	var wg sync.WaitGroup
	cache := ttlcache.New(ttlcache.WithTTL[string, int64](30 * time.Minute))
	go cache.Start()

	// Application layers
	repo := repository.New(db)
	service := service.New(cfg, &wg, logger, repo)
	handler := handler.New(cfg, logger, cache, service)

	// Instantiate application
	app := &app{
		config:  cfg,
		repo:    repo,
		service: service,
		handler: handler,
	}

	// Start HTTP server
	err = app.serve(&wg, logger)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
}

// intOr, strOr and floatOr pick the config-file value when one was set,
// falling back to the built-in flag default otherwise.
func intOr(v, fallback int) int {
	if v != 0 {
		return v
	}
	return fallback
}

func strOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func floatOr(v, fallback float64) float64 {
	if v != 0 {
		return v
	}
	return fallback
}
