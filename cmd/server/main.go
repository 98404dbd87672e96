package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anoa.com/recruitportal/internal/bootstrap"
	"anoa.com/recruitportal/internal/config"
	"anoa.com/recruitportal/internal/server"
	"anoa.com/recruitportal/pkg/database"
	"anoa.com/recruitportal/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Connect(cfg.Database, log.WithField("component", "gorm"))
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer sqlDB.Close()

	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := bootstrap.SeedRoles(db); err != nil {
		log.Fatalf("failed to seed roles: %v", err)
	}
	if err := bootstrap.SeedCompetences(db); err != nil {
		log.Fatalf("failed to seed competences: %v", err)
	}

	if cfg.IsDevelopment() {
		if err := bootstrap.SeedRecruiter(db, cfg.RecruiterUsername, cfg.RecruiterPassword, cfg.BcryptCost, log); err != nil {
			log.Fatalf("failed to seed recruiter: %v", err)
		}
	}

	redisClient := connectRedis(cfg.RedisURL, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(cfg, db, redisClient, log)
	if err := srv.Run(ctx, ":"+cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

// connectRedis returns nil when Redis is not configured or not reachable;
// the submission cool-down is then disabled.
func connectRedis(url string, log logrus.FieldLogger) *redis.Client {
	if url == "" {
		log.Info("REDIS_URL not set, submission cool-down disabled")
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.WithError(err).Warn("invalid REDIS_URL, submission cool-down disabled")
		return nil
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("redis unreachable, submission cool-down disabled")
		client.Close()
		return nil
	}

	return client
}
