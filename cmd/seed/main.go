// Command seed provisions the baseline data a fresh deployment needs:
// the ministry's divisions and one active admin account. It is
// idempotent and safe to re-run.
package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"ministrydocs/internal/auth"
	"ministrydocs/internal/config"
	"ministrydocs/internal/database"
	"ministrydocs/internal/database/migration"
)

var divisionNames = []string{
	"Administration",
	"Finance",
	"Human Resources",
	"Legal Affairs",
	"Planning",
	"Procurement",
	"Information Technology",
	"Public Relations",
	"Internal Audit",
	"Development Projects",
	"Policy Coordination",
	"Records Management",
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg := config.Load()
	ctx := context.Background()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	if err := seedDivisions(ctx, db, logger); err != nil {
		logger.Fatal("failed to seed divisions", zap.Error(err))
	}
	if err := seedAdmin(ctx, db, logger); err != nil {
		logger.Fatal("failed to seed admin user", zap.Error(err))
	}

	logger.Info("seed complete")
}

func seedDivisions(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	const q = `INSERT INTO divisions (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`

	for _, name := range divisionNames {
		res, err := db.ExecContext(ctx, q, name)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			logger.Info("division created", zap.String("name", name))
		}
	}
	return nil
}

func seedAdmin(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	email := getEnv("SEED_ADMIN_EMAIL", "admin@ministry.gov.lk")
	password := getEnv("SEED_ADMIN_PASSWORD", "")
	if password == "" {
		logger.Warn("SEED_ADMIN_PASSWORD not set, skipping admin user")
		return nil
	}

	hash, err := auth.NewBcryptHasher(0).Hash(password)
	if err != nil {
		return err
	}

	const q = `INSERT INTO users (email, name, password_hash, role, is_active)
VALUES ($1, $2, $3, 'ADMIN', true)
ON CONFLICT (email) DO NOTHING`

	res, err := db.ExecContext(ctx, q, email, "System Administrator", hash)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		logger.Info("admin user created", zap.String("email", email))
	} else {
		logger.Info("admin user already exists", zap.String("email", email))
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
