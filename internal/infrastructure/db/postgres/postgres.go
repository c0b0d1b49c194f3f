package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/marketplace-api/marketplace/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings required to open the relational store.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Timeout         time.Duration
}

// Connect opens a pooled connection and verifies it with a ping.
func Connect(ctx context.Context, cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(orDefault(cfg.MaxOpenConns, 25))
	sqlDB.SetMaxIdleConns(orDefault(cfg.MaxIdleConns, 10))
	lifetime := cfg.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = 30 * time.Minute
	}
	sqlDB.SetConnMaxLifetime(lifetime)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	return db, nil
}

// lateReference is a foreign key added after every table exists. Catalog
// tables share one model and users and photos reference each other, so these
// cannot be declared as struct associations.
type lateReference struct {
	table    string
	column   string
	target   string
	onDelete string
}

var lateReferences = []lateReference{
	{"users", "profile_photo_id", "photos", "SET NULL"},
	{"cards", "card_type_id", "card_types", "SET NULL"},
	{"publications", "category_id", "categories", "RESTRICT"},
	{"publications", "publication_state_id", "publication_states", "SET NULL"},
	{"publications", "product_state_id", "product_states", "SET NULL"},
	{"publications", "color_id", "colors", "SET NULL"},
}

// Migrate creates or updates every table. The visit history table is
// skipped when visits live in another backend.
func Migrate(db *gorm.DB, withVisits bool) error {
	for _, kind := range domain.CatalogKinds() {
		table, _ := kind.Table()
		if err := db.Table(table).AutoMigrate(&domain.CatalogEntry{}); err != nil {
			return fmt.Errorf("migrate %s: %w", table, err)
		}
	}

	models := []any{
		&domain.Role{},
		&domain.User{},
		&domain.Photo{},
		&domain.Card{},
		&domain.Publication{},
		&domain.PublicationPhoto{},
		&domain.Transaction{},
		&domain.Notification{},
		&domain.CartItem{},
	}
	if withVisits {
		models = append(models, &domain.PublicationVisit{})
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	for _, ref := range lateReferences {
		if err := addForeignKey(db, ref); err != nil {
			return fmt.Errorf("migrate %s.%s: %w", ref.table, ref.column, err)
		}
	}
	return nil
}

func addForeignKey(db *gorm.DB, ref lateReference) error {
	name := "fk_" + ref.table + "_" + ref.column
	if db.Migrator().HasConstraint(ref.table, name) {
		return nil
	}
	return db.Exec(
		"ALTER TABLE ? ADD CONSTRAINT ? FOREIGN KEY (?) REFERENCES ? (id) ON UPDATE CASCADE ON DELETE "+ref.onDelete,
		clause.Table{Name: ref.table},
		clause.Column{Name: name},
		clause.Column{Name: ref.column},
		clause.Table{Name: ref.target},
	).Error
}

// Ping reports whether the database answers.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
