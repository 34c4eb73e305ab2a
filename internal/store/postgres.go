package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// GameRecord is the gorm model behind the postgres backend.
type GameRecord struct {
	GameKey   string     `gorm:"primaryKey;size:64"`
	Data      string     `gorm:"type:text;not null"`
	ExpiresAt *time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (GameRecord) TableName() string { return "cowbull_games" }

// Postgres stores blobs through gorm.
type Postgres struct {
	db  *gorm.DB
	now func() time.Time
}

// OpenPostgres connects with dsn and migrates the games table.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	if dsn == "" {
		return nil, errors.New("postgres: empty DSN")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewPostgresFromDB(ctx, db)
}

// NewPostgresFromDB wraps an existing gorm handle and migrates it.
func NewPostgresFromDB(ctx context.Context, db *gorm.DB) (*Postgres, error) {
	if err := db.WithContext(ctx).AutoMigrate(&GameRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Postgres{db: db, now: time.Now}, nil
}

// Save upserts the row for key.
func (p *Postgres) Save(ctx context.Context, key, blob string, ttl time.Duration) error {
	now := p.now()
	rec := GameRecord{GameKey: key, Data: blob, UpdatedAt: now}
	if exp := expiry(now, ttl); !exp.IsZero() {
		rec.ExpiresAt = &exp
	}
	err := p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "game_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "expires_at", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("postgres upsert: %w", err)
	}
	return nil
}

// Load returns the live blob for key.
func (p *Postgres) Load(ctx context.Context, key string) (string, error) {
	var rec GameRecord
	err := p.db.WithContext(ctx).
		Where("game_key = ? AND (expires_at IS NULL OR expires_at > ?)", key, p.now()).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("postgres select: %w", err)
	}
	return rec.Data, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
