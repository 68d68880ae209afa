package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/snapformstudio/storefront-backend/pkg/db"
)

type cartSessionRow struct {
	SessionKey string    `gorm:"column:session_key;primaryKey"`
	Payload    string    `gorm:"column:payload;not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at;index"`
}

func (cartSessionRow) TableName() string {
	return "cart_sessions"
}

// GormStore persists cart records in a relational table, one JSON payload
// per session key. Works with the sqlite and postgres drivers alike.
type GormStore struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewGormStore(client *db.Client, ttl time.Duration) (*GormStore, error) {
	if client == nil {
		return nil, errors.New("db client required")
	}
	if ttl <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	if err := client.DB().AutoMigrate(&cartSessionRow{}); err != nil {
		return nil, err
	}
	return &GormStore{db: client.DB(), ttl: ttl}, nil
}

func (g *GormStore) Load(ctx context.Context, sessionKey string) (*Record, error) {
	var row cartSessionRow
	cutoff := time.Now().Add(-g.ttl)
	err := g.db.WithContext(ctx).
		Where("session_key = ? AND updated_at > ?", sessionKey, cutoff).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var record Record
	if err := json.Unmarshal([]byte(row.Payload), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (g *GormStore) Save(ctx context.Context, sessionKey string, record *Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	row := cartSessionRow{
		SessionKey: sessionKey,
		Payload:    string(payload),
		UpdatedAt:  time.Now(),
	}
	return g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&row).Error
}

func (g *GormStore) Delete(ctx context.Context, sessionKey string) error {
	return g.db.WithContext(ctx).
		Where("session_key = ?", sessionKey).
		Delete(&cartSessionRow{}).Error
}
