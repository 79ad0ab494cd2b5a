package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"airline-backoffice/models"
)

// DBStore keeps sessions in the booking_sessions table.
type DBStore struct {
	DB  *gorm.DB
	TTL time.Duration
}

func NewDBStore(db *gorm.DB, ttl time.Duration) *DBStore {
	return &DBStore{DB: db, TTL: ttl}
}

func (s *DBStore) Load(ctx context.Context, id string) (*BookingSession, error) {
	if id == "" {
		return nil, ErrNoSessionID
	}
	return s.load(s.DB.WithContext(ctx), id)
}

func (s *DBStore) Save(ctx context.Context, id string, bs *BookingSession) error {
	if id == "" {
		return ErrNoSessionID
	}
	return s.save(s.DB.WithContext(ctx), id, bs)
}

func (s *DBStore) Clear(ctx context.Context, id string) error {
	if id == "" {
		return ErrNoSessionID
	}
	if err := s.DB.WithContext(ctx).
		Where("session_id = ?", id).
		Delete(&models.BookingSessionRecord{}).Error; err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *DBStore) Update(ctx context.Context, id string, fn func(*BookingSession) error) (*BookingSession, error) {
	if id == "" {
		return nil, ErrNoSessionID
	}
	var out *BookingSession
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bs, err := s.load(tx.Clauses(clause.Locking{Strength: "UPDATE"}), id)
		if err != nil {
			return err
		}
		if err := fn(bs); err != nil {
			return err
		}
		if err := s.save(tx, id, bs); err != nil {
			return err
		}
		out = bs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PurgeExpired removes sessions whose TTL has passed.
func (s *DBStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := s.DB.WithContext(ctx).
		Where("expires_at <= ?", now.UTC()).
		Delete(&models.BookingSessionRecord{})
	return res.RowsAffected, res.Error
}

func (s *DBStore) load(db *gorm.DB, id string) (*BookingSession, error) {
	var rec models.BookingSessionRecord
	err := db.Where("session_id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return newSession(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if s.TTL > 0 && !rec.ExpiresAt.IsZero() && !rec.ExpiresAt.After(time.Now().UTC()) {
		return newSession(), nil
	}

	bs := newSession()
	if len(rec.Data) > 0 {
		if err := json.Unmarshal(rec.Data, bs); err != nil {
			return nil, fmt.Errorf("decode session: %w", err)
		}
	}
	if bs.Flights == nil {
		bs.Flights = []Leg{}
	}
	return bs, nil
}

func (s *DBStore) save(db *gorm.DB, id string, bs *BookingSession) error {
	raw, err := json.Marshal(bs)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	rec := models.BookingSessionRecord{
		SessionID: id,
		Data:      datatypes.JSON(raw),
	}
	if s.TTL > 0 {
		rec.ExpiresAt = time.Now().UTC().Add(s.TTL)
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "expires_at", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
