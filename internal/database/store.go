package database

import (
	"context"
	"fmt"
	"slices"
	"time"

	"gorm.io/gorm"

	"paramanu/internal/domain"
	"paramanu/internal/metrics"
)

// InquiryStore inserts inquiries into their collections.
type InquiryStore struct {
	db *gorm.DB
}

// NewInquiryStore creates a store on top of conn.
func NewInquiryStore(conn *gorm.DB) *InquiryStore {
	return &InquiryStore{db: conn}
}

// Insert stores inq in the named collection and sets its ID.
func (s *InquiryStore) Insert(ctx context.Context, collection string, inq *domain.Inquiry) error {
	if !slices.Contains(Collections, collection) {
		return fmt.Errorf("unknown collection %q", collection)
	}

	start := time.Now()
	err := s.db.WithContext(ctx).Table(collection).Create(inq).Error
	metrics.RecordDBQuery("insert_"+collection, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to insert into %s: %w", collection, err)
	}
	return nil
}

// Count returns the number of rows in a collection.
func (s *InquiryStore) Count(ctx context.Context, collection string) (int64, error) {
	if !slices.Contains(Collections, collection) {
		return 0, fmt.Errorf("unknown collection %q", collection)
	}
	var n int64
	err := s.db.WithContext(ctx).Table(collection).Count(&n).Error
	return n, err
}

// PingContext checks the connection, for health reporting.
func (s *InquiryStore) PingContext(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
