package waitlist

import (
	"context"
	"errors"

	"github.com/akeren/launch-waitlist/internal/models"
	apperrors "github.com/akeren/launch-waitlist/pkg/errors"
	"gorm.io/gorm"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=waitlist

type WaitlistRepository interface {
	// ExistsByEmail reports whether an entry with exactly this email is stored.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// CreateEntry inserts a new entry and returns the stored row.
	// A uniqueness violation is returned as a conflict error.
	CreateEntry(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error)
	// CountEntries returns the number of stored entries.
	CountEntries(ctx context.Context) (int64, error)
	// RecentEntries returns up to limit entries, newest first, with only Email and CreatedAt set.
	RecentEntries(ctx context.Context, limit int) ([]*models.WaitlistEntry, error)
}

type waitlistRepository struct {
	db *gorm.DB
}

func NewWaitlistRepository(db *gorm.DB) WaitlistRepository {
	return &waitlistRepository{db: db}
}

func (wr *waitlistRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var ids []string

	err := wr.db.WithContext(ctx).
		Model(&models.WaitlistEntry{}).
		Where("email = ?", email).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return false, apperrors.NewDatabaseError("unable to look up waitlist entry", err)
	}

	return len(ids) > 0, nil
}

func (wr *waitlistRepository) CreateEntry(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
	if err := wr.db.WithContext(ctx).Create(entry).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, apperrors.NewConflictError(MessageEmailTaken, err)
		}
		return nil, apperrors.NewDatabaseError("unable to create waitlist entry", err)
	}

	return entry, nil
}

func (wr *waitlistRepository) CountEntries(ctx context.Context) (int64, error) {
	var count int64

	if err := wr.db.WithContext(ctx).Model(&models.WaitlistEntry{}).Count(&count).Error; err != nil {
		return 0, apperrors.NewDatabaseError("unable to count waitlist entries", err)
	}

	return count, nil
}

func (wr *waitlistRepository) RecentEntries(ctx context.Context, limit int) ([]*models.WaitlistEntry, error) {
	var entries []*models.WaitlistEntry

	if limit <= 0 {
		return entries, nil
	}

	err := wr.db.WithContext(ctx).
		Select("email", "created_at").
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("unable to fetch recent waitlist entries", err)
	}

	return entries, nil
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || apperrors.IsDuplicateKeyError(err)
}
