package waitlist

import (
	"time"

	"github.com/akeren/launch-waitlist/internal/models"
	"github.com/akeren/launch-waitlist/pkg/constants"
)

// ========================================
// Request DTOs
// ========================================

// JoinWaitlistRequest accepts the email exactly as submitted; only presence and type are checked.
type JoinWaitlistRequest struct {
	Email string `json:"email" binding:"required"`
}

// ========================================
// Response DTOs
// ========================================

type WaitlistEntryResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

type JoinWaitlistResponse struct {
	Success bool                   `json:"success"`
	Data    *WaitlistEntryResponse `json:"data"`
	Message string                 `json:"message"`
}

type RecentSignup struct {
	Email string `json:"email"`
	Time  string `json:"time"`
}

type WaitlistSummary struct {
	Count         int64          `json:"count"`
	RecentSignups []RecentSignup `json:"recentSignups"`
}

type WaitlistSummaryResponse struct {
	Success bool `json:"success"`
	WaitlistSummary
}

type Countdown struct {
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
}

type LaunchProgress struct {
	Count       int64     `json:"count"`
	Target      int64     `json:"target"`
	Remaining   int64     `json:"remaining"`
	Progress    float64   `json:"progress"`
	LaunchReady bool      `json:"launchReady"`
	LaunchAt    string    `json:"launchAt"`
	Countdown   Countdown `json:"countdown"`
}

type LaunchProgressResponse struct {
	Success bool `json:"success"`
	LaunchProgress
}

// ========================================
// Mappers
// ========================================

func ToWaitlistEntryModel(req *JoinWaitlistRequest, createdAt time.Time) *models.WaitlistEntry {
	if req == nil {
		return nil
	}
	return &models.WaitlistEntry{
		Email:     req.Email,
		Status:    models.WaitlistStatusPending,
		CreatedAt: createdAt.UTC(),
	}
}

func ToWaitlistEntryResponse(entry *models.WaitlistEntry) WaitlistEntryResponse {
	if entry == nil {
		return WaitlistEntryResponse{}
	}
	return WaitlistEntryResponse{
		ID:        entry.ID,
		Email:     entry.Email,
		Status:    entry.Status,
		CreatedAt: entry.CreatedAt.UTC().Format(constants.RFC3339DateTimeFormat),
	}
}

func ToRecentSignups(entries []*models.WaitlistEntry, now time.Time, dates DateFormatter) []RecentSignup {
	signups := make([]RecentSignup, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		signups = append(signups, RecentSignup{
			Email: entry.Email,
			Time:  FormatTimeAgo(entry.CreatedAt, now, dates),
		})
	}
	return signups
}
