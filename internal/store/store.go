// Package store persists processed usage records. The contract is a plain
// document store: save, load, list, delete. Callers must assume any call can
// fail and must not expect retries to happen for them.
package store

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/domain"
)

// RecordStore is the persistence collaborator for usage records. Save
// rejects duplicates per domain.UsageRecord.MatchesSummary and returns
// domain.ErrDuplicateRecord; Load and Delete return domain.ErrRecordNotFound
// for unknown ids.
type RecordStore interface {
	Save(ctx context.Context, record domain.UsageRecord) (string, error)
	Load(ctx context.Context, id string) (domain.UsageRecord, error)
	List(ctx context.Context) ([]domain.RecordSummary, error)
	Delete(ctx context.Context, id string) error
}

// newRecordID derives a stable-length id from the record's period and save
// time.
func newRecordID(record domain.UsageRecord, now time.Time) string {
	raw := fmt.Sprintf("%s|%s|%d|%d", record.PeriodStart, record.PeriodEnd, len(record.Items), now.UnixNano())
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])[:16]
}

// findDuplicate scans summaries for a record the candidate would duplicate.
func findDuplicate(record domain.UsageRecord, summaries []domain.RecordSummary) bool {
	for _, s := range summaries {
		if record.MatchesSummary(s) {
			return true
		}
	}
	return false
}
