package cache

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/pharmafhe/internal/client/models"
	"github.com/dmitrijs2005/pharmafhe/internal/common"
)

// RecentWindow is how far back a record counts as a recent upload.
const RecentWindow = 7 * 24 * time.Hour

// ComputeStats derives the aggregate figures of records at wall-clock now.
func ComputeStats(records []models.Record, now time.Time) models.Stats {
	var st models.Stats
	st.TotalCompounds = len(records)
	if len(records) == 0 {
		return st
	}

	var sum int64
	cutoff := int64(RecentWindow / time.Second)
	for _, r := range records {
		if r.IsVerified {
			st.VerifiedData++
		}
		sum += r.PublicValue2
		if now.Unix()-r.CreatedAt < cutoff {
			st.RecentUploads++
		}
	}
	st.AvgActivity = float64(sum) / float64(len(records))
	return st
}

// BuildHistory keeps the records created by account, in store order.
func BuildHistory(records []models.Record, account string) []models.HistoryItem {
	var out []models.HistoryItem
	for _, r := range records {
		if !common.SameAccount(r.Creator, account) {
			continue
		}
		out = append(out, models.HistoryItem{
			Name:      r.Name,
			Timestamp: r.CreatedAt,
			Verified:  r.IsVerified,
		})
	}
	return out
}

// Filter returns records whose name or description contains text,
// ignoring case. An empty text matches everything.
func Filter(records []models.Record, text string) []models.Record {
	needle := strings.ToLower(strings.TrimSpace(text))
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if needle == "" ||
			strings.Contains(strings.ToLower(r.Name), needle) ||
			strings.Contains(strings.ToLower(r.Description), needle) {
			out = append(out, r)
		}
	}
	return out
}
