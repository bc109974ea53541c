package stats

import (
	"math"
	"time"

	id "soukscan/pkg/domain"
)

// DefaultTrustScore is the score of a vendor with no decided reports.
const DefaultTrustScore = 100.0

// Outcome is a moderation decision that moves a user's counters.
type Outcome string

const (
	OutcomeApprove Outcome = "approve"
	OutcomeReject  Outcome = "reject"
	OutcomeWarn    Outcome = "warn"
)

// UserStats are rolling reputation counters. Counters never decrease.
type UserStats struct {
	UserID                id.UserID `json:"userId" db:"user_id"`
	TotalReportsSubmitted int64     `json:"totalReportsSubmitted" db:"total_reports_submitted"`
	TotalValidReports     int64     `json:"totalValidReports" db:"total_valid_reports"`
	TotalRejectedReports  int64     `json:"totalRejectedReports" db:"total_rejected_reports"`
	WarningCount          int64     `json:"warningCount" db:"warning_count"`
	LastActivity          time.Time `json:"lastActivity" db:"last_activity"`
}

// AccuracyScore is the share of submitted reports that were upheld, in
// percent. Zero when nothing was submitted.
func (u *UserStats) AccuracyScore() float64 {
	if u.TotalReportsSubmitted == 0 {
		return 0
	}
	return float64(u.TotalValidReports) / float64(u.TotalReportsSubmitted) * 100
}

// Reputation weighs upheld reports and participation against warnings and
// rejected reports. Never negative.
func (u *UserStats) Reputation() float64 {
	score := float64(u.TotalValidReports)*2 +
		float64(u.TotalReportsSubmitted)*0.5 -
		float64(u.WarningCount)*1.5 -
		float64(u.TotalRejectedReports)*1.0
	return math.Max(0, score)
}

// NewUserStats returns zeroed counters for a user seen for the first time.
func NewUserStats(userID id.UserID, now time.Time) *UserStats {
	return &UserStats{UserID: userID, LastActivity: now}
}

// apply increments the counter matching outcome.
func (u *UserStats) apply(outcome Outcome) {
	switch outcome {
	case OutcomeApprove:
		u.TotalValidReports++
	case OutcomeReject:
		u.TotalRejectedReports++
	case OutcomeWarn:
		u.WarningCount++
	}
}

// VendorStats are rolling trust counters. TrustScore is derived from the
// counters by recomputeTrust and never set by callers.
type VendorStats struct {
	VendorID                  id.VendorID `json:"vendorId" db:"vendor_id"`
	TotalReportsAgainstVendor int64       `json:"totalReportsAgainstVendor" db:"total_reports_against_vendor"`
	TotalApprovedReports      int64       `json:"totalApprovedReports" db:"total_approved_reports"`
	TotalRejectedReports      int64       `json:"totalRejectedReports" db:"total_rejected_reports"`
	TrustScore                float64     `json:"trustScore" db:"trust_score"`
	LastUpdated               time.Time   `json:"lastUpdated" db:"last_updated"`
}

// NewVendorStats returns the defaults for a vendor seen for the first time.
func NewVendorStats(vendorID id.VendorID, now time.Time) *VendorStats {
	return &VendorStats{VendorID: vendorID, TrustScore: DefaultTrustScore, LastUpdated: now}
}

// recomputeTrust derives the score from upheld reports: 100 with no decided
// reports, falling linearly to 0 when every report was upheld.
func (v *VendorStats) recomputeTrust() {
	if v.TotalReportsAgainstVendor == 0 {
		v.TrustScore = DefaultTrustScore
		return
	}
	ratio := float64(v.TotalApprovedReports) / float64(v.TotalReportsAgainstVendor)
	v.TrustScore = math.Max(0, DefaultTrustScore*(1-ratio))
}

// UserView is UserStats with its derived scores, as served to admins.
type UserView struct {
	UserStats
	AccuracyScore float64 `json:"accuracyScore"`
	Reputation    float64 `json:"reputation"`
}

func NewUserView(u *UserStats) UserView {
	return UserView{UserStats: *u, AccuracyScore: u.AccuracyScore(), Reputation: u.Reputation()}
}

// GlobalStats is the platform-wide moderation summary.
type GlobalStats struct {
	TotalUsers             int64 `json:"totalUsers"`
	TotalVendors           int64 `json:"totalVendors"`
	TotalPriceReports      int64 `json:"totalPriceReports"`
	TotalModerationReports int64 `json:"totalModerationReports"`
	TotalModerationActions int64 `json:"totalModerationActions"`
	TotalWarnings          int64 `json:"totalWarnings"`
	TotalBlockedUsers      int64 `json:"totalBlockedUsers"`
}

// ModerationTotals are the counts GlobalStats needs from the moderation store.
type ModerationTotals struct {
	Reports      int64
	Actions      int64
	Blocks       int64
	PriceReports int64
}
