package consumer

import (
	"context"
	"encoding/json"
	"log/slog"

	"soukscan/internal/platform/kafka/consumer"
	"soukscan/internal/stats"
	id "soukscan/pkg/domain"
)

// UserStatsInitializer creates zeroed counters for a new user.
type UserStatsInitializer interface {
	EnsureUserStats(ctx context.Context, userID id.UserID) (*stats.UserStats, error)
}

type userCreated struct {
	EventID  string    `json:"eventId"`
	UserID   id.UserID `json:"userId"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	UserType string    `json:"userType"`
}

// UserCreatedHandler bootstraps stats rows from user.created.
type UserCreatedHandler struct {
	stats  UserStatsInitializer
	logger *slog.Logger
}

func NewUserCreatedHandler(s UserStatsInitializer, logger *slog.Logger) *UserCreatedHandler {
	return &UserCreatedHandler{stats: s, logger: logger}
}

func (h *UserCreatedHandler) Handle(ctx context.Context, msg *consumer.Message) error {
	var ev userCreated
	if err := json.Unmarshal(msg.Value, &ev); err != nil || ev.UserID <= 0 {
		h.logger.WarnContext(ctx, "discarding malformed user.created event",
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}
	if _, err := h.stats.EnsureUserStats(ctx, ev.UserID); err != nil {
		return err
	}
	h.logger.InfoContext(ctx, "user stats initialized",
		"event_id", ev.EventID,
		"user_id", int64(ev.UserID),
		"user_type", ev.UserType,
	)
	return nil
}
