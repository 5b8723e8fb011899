// Package notify implements the notification-scheduler collaborator as a
// persistent registry table. A delivery worker (outside this service)
// drains the registry; the engine only decides which reminders exist.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	portssvc "github.com/planday-app/organizer_backend/internal/core/ports/services"
)

type PgxScheduler struct {
	pool *pgxpool.Pool
}

// NewPgxScheduler creates a registry-backed notification scheduler.
func NewPgxScheduler(pool *pgxpool.Pool) portssvc.NotificationScheduler {
	return &PgxScheduler{pool: pool}
}

var _ portssvc.NotificationScheduler = (*PgxScheduler)(nil)

func (s *PgxScheduler) CancelPending(ctx context.Context, idPrefix string) error {
	query := `DELETE FROM scheduled_notifications WHERE notification_id LIKE $1 || '%';`
	if _, err := s.pool.Exec(ctx, query, idPrefix); err != nil {
		return fmt.Errorf("failed to cancel pending notifications with prefix %q: %w", idPrefix, err)
	}
	return nil
}

// notificationPayload is the jsonb document stored per scheduled
// notification. The delivery worker reads the message field verbatim.
type notificationPayload struct {
	Message string `json:"message"`
}

// encodePayload wraps the human-readable reminder text in a JSON document.
// The payload column is jsonb, so a bare string must not reach the insert.
func encodePayload(message string) ([]byte, error) {
	return json.Marshal(notificationPayload{Message: message})
}

func (s *PgxScheduler) ScheduleAt(ctx context.Context, at time.Time, payload string, id string) error {
	body, err := encodePayload(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload for notification %s: %w", id, err)
	}
	query := `
		INSERT INTO scheduled_notifications (notification_id, fire_at, payload, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (notification_id) DO UPDATE SET fire_at = $2, payload = $3;
	`
	if _, err := s.pool.Exec(ctx, query, id, at, body, time.Now()); err != nil {
		return fmt.Errorf("failed to schedule notification %s: %w", id, err)
	}
	return nil
}
