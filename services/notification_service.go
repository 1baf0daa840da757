package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationService manages device tokens and fans gamification events out
// as pushes. Every send is best-effort: failures are logged and never reach
// the user-visible flow.
type NotificationService struct {
	db   *pgxpool.Pool
	push PushProvider
}

func NewNotificationService(db *pgxpool.Pool) *NotificationService {
	return &NotificationService{db: db}
}

// SetPushProvider injects the FCM client once main has initialized it.
func (s *NotificationService) SetPushProvider(p PushProvider) {
	s.push = p
}

func (s *NotificationService) RegisterDevice(ctx context.Context, userID uuid.UUID, token, platform string) error {
	_, err := s.db.Exec(ctx, `
	INSERT INTO device_tokens (id, user_id, token, platform, created_at)
	VALUES ($1, $2, $3, $4, NOW())
	ON CONFLICT (token) DO UPDATE SET user_id = EXCLUDED.user_id, platform = EXCLUDED.platform`,
		uuid.New(), userID, token, platform)
	if err != nil {
		return fmt.Errorf("failed to register device: %w", err)
	}
	return nil
}

func (s *NotificationService) tokensFor(ctx context.Context, userID uuid.UUID) []string {
	rows, err := s.db.Query(ctx, `SELECT token FROM device_tokens WHERE user_id = $1`, userID)
	if err != nil {
		log.Printf("Notifications: failed to load tokens for %s: %v", userID, err)
		return nil
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

func (s *NotificationService) SendAchievementPush(ctx context.Context, userID uuid.UUID, achievementName string) {
	s.send(ctx, userID, "Achievement unlocked!", achievementName, map[string]string{"type": "achievement"})
}

func (s *NotificationService) SendLevelUpPush(ctx context.Context, userID uuid.UUID, newLevel int) {
	s.send(ctx, userID, "Level up!", fmt.Sprintf("You reached level %d", newLevel), map[string]string{"type": "level_up"})
}

func (s *NotificationService) send(ctx context.Context, userID uuid.UUID, title, body string, data map[string]string) {
	if s.push == nil {
		return
	}
	tokens := s.tokensFor(ctx, userID)
	if len(tokens) == 0 {
		return
	}
	if err := s.push.SendPush(ctx, tokens, title, body, data); err != nil {
		log.Printf("Notifications: push to %s failed: %v", userID, err)
	}
}
