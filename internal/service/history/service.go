// Package history archives relayed room messages and serves recent history.
// The chat core works without it; the service is only wired in when an
// archive table is configured.
package history

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"room-chat-backend/internal/database"
	"room-chat-backend/internal/model"
)

const (
	defaultRecentLimit = 50
	maxRecentLimit     = 200
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func New(db *database.Database) *Service {
	return &Service{
		repo: NewDynamoRepository(db),
		now:  time.Now,
	}
}

func NewWithRepository(repo Repository, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo: repo,
		now:  now,
	}
}

func (s *Service) Archive(ctx context.Context, room, username, body string, sentAt time.Time) error {
	room = strings.TrimSpace(room)
	if room == "" || strings.TrimSpace(username) == "" || body == "" {
		return newError(ErrorCodeValidation, "room, username and body are required", nil)
	}
	if sentAt.IsZero() {
		sentAt = s.now()
	}

	message := model.MessageItem{
		Room:      room,
		SentAt:    sentAt.UnixMilli(),
		MessageID: uuid.NewString(),
		Username:  username,
		Body:      body,
	}

	if err := s.repo.SaveMessage(ctx, message); err != nil {
		return newError(ErrorCodeInternal, "failed to archive message", err)
	}
	return nil
}

// Recent returns up to limit archived messages for the room in chronological
// order. A non-positive limit falls back to the default.
func (s *Service) Recent(ctx context.Context, room string, limit int) ([]model.MessageItem, error) {
	room = strings.TrimSpace(room)
	if room == "" {
		return nil, newError(ErrorCodeValidation, "room is required", nil)
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	messages, err := s.repo.ListRecent(ctx, room, limit)
	if err != nil {
		return nil, newError(ErrorCodeInternal, "failed to load history", err)
	}

	// Repository returns newest-first; callers want chronological.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// Hook adapts the service to the chat layer's message hook shape. Archiving
// happens off the hub loop with its own timeout.
func (s *Service) Hook() func(room, username, message string, sentAt time.Time) {
	return func(room, username, message string, sentAt time.Time) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.Archive(ctx, room, username, message, sentAt); err != nil {
				log.Printf("Error archiving message for room %s: %v", room, err)
			}
		}()
	}
}
