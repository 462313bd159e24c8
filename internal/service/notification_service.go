package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/notification"
	"github.com/dmehra2102/prod-golang-projects/carehub/pkg/events"
	"github.com/dmehra2102/prod-golang-projects/carehub/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const eventNotificationCreated = "notification.created"

// Notifier is what other services use to reach a user.
type Notifier interface {
	Notify(ctx context.Context, cmd *notification.SendCommand) (*notification.Notification, error)
}

type NotificationService struct {
	repo      notification.Repository
	userRepo  UserRepository
	publisher events.Publisher
	metrics   *metrics.Collector
	log       *zap.Logger
}

func NewNotificationService(
	repo notification.Repository,
	userRepo UserRepository,
	publisher events.Publisher,
	m *metrics.Collector,
	log *zap.Logger,
) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo, publisher: publisher, metrics: m, log: log}
}

// Notify stores a notification and publishes it. A publish failure is logged
// only; the stored row is the source of truth.
func (s *NotificationService) Notify(ctx context.Context, cmd *notification.SendCommand) (*notification.Notification, error) {
	var v validation
	v.check(cmd.RecipientID != uuid.Nil, "recipient_id is required")
	v.check(cmd.Type.IsValid(), notification.ErrInvalidType.Error())
	v.check(strings.TrimSpace(cmd.Title) != "", "title is required")
	v.check(strings.TrimSpace(cmd.Message) != "", "message is required")
	if err := v.err(); err != nil {
		return nil, err
	}

	n := &notification.Notification{
		ID:           uuid.New(),
		RecipientID:  cmd.RecipientID,
		Type:         cmd.Type,
		Title:        strings.TrimSpace(cmd.Title),
		Message:      strings.TrimSpace(cmd.Message),
		ResourceType: cmd.ResourceType,
		ResourceID:   cmd.ResourceID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("creating notification: %w", err)
	}
	s.metrics.NotificationsTotal.WithLabelValues(string(n.Type)).Inc()

	err := s.publisher.Publish(ctx, events.Event{
		Type: eventNotificationCreated,
		Key:  n.RecipientID.String(),
		Payload: map[string]any{
			"id":            n.ID,
			"recipient_id":  n.RecipientID,
			"type":          n.Type,
			"title":         n.Title,
			"message":       n.Message,
			"resource_type": n.ResourceType,
			"resource_id":   n.ResourceID,
		},
	})
	if err != nil {
		s.log.Warn("failed to publish notification event",
			zap.String("notification_id", n.ID.String()),
			zap.Error(err),
		)
	}
	return n, nil
}

// Send lets an administrator message a single user directly.
func (s *NotificationService) Send(ctx context.Context, caller domain.Caller, cmd *notification.SendCommand) (*notification.Notification, error) {
	if !caller.Is(domain.RoleAdmin) {
		return nil, ErrForbidden
	}
	if cmd.Type == "" {
		cmd.Type = notification.TypeSystem
	}
	if _, err := s.userRepo.GetByID(ctx, cmd.RecipientID); err != nil {
		return nil, err
	}
	return s.Notify(ctx, cmd)
}

func (s *NotificationService) ListMine(ctx context.Context, caller domain.Caller, q *notification.ListNotificationsQuery) (*notification.PagedNotifications, error) {
	q.RecipientID = caller.UserID
	q.Normalize()
	return s.repo.List(ctx, q)
}

func (s *NotificationService) UnreadCount(ctx context.Context, caller domain.Caller) (int64, error) {
	return s.repo.CountUnread(ctx, caller.UserID)
}

func (s *NotificationService) MarkRead(ctx context.Context, caller domain.Caller, id uuid.UUID) (*notification.Notification, error) {
	n, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if n.IsRead {
		return n, nil
	}
	n.MarkRead()
	if err := s.repo.MarkRead(ctx, n); err != nil {
		return nil, fmt.Errorf("marking notification read: %w", err)
	}
	return n, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, caller domain.Caller) (int64, error) {
	return s.repo.MarkAllRead(ctx, caller.UserID)
}

func (s *NotificationService) Delete(ctx context.Context, caller domain.Caller, id uuid.UUID) error {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *NotificationService) owned(ctx context.Context, caller domain.Caller, id uuid.UUID) (*notification.Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.RecipientID != caller.UserID {
		return nil, ErrForbidden
	}
	return n, nil
}

// notifyQuietly delivers a side-effect notification; failures never bubble
// up into the operation that triggered them.
func notifyQuietly(ctx context.Context, n Notifier, log *zap.Logger, cmd *notification.SendCommand) {
	if n == nil || cmd.RecipientID == uuid.Nil {
		return
	}
	if _, err := n.Notify(ctx, cmd); err != nil {
		log.Warn("failed to deliver notification",
			zap.String("recipient_id", cmd.RecipientID.String()),
			zap.String("type", string(cmd.Type)),
			zap.Error(err),
		)
	}
}
