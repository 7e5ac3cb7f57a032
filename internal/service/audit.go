package service

import (
	"context"
	"time"

	"plate-server/internal/entity"
)

const auditServiceName = "plate-server"

// Audit event types.
const (
	EventUserSignedUp   = "user_signed_up"
	EventUserLoggedIn   = "user_logged_in"
	EventTokenRefreshed = "token_refreshed"
	EventUserLoggedOut  = "user_logged_out"
	EventUserDeleted    = "user_deleted"
)

type AuditEvent struct {
	Service    string                 `json:"service"`
	EventType  string                 `json:"event_type"`
	EntityID   string                 `json:"entity_id"`
	Actor      string                 `json:"actor,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
	Payload    map[string]interface{} `json:"payload"`
}

type AuditPublisher interface {
	Publish(ctx context.Context, event AuditEvent) error
}

// AuditService is safe to use as a nil pointer or with a nil publisher; both disable auditing.
type AuditService struct {
	publisher AuditPublisher
}

func NewAuditService(publisher AuditPublisher) *AuditService {
	return &AuditService{publisher: publisher}
}

func (s *AuditService) RecordUserSignedUp(ctx context.Context, user *entity.User) error {
	if user == nil {
		return nil
	}
	return s.record(ctx, EventUserSignedUp, user.ID, map[string]interface{}{
		"email": user.Email,
		"name":  user.Name,
	})
}

func (s *AuditService) RecordUserLoggedIn(ctx context.Context, user *entity.User) error {
	if user == nil {
		return nil
	}
	return s.record(ctx, EventUserLoggedIn, user.ID, map[string]interface{}{
		"email": user.Email,
	})
}

func (s *AuditService) RecordTokenRefreshed(ctx context.Context, userID, revokedTokenID string) error {
	return s.record(ctx, EventTokenRefreshed, userID, map[string]interface{}{
		"revoked_token_id": revokedTokenID,
	})
}

func (s *AuditService) RecordUserLoggedOut(ctx context.Context, userID string) error {
	return s.record(ctx, EventUserLoggedOut, userID, map[string]interface{}{})
}

func (s *AuditService) RecordUserDeleted(ctx context.Context, user *entity.User) error {
	if user == nil {
		return nil
	}
	payload := map[string]interface{}{"email": user.Email}
	if user.RemovedAt != nil {
		payload["removed_at"] = user.RemovedAt
	}
	return s.record(ctx, EventUserDeleted, user.ID, payload)
}

func (s *AuditService) record(ctx context.Context, eventType, userID string, payload map[string]interface{}) error {
	if s == nil || s.publisher == nil {
		return nil
	}

	event := AuditEvent{
		Service:    auditServiceName,
		EventType:  eventType,
		EntityID:   userID,
		Actor:      userID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
	return s.publisher.Publish(ctx, event)
}
