package auditlog

import (
	"context"
	"encoding/json"
	"log"
)

type Service interface {
	// LogAction is best effort: audit failures are logged, never surfaced
	// to the caller's request.
	LogAction(ctx context.Context, actorID *uint, actorRole, action string, details map[string]interface{}, ip, status string)
	GetAuditLogs(filter AuditLogFilter) (*PaginatedAuditLogs, error)
}

type service struct {
	repo Repository
}

func NewService(r Repository) Service {
	return &service{repo: r}
}

func (s *service) LogAction(ctx context.Context, actorID *uint, actorRole, action string, details map[string]interface{}, ip, status string) {
	payload, err := json.Marshal(details)
	if err != nil {
		payload = []byte("{}")
	}

	entry := &AuditLog{
		ActorID:   actorID,
		ActorRole: actorRole,
		Action:    action,
		Details:   string(payload),
		IPAddress: ip,
		Status:    status,
	}

	if err := s.repo.Create(entry); err != nil {
		log.Printf("audit log write failed for %s: %v", action, err)
	}
}

func (s *service) GetAuditLogs(filter AuditLogFilter) (*PaginatedAuditLogs, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	logs, total, err := s.repo.List(filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &PaginatedAuditLogs{
		Data:       logs,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}
