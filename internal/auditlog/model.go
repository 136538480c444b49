package auditlog

import (
	"time"
)

// AuditLog records one security-relevant action. ActorRole is needed here
// because principal ids are only unique within their own store.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorID   *uint     `gorm:"index" json:"actor_id"` // nullable (e.g. failed login)
	ActorRole string    `gorm:"size:20;index" json:"actor_role"`
	Action    string    `gorm:"size:100;not null;index" json:"action"`
	Details   string    `gorm:"type:jsonb" json:"details"` // freeform JSON details
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	Status    string    `gorm:"size:20;not null;index" json:"status"` // success/failure
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditLogFilter represents filters for querying audit logs
type AuditLogFilter struct {
	ActorRole string
	Action    string
	Status    string
	FromDate  *time.Time
	ToDate    *time.Time
	Page      int
	Limit     int
}

// PaginatedAuditLogs represents a paginated audit log response
type PaginatedAuditLogs struct {
	Data       []AuditLog `json:"data"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}
