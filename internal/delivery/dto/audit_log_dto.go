package dto

import (
	"time"

	"github.com/RouteClouds/Health-Care-Management-System/internal/domain/entity"
)

type ListAuditLogsQuery struct {
	PageQuery
	Action string
}

// Response DTOs

type AuditLogResponse struct {
	ID        int64         `json:"id"`
	User      *UserResponse `json:"user,omitempty"`
	Action    string        `json:"action"`
	Metadata  entity.JSON   `json:"metadata"`
	CreatedAt time.Time     `json:"createdAt"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int64              `json:"total"`
}
