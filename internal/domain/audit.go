package domain

import "time"

type AuditAction string

const (
	AuditCreate       AuditAction = "create"
	AuditUpdate       AuditAction = "update"
	AuditDelete       AuditAction = "delete"
	AuditBatchCreate  AuditAction = "batch_create"
	AuditStatusUpdate AuditAction = "status_update"
	AuditUpload       AuditAction = "upload"
)

// AuditEntry records one admin mutation forwarded to the backend.
type AuditEntry struct {
	ID        int64       `json:"id"`
	Actor     string      `json:"actor"`
	Action    AuditAction `json:"action"`
	Entity    string      `json:"entity"`
	EntityID  string      `json:"entityId"`
	Summary   string      `json:"summary"`
	CreatedAt time.Time   `json:"createdAt"`
}

type AuditFilter struct {
	Entity string
	Actor  string
	Query  string
	Desc   bool
	Limit  int
	Offset int
}
