package auditlog

import "time"

// RedactionMarker replaces sensitive values in persisted request logs.
const RedactionMarker = "[REDACTED]"

// Log is one append-only audit record of an HTTP request. Records are never
// updated or deleted by the system.
type Log struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Method       string    `json:"method" gorm:"column:method;not null"`
	URL          string    `json:"url" gorm:"column:url;not null"`
	Headers      string    `json:"headers" gorm:"column:headers"`
	RequestBody  string    `json:"request_body" gorm:"column:request_body"`
	ResponseBody string    `json:"response_body" gorm:"column:response_body"`
	StatusCode   int       `json:"status_code" gorm:"column:status_code"`
	DurationMs   int64     `json:"duration_ms" gorm:"column:duration_ms"`
	UserID       *int64    `json:"user_id,omitempty" gorm:"column:user_id"`
	Source       string    `json:"source" gorm:"column:source;default:internal"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (Log) TableName() string {
	return "logs"
}

const (
	SourceInternal = "internal"
	SourceExternal = "external"
)
