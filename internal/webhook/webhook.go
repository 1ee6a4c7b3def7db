package webhook

import (
	"time"

	"gorm.io/datatypes"
)

// EventType is a category of inbound provider webhook, e.g.
// "account.status.updated". Processing rules and templates hang off it.
type EventType struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"column:name;uniqueIndex;not null"`
	Description string    `json:"description" gorm:"column:description"`
	IsActive    bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (EventType) TableName() string {
	return "webhook_event_types"
}

// Channel is a delivery medium for notifications (email, sms, push).
type Channel struct {
	ID   int64  `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"column:name;uniqueIndex;not null"`
}

func (Channel) TableName() string {
	return "notification_channels"
}

// Locale is a supported notification language, e.g. "en", "zh-CN".
type Locale struct {
	ID   int64  `json:"id" gorm:"primaryKey"`
	Code string `json:"code" gorm:"column:code;uniqueIndex;not null"`
	Name string `json:"name" gorm:"column:name"`
}

func (Locale) TableName() string {
	return "notification_locales"
}

// Template is the notification content for one (event type, channel, locale)
// combination; that triple is unique.
type Template struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	EventTypeID int64     `json:"event_type_id" gorm:"column:event_type_id;not null;uniqueIndex:idx_template_combo"`
	ChannelID   int64     `json:"channel_id" gorm:"column:channel_id;not null;uniqueIndex:idx_template_combo"`
	LocaleID    int64     `json:"locale_id" gorm:"column:locale_id;not null;uniqueIndex:idx_template_combo"`
	Subject     string    `json:"subject" gorm:"column:subject"`
	Body        string    `json:"body" gorm:"column:body;type:text"`
	IsActive    bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Template) TableName() string {
	return "webhook_templates"
}

// ProcessingRule decides which channel and locale an event payload routes
// to. Conditions is a JSON array of {field, op, value} predicates over the
// payload, all of which must hold; Action is a JSON object naming the
// channel and locale to use. Rules for an event type are evaluated in
// ascending Priority order and the first match wins.
type ProcessingRule struct {
	ID          int64          `json:"id" gorm:"primaryKey"`
	EventTypeID int64          `json:"event_type_id" gorm:"column:event_type_id;not null;index"`
	Name        string         `json:"name" gorm:"column:name;not null"`
	Priority    int            `json:"priority" gorm:"column:priority;not null;default:100"`
	Conditions  datatypes.JSON `json:"conditions" gorm:"column:conditions;not null"`
	Action      datatypes.JSON `json:"action" gorm:"column:action;not null"`
	IsActive    bool           `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt   time.Time      `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (ProcessingRule) TableName() string {
	return "webhook_processing_rules"
}

// EvaluationResult reports which rule matched a payload and the routing it
// selected, plus the template resolved for that routing when one exists.
type EvaluationResult struct {
	Matched    bool        `json:"matched"`
	RuleID     int64       `json:"rule_id,omitempty"`
	RuleName   string      `json:"rule_name,omitempty"`
	Channel    string      `json:"channel,omitempty"`
	Locale     string      `json:"locale,omitempty"`
	TemplateID int64       `json:"template_id,omitempty"`
	Template   *Template   `json:"template,omitempty"`
	Evaluated  []RuleTrace `json:"evaluated"`
}

// RuleTrace is one rule's outcome during evaluation, in the order tried.
type RuleTrace struct {
	RuleID   int64  `json:"rule_id"`
	RuleName string `json:"rule_name"`
	Matched  bool   `json:"matched"`
}
