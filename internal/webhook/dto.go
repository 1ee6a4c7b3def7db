package webhook

import (
	"encoding/json"
	"fmt"
	"strings"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type CreateEventTypeDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (d *CreateEventTypeDTO) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	return nil
}

type UpdateEventTypeDTO struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type CreateTemplateDTO struct {
	EventTypeID int64  `json:"event_type_id"`
	ChannelID   int64  `json:"channel_id"`
	LocaleID    int64  `json:"locale_id"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
}

func (d *CreateTemplateDTO) Validate() error {
	if d.EventTypeID <= 0 {
		return ValidationError{Field: "event_type_id", Message: "event_type_id is required"}
	}
	if d.ChannelID <= 0 {
		return ValidationError{Field: "channel_id", Message: "channel_id is required"}
	}
	if d.LocaleID <= 0 {
		return ValidationError{Field: "locale_id", Message: "locale_id is required"}
	}
	if strings.TrimSpace(d.Body) == "" {
		return ValidationError{Field: "body", Message: "body is required"}
	}
	return nil
}

type UpdateTemplateDTO struct {
	Subject  *string `json:"subject"`
	Body     *string `json:"body"`
	IsActive *bool   `json:"is_active"`
}

type CreateRuleDTO struct {
	EventTypeID int64           `json:"event_type_id"`
	Name        string          `json:"name"`
	Priority    int             `json:"priority"`
	Conditions  json.RawMessage `json:"conditions"`
	Action      json.RawMessage `json:"action"`
}

func (d *CreateRuleDTO) Validate() error {
	if d.EventTypeID <= 0 {
		return ValidationError{Field: "event_type_id", Message: "event_type_id is required"}
	}
	if strings.TrimSpace(d.Name) == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(d.Conditions) == 0 {
		return ValidationError{Field: "conditions", Message: "conditions is required (use [] for a catch-all rule)"}
	}
	if _, err := ParseConditions(d.Conditions); err != nil {
		return ValidationError{Field: "conditions", Message: err.Error()}
	}
	if len(d.Action) == 0 {
		return ValidationError{Field: "action", Message: "action is required"}
	}
	if _, err := ParseAction(d.Action); err != nil {
		return ValidationError{Field: "action", Message: err.Error()}
	}
	return nil
}

type UpdateRuleDTO struct {
	Name       *string         `json:"name"`
	Priority   *int            `json:"priority"`
	Conditions json.RawMessage `json:"conditions"`
	Action     json.RawMessage `json:"action"`
	IsActive   *bool           `json:"is_active"`
}

func (d *UpdateRuleDTO) Validate() error {
	if len(d.Conditions) > 0 {
		if _, err := ParseConditions(d.Conditions); err != nil {
			return ValidationError{Field: "conditions", Message: err.Error()}
		}
	}
	if len(d.Action) > 0 {
		if _, err := ParseAction(d.Action); err != nil {
			return ValidationError{Field: "action", Message: err.Error()}
		}
	}
	return nil
}

// RefsResponse bundles the reference data needed to build templates.
type RefsResponse struct {
	Channels []*Channel `json:"channels"`
	Locales  []*Locale  `json:"locales"`
}

// EvaluateDTO is a sample payload to run through an event type's rules.
type EvaluateDTO struct {
	Payload json.RawMessage `json:"payload"`
}

func (d *EvaluateDTO) Validate() error {
	if len(d.Payload) == 0 {
		return ValidationError{Field: "payload", Message: "payload is required"}
	}
	if !json.Valid(d.Payload) {
		return ValidationError{Field: "payload", Message: "payload must be valid JSON"}
	}
	return nil
}
