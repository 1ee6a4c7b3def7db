package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/merchant-management/internal/webhook"
)

// WebhookRepository implements webhook.Repository with GORM.
type WebhookRepository struct {
	db *gorm.DB
}

func NewWebhookRepository(db *gorm.DB) webhook.Repository {
	return &WebhookRepository{db: db}
}

// Event types

func (r *WebhookRepository) CreateEventType(et *webhook.EventType) error {
	return r.db.Create(et).Error
}

func (r *WebhookRepository) GetEventTypeByID(id int64) (*webhook.EventType, error) {
	var et webhook.EventType
	err := r.db.Where("id = ?", id).First(&et).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &et, nil
}

func (r *WebhookRepository) GetEventTypeByName(name string) (*webhook.EventType, error) {
	var et webhook.EventType
	err := r.db.Where("name = ?", name).First(&et).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &et, nil
}

func (r *WebhookRepository) GetAllEventTypes() ([]*webhook.EventType, error) {
	var types []*webhook.EventType
	err := r.db.Order("name ASC").Find(&types).Error
	return types, err
}

func (r *WebhookRepository) UpdateEventType(et *webhook.EventType) error {
	et.UpdatedAt = time.Now()
	return r.db.Save(et).Error
}

func (r *WebhookRepository) DeleteEventType(id int64) error {
	return r.db.Delete(&webhook.EventType{}, id).Error
}

// Channels and locales

func (r *WebhookRepository) GetAllChannels() ([]*webhook.Channel, error) {
	var channels []*webhook.Channel
	err := r.db.Order("name ASC").Find(&channels).Error
	return channels, err
}

func (r *WebhookRepository) GetChannelByID(id int64) (*webhook.Channel, error) {
	var c webhook.Channel
	err := r.db.Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *WebhookRepository) GetChannelByName(name string) (*webhook.Channel, error) {
	var c webhook.Channel
	err := r.db.Where("name = ?", name).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *WebhookRepository) GetAllLocales() ([]*webhook.Locale, error) {
	var locales []*webhook.Locale
	err := r.db.Order("code ASC").Find(&locales).Error
	return locales, err
}

func (r *WebhookRepository) GetLocaleByID(id int64) (*webhook.Locale, error) {
	var l webhook.Locale
	err := r.db.Where("id = ?", id).First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *WebhookRepository) GetLocaleByCode(code string) (*webhook.Locale, error) {
	var l webhook.Locale
	err := r.db.Where("code = ?", code).First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

// Templates

func (r *WebhookRepository) CreateTemplate(t *webhook.Template) error {
	return r.db.Create(t).Error
}

func (r *WebhookRepository) GetTemplateByID(id int64) (*webhook.Template, error) {
	var t webhook.Template
	err := r.db.Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *WebhookRepository) GetTemplateByCombo(eventTypeID, channelID, localeID int64) (*webhook.Template, error) {
	var t webhook.Template
	err := r.db.Where("event_type_id = ? AND channel_id = ? AND locale_id = ?",
		eventTypeID, channelID, localeID).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *WebhookRepository) GetTemplatesByEventType(eventTypeID int64) ([]*webhook.Template, error) {
	var templates []*webhook.Template
	err := r.db.Where("event_type_id = ?", eventTypeID).
		Order("channel_id ASC, locale_id ASC").
		Find(&templates).Error
	return templates, err
}

func (r *WebhookRepository) UpdateTemplate(t *webhook.Template) error {
	t.UpdatedAt = time.Now()
	return r.db.Save(t).Error
}

func (r *WebhookRepository) DeleteTemplate(id int64) error {
	return r.db.Delete(&webhook.Template{}, id).Error
}

// Rules

func (r *WebhookRepository) CreateRule(rule *webhook.ProcessingRule) error {
	return r.db.Create(rule).Error
}

func (r *WebhookRepository) GetRuleByID(id int64) (*webhook.ProcessingRule, error) {
	var rule webhook.ProcessingRule
	err := r.db.Where("id = ?", id).First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *WebhookRepository) GetRulesByEventType(eventTypeID int64) ([]*webhook.ProcessingRule, error) {
	var rules []*webhook.ProcessingRule
	err := r.db.Where("event_type_id = ?", eventTypeID).
		Order("priority ASC, id ASC").
		Find(&rules).Error
	return rules, err
}

func (r *WebhookRepository) UpdateRule(rule *webhook.ProcessingRule) error {
	rule.UpdatedAt = time.Now()
	return r.db.Save(rule).Error
}

func (r *WebhookRepository) DeleteRule(id int64) error {
	return r.db.Delete(&webhook.ProcessingRule{}, id).Error
}
