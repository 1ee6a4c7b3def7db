package webhook

import (
	"log/slog"
	"sort"

	"gorm.io/datatypes"

	"github.com/frahmantamala/merchant-management/internal"
)

type Repository interface {
	CreateEventType(et *EventType) error
	GetEventTypeByID(id int64) (*EventType, error)
	GetEventTypeByName(name string) (*EventType, error)
	GetAllEventTypes() ([]*EventType, error)
	UpdateEventType(et *EventType) error
	DeleteEventType(id int64) error

	GetAllChannels() ([]*Channel, error)
	GetChannelByID(id int64) (*Channel, error)
	GetChannelByName(name string) (*Channel, error)
	GetAllLocales() ([]*Locale, error)
	GetLocaleByID(id int64) (*Locale, error)
	GetLocaleByCode(code string) (*Locale, error)

	CreateTemplate(t *Template) error
	GetTemplateByID(id int64) (*Template, error)
	GetTemplateByCombo(eventTypeID, channelID, localeID int64) (*Template, error)
	GetTemplatesByEventType(eventTypeID int64) ([]*Template, error)
	UpdateTemplate(t *Template) error
	DeleteTemplate(id int64) error

	CreateRule(r *ProcessingRule) error
	GetRuleByID(id int64) (*ProcessingRule, error)
	GetRulesByEventType(eventTypeID int64) ([]*ProcessingRule, error)
	UpdateRule(r *ProcessingRule) error
	DeleteRule(id int64) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Event types

func (s *Service) CreateEventType(dto *CreateEventTypeDTO) (*EventType, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error())
	}

	existing, err := s.repo.GetEventTypeByName(dto.Name)
	if err != nil {
		return nil, internal.NewInternalError("failed to check event type name", err)
	}
	if existing != nil {
		return nil, internal.NewConflictError("an event type with this name already exists", internal.ErrCodeDuplicateEventType)
	}

	et := &EventType{Name: dto.Name, Description: dto.Description, IsActive: true}
	if err := s.repo.CreateEventType(et); err != nil {
		s.logger.Error("failed to create event type", "error", err, "name", dto.Name)
		return nil, internal.NewInternalError("failed to create event type", err)
	}
	return et, nil
}

func (s *Service) GetEventType(id int64) (*EventType, error) {
	et, err := s.repo.GetEventTypeByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get event type", err)
	}
	if et == nil {
		return nil, internal.ErrEventTypeNotFound
	}
	return et, nil
}

func (s *Service) GetAllEventTypes() ([]*EventType, error) {
	types, err := s.repo.GetAllEventTypes()
	if err != nil {
		return nil, internal.NewInternalError("failed to list event types", err)
	}
	return types, nil
}

func (s *Service) UpdateEventType(id int64, dto *UpdateEventTypeDTO) (*EventType, error) {
	et, err := s.GetEventType(id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		if *dto.Name == "" {
			return nil, internal.NewValidationError("name must not be empty")
		}
		et.Name = *dto.Name
	}
	if dto.Description != nil {
		et.Description = *dto.Description
	}
	if dto.IsActive != nil {
		et.IsActive = *dto.IsActive
	}

	if err := s.repo.UpdateEventType(et); err != nil {
		return nil, internal.NewInternalError("failed to update event type", err)
	}
	return et, nil
}

func (s *Service) DeleteEventType(id int64) error {
	if _, err := s.GetEventType(id); err != nil {
		return err
	}
	if err := s.repo.DeleteEventType(id); err != nil {
		return internal.NewInternalError("failed to delete event type", err)
	}
	return nil
}

// Reference data

func (s *Service) GetChannels() ([]*Channel, error) {
	channels, err := s.repo.GetAllChannels()
	if err != nil {
		return nil, internal.NewInternalError("failed to list channels", err)
	}
	return channels, nil
}

func (s *Service) GetLocales() ([]*Locale, error) {
	locales, err := s.repo.GetAllLocales()
	if err != nil {
		return nil, internal.NewInternalError("failed to list locales", err)
	}
	return locales, nil
}

// Templates

func (s *Service) CreateTemplate(dto *CreateTemplateDTO) (*Template, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error())
	}

	if _, err := s.GetEventType(dto.EventTypeID); err != nil {
		return nil, err
	}
	if err := s.checkChannelAndLocale(dto.ChannelID, dto.LocaleID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetTemplateByCombo(dto.EventTypeID, dto.ChannelID, dto.LocaleID)
	if err != nil {
		return nil, internal.NewInternalError("failed to check existing template", err)
	}
	if existing != nil {
		return nil, internal.ErrDuplicateTemplate
	}

	t := &Template{
		EventTypeID: dto.EventTypeID,
		ChannelID:   dto.ChannelID,
		LocaleID:    dto.LocaleID,
		Subject:     dto.Subject,
		Body:        dto.Body,
		IsActive:    true,
	}
	if err := s.repo.CreateTemplate(t); err != nil {
		s.logger.Error("failed to create template", "error", err,
			"event_type_id", dto.EventTypeID, "channel_id", dto.ChannelID, "locale_id", dto.LocaleID)
		return nil, internal.NewInternalError("failed to create template", err)
	}
	return t, nil
}

func (s *Service) GetTemplate(id int64) (*Template, error) {
	t, err := s.repo.GetTemplateByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get template", err)
	}
	if t == nil {
		return nil, internal.ErrTemplateNotFound
	}
	return t, nil
}

func (s *Service) GetTemplatesByEventType(eventTypeID int64) ([]*Template, error) {
	if _, err := s.GetEventType(eventTypeID); err != nil {
		return nil, err
	}
	templates, err := s.repo.GetTemplatesByEventType(eventTypeID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list templates", err)
	}
	return templates, nil
}

func (s *Service) UpdateTemplate(id int64, dto *UpdateTemplateDTO) (*Template, error) {
	t, err := s.GetTemplate(id)
	if err != nil {
		return nil, err
	}

	if dto.Subject != nil {
		t.Subject = *dto.Subject
	}
	if dto.Body != nil {
		if *dto.Body == "" {
			return nil, internal.NewValidationError("body must not be empty")
		}
		t.Body = *dto.Body
	}
	if dto.IsActive != nil {
		t.IsActive = *dto.IsActive
	}

	if err := s.repo.UpdateTemplate(t); err != nil {
		return nil, internal.NewInternalError("failed to update template", err)
	}
	return t, nil
}

func (s *Service) DeleteTemplate(id int64) error {
	if _, err := s.GetTemplate(id); err != nil {
		return err
	}
	if err := s.repo.DeleteTemplate(id); err != nil {
		return internal.NewInternalError("failed to delete template", err)
	}
	return nil
}

// Rules

func (s *Service) CreateRule(dto *CreateRuleDTO) (*ProcessingRule, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error())
	}

	if _, err := s.GetEventType(dto.EventTypeID); err != nil {
		return nil, err
	}
	if err := s.checkActionRefs(dto.Action); err != nil {
		return nil, err
	}

	priority := dto.Priority
	if priority == 0 {
		priority = 100
	}

	rule := &ProcessingRule{
		EventTypeID: dto.EventTypeID,
		Name:        dto.Name,
		Priority:    priority,
		Conditions:  datatypes.JSON(dto.Conditions),
		Action:      datatypes.JSON(dto.Action),
		IsActive:    true,
	}
	if err := s.repo.CreateRule(rule); err != nil {
		s.logger.Error("failed to create processing rule", "error", err,
			"event_type_id", dto.EventTypeID, "name", dto.Name)
		return nil, internal.NewInternalError("failed to create processing rule", err)
	}
	return rule, nil
}

func (s *Service) GetRule(id int64) (*ProcessingRule, error) {
	rule, err := s.repo.GetRuleByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get processing rule", err)
	}
	if rule == nil {
		return nil, internal.ErrRuleNotFound
	}
	return rule, nil
}

func (s *Service) GetRulesByEventType(eventTypeID int64) ([]*ProcessingRule, error) {
	if _, err := s.GetEventType(eventTypeID); err != nil {
		return nil, err
	}
	rules, err := s.repo.GetRulesByEventType(eventTypeID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list processing rules", err)
	}
	return rules, nil
}

func (s *Service) UpdateRule(id int64, dto *UpdateRuleDTO) (*ProcessingRule, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error())
	}

	rule, err := s.GetRule(id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		if *dto.Name == "" {
			return nil, internal.NewValidationError("name must not be empty")
		}
		rule.Name = *dto.Name
	}
	if dto.Priority != nil {
		rule.Priority = *dto.Priority
	}
	if len(dto.Conditions) > 0 {
		rule.Conditions = datatypes.JSON(dto.Conditions)
	}
	if len(dto.Action) > 0 {
		if err := s.checkActionRefs(dto.Action); err != nil {
			return nil, err
		}
		rule.Action = datatypes.JSON(dto.Action)
	}
	if dto.IsActive != nil {
		rule.IsActive = *dto.IsActive
	}

	if err := s.repo.UpdateRule(rule); err != nil {
		return nil, internal.NewInternalError("failed to update processing rule", err)
	}
	return rule, nil
}

func (s *Service) DeleteRule(id int64) error {
	if _, err := s.GetRule(id); err != nil {
		return err
	}
	if err := s.repo.DeleteRule(id); err != nil {
		return internal.NewInternalError("failed to delete processing rule", err)
	}
	return nil
}

// Evaluate runs a payload through an event type's active rules in priority
// order and returns the first match along with its resolved template. Rules
// whose stored documents fail to parse are skipped and logged rather than
// failing the whole evaluation.
func (s *Service) Evaluate(eventTypeID int64, dto *EvaluateDTO) (*EvaluationResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error())
	}

	et, err := s.GetEventType(eventTypeID)
	if err != nil {
		return nil, err
	}

	rules, err := s.repo.GetRulesByEventType(eventTypeID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list processing rules", err)
	}

	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority < rules[j].Priority
	})

	result := &EvaluationResult{Evaluated: []RuleTrace{}}
	for _, rule := range rules {
		if !rule.IsActive {
			continue
		}

		conditions, err := ParseConditions(rule.Conditions)
		if err != nil {
			s.logger.Warn("skipping rule with malformed conditions", "rule_id", rule.ID, "error", err)
			continue
		}

		matched := Matches(conditions, dto.Payload)
		result.Evaluated = append(result.Evaluated, RuleTrace{
			RuleID:   rule.ID,
			RuleName: rule.Name,
			Matched:  matched,
		})
		if !matched {
			continue
		}

		action, err := ParseAction(rule.Action)
		if err != nil {
			s.logger.Warn("skipping rule with malformed action", "rule_id", rule.ID, "error", err)
			continue
		}

		result.Matched = true
		result.RuleID = rule.ID
		result.RuleName = rule.Name
		result.Channel = action.Channel
		result.Locale = action.Locale

		s.resolveTemplate(et.ID, action, result)
		return result, nil
	}

	return result, nil
}

// resolveTemplate fills in the template for the matched routing; a missing
// template is not an error, the caller just gets the routing alone.
func (s *Service) resolveTemplate(eventTypeID int64, action *RuleAction, result *EvaluationResult) {
	channel, err := s.repo.GetChannelByName(action.Channel)
	if err != nil || channel == nil {
		return
	}
	locale, err := s.repo.GetLocaleByCode(action.Locale)
	if err != nil || locale == nil {
		return
	}

	t, err := s.repo.GetTemplateByCombo(eventTypeID, channel.ID, locale.ID)
	if err != nil || t == nil || !t.IsActive {
		return
	}
	result.TemplateID = t.ID
	result.Template = t
}

func (s *Service) checkChannelAndLocale(channelID, localeID int64) error {
	channel, err := s.repo.GetChannelByID(channelID)
	if err != nil {
		return internal.NewInternalError("failed to get channel", err)
	}
	if channel == nil {
		return internal.NewValidationError("unknown channel")
	}
	locale, err := s.repo.GetLocaleByID(localeID)
	if err != nil {
		return internal.NewInternalError("failed to get locale", err)
	}
	if locale == nil {
		return internal.NewValidationError("unknown locale")
	}
	return nil
}

// checkActionRefs verifies the channel and locale an action names actually
// exist, so a rule can never route to nowhere.
func (s *Service) checkActionRefs(raw []byte) error {
	action, err := ParseAction(raw)
	if err != nil {
		return internal.NewValidationError(err.Error())
	}

	channel, err := s.repo.GetChannelByName(action.Channel)
	if err != nil {
		return internal.NewInternalError("failed to get channel", err)
	}
	if channel == nil {
		return internal.NewValidationError("unknown channel in action")
	}
	locale, err := s.repo.GetLocaleByCode(action.Locale)
	if err != nil {
		return internal.NewInternalError("failed to get locale", err)
	}
	if locale == nil {
		return internal.NewValidationError("unknown locale in action")
	}
	return nil
}
