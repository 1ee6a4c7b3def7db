package webhook_test

import (
	"encoding/json"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/datatypes"

	"github.com/frahmantamala/merchant-management/internal"
	"github.com/frahmantamala/merchant-management/internal/webhook"
)

// MockRepository implements webhook.Repository for testing
type MockRepository struct {
	eventTypes map[int64]*webhook.EventType
	channels   map[int64]*webhook.Channel
	locales    map[int64]*webhook.Locale
	templates  map[int64]*webhook.Template
	rules      map[int64]*webhook.ProcessingRule
	nextID     int64
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		eventTypes: make(map[int64]*webhook.EventType),
		channels:   make(map[int64]*webhook.Channel),
		locales:    make(map[int64]*webhook.Locale),
		templates:  make(map[int64]*webhook.Template),
		rules:      make(map[int64]*webhook.ProcessingRule),
		nextID:     1,
	}
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

func (m *MockRepository) allocID() int64 {
	id := m.nextID
	m.nextID++
	return id
}

func (m *MockRepository) CreateEventType(et *webhook.EventType) error {
	if m.shouldFail {
		return m.failError
	}
	et.ID = m.allocID()
	m.eventTypes[et.ID] = et
	return nil
}

func (m *MockRepository) GetEventTypeByID(id int64) (*webhook.EventType, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.eventTypes[id], nil
}

func (m *MockRepository) GetEventTypeByName(name string) (*webhook.EventType, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, et := range m.eventTypes {
		if et.Name == name {
			return et, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) GetAllEventTypes() ([]*webhook.EventType, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var types []*webhook.EventType
	for _, et := range m.eventTypes {
		types = append(types, et)
	}
	return types, nil
}

func (m *MockRepository) UpdateEventType(et *webhook.EventType) error {
	if m.shouldFail {
		return m.failError
	}
	m.eventTypes[et.ID] = et
	return nil
}

func (m *MockRepository) DeleteEventType(id int64) error {
	if m.shouldFail {
		return m.failError
	}
	delete(m.eventTypes, id)
	return nil
}

func (m *MockRepository) GetAllChannels() ([]*webhook.Channel, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var channels []*webhook.Channel
	for _, c := range m.channels {
		channels = append(channels, c)
	}
	return channels, nil
}

func (m *MockRepository) GetChannelByID(id int64) (*webhook.Channel, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.channels[id], nil
}

func (m *MockRepository) GetChannelByName(name string) (*webhook.Channel, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, c := range m.channels {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) GetAllLocales() ([]*webhook.Locale, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var locales []*webhook.Locale
	for _, l := range m.locales {
		locales = append(locales, l)
	}
	return locales, nil
}

func (m *MockRepository) GetLocaleByID(id int64) (*webhook.Locale, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.locales[id], nil
}

func (m *MockRepository) GetLocaleByCode(code string) (*webhook.Locale, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, l := range m.locales {
		if l.Code == code {
			return l, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) CreateTemplate(t *webhook.Template) error {
	if m.shouldFail {
		return m.failError
	}
	t.ID = m.allocID()
	m.templates[t.ID] = t
	return nil
}

func (m *MockRepository) GetTemplateByID(id int64) (*webhook.Template, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.templates[id], nil
}

func (m *MockRepository) GetTemplateByCombo(eventTypeID, channelID, localeID int64) (*webhook.Template, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, t := range m.templates {
		if t.EventTypeID == eventTypeID && t.ChannelID == channelID && t.LocaleID == localeID {
			return t, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) GetTemplatesByEventType(eventTypeID int64) ([]*webhook.Template, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var templates []*webhook.Template
	for _, t := range m.templates {
		if t.EventTypeID == eventTypeID {
			templates = append(templates, t)
		}
	}
	return templates, nil
}

func (m *MockRepository) UpdateTemplate(t *webhook.Template) error {
	if m.shouldFail {
		return m.failError
	}
	m.templates[t.ID] = t
	return nil
}

func (m *MockRepository) DeleteTemplate(id int64) error {
	if m.shouldFail {
		return m.failError
	}
	delete(m.templates, id)
	return nil
}

func (m *MockRepository) CreateRule(r *webhook.ProcessingRule) error {
	if m.shouldFail {
		return m.failError
	}
	r.ID = m.allocID()
	m.rules[r.ID] = r
	return nil
}

func (m *MockRepository) GetRuleByID(id int64) (*webhook.ProcessingRule, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.rules[id], nil
}

func (m *MockRepository) GetRulesByEventType(eventTypeID int64) ([]*webhook.ProcessingRule, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var rules []*webhook.ProcessingRule
	for _, r := range m.rules {
		if r.EventTypeID == eventTypeID {
			rules = append(rules, r)
		}
	}
	return rules, nil
}

func (m *MockRepository) UpdateRule(r *webhook.ProcessingRule) error {
	if m.shouldFail {
		return m.failError
	}
	m.rules[r.ID] = r
	return nil
}

func (m *MockRepository) DeleteRule(id int64) error {
	if m.shouldFail {
		return m.failError
	}
	delete(m.rules, id)
	return nil
}

var _ = Describe("Webhook Service", func() {
	var (
		mockRepo  *MockRepository
		service   *webhook.Service
		eventType *webhook.EventType
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = webhook.NewService(mockRepo, logger)

		eventType = &webhook.EventType{Name: "account.status.updated", IsActive: true}
		Expect(mockRepo.CreateEventType(eventType)).To(Succeed())

		mockRepo.channels[100] = &webhook.Channel{ID: 100, Name: "email"}
		mockRepo.channels[101] = &webhook.Channel{ID: 101, Name: "sms"}
		mockRepo.locales[200] = &webhook.Locale{ID: 200, Code: "en", Name: "English"}
		mockRepo.locales[201] = &webhook.Locale{ID: 201, Code: "zh-CN", Name: "Chinese (Simplified)"}
	})

	addRule := func(name string, priority int, conditions, action string, active bool) *webhook.ProcessingRule {
		rule := &webhook.ProcessingRule{
			EventTypeID: eventType.ID,
			Name:        name,
			Priority:    priority,
			Conditions:  datatypes.JSON(conditions),
			Action:      datatypes.JSON(action),
			IsActive:    active,
		}
		Expect(mockRepo.CreateRule(rule)).To(Succeed())
		return rule
	}

	Describe("CreateEventType", func() {
		It("should reject a duplicate name", func() {
			_, err := service.CreateEventType(&webhook.CreateEventTypeDTO{Name: "account.status.updated"})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeConflict))
		})

		It("should create a new event type as active", func() {
			et, err := service.CreateEventType(&webhook.CreateEventTypeDTO{Name: "payment.settled"})
			Expect(err).NotTo(HaveOccurred())
			Expect(et.IsActive).To(BeTrue())
		})
	})

	Describe("CreateTemplate", func() {
		It("should create a template for a valid combination", func() {
			t, err := service.CreateTemplate(&webhook.CreateTemplateDTO{
				EventTypeID: eventType.ID,
				ChannelID:   100,
				LocaleID:    200,
				Subject:     "Account update",
				Body:        "Your account status changed.",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(t.IsActive).To(BeTrue())
		})

		It("should reject a duplicate combination", func() {
			dto := &webhook.CreateTemplateDTO{
				EventTypeID: eventType.ID,
				ChannelID:   100,
				LocaleID:    200,
				Body:        "first",
			}
			_, err := service.CreateTemplate(dto)
			Expect(err).NotTo(HaveOccurred())

			dto.Body = "second"
			_, err = service.CreateTemplate(dto)
			Expect(err).To(Equal(internal.ErrDuplicateTemplate))
		})

		It("should reject an unknown channel", func() {
			_, err := service.CreateTemplate(&webhook.CreateTemplateDTO{
				EventTypeID: eventType.ID,
				ChannelID:   999,
				LocaleID:    200,
				Body:        "body",
			})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should reject an unknown event type", func() {
			_, err := service.CreateTemplate(&webhook.CreateTemplateDTO{
				EventTypeID: 999,
				ChannelID:   100,
				LocaleID:    200,
				Body:        "body",
			})
			Expect(err).To(Equal(internal.ErrEventTypeNotFound))
		})
	})

	Describe("CreateRule", func() {
		It("should default the priority to 100", func() {
			rule, err := service.CreateRule(&webhook.CreateRuleDTO{
				EventTypeID: eventType.ID,
				Name:        "default route",
				Conditions:  json.RawMessage(`[]`),
				Action:      json.RawMessage(`{"channel": "email", "locale": "en"}`),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(rule.Priority).To(Equal(100))
		})

		It("should reject an action naming an unknown channel", func() {
			_, err := service.CreateRule(&webhook.CreateRuleDTO{
				EventTypeID: eventType.ID,
				Name:        "bad route",
				Conditions:  json.RawMessage(`[]`),
				Action:      json.RawMessage(`{"channel": "pigeon", "locale": "en"}`),
			})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should reject an action naming an unknown locale", func() {
			_, err := service.CreateRule(&webhook.CreateRuleDTO{
				EventTypeID: eventType.ID,
				Name:        "bad route",
				Conditions:  json.RawMessage(`[]`),
				Action:      json.RawMessage(`{"channel": "email", "locale": "fr"}`),
			})
			Expect(err).To(HaveOccurred())
		})

		It("should reject malformed conditions", func() {
			_, err := service.CreateRule(&webhook.CreateRuleDTO{
				EventTypeID: eventType.ID,
				Name:        "bad conditions",
				Conditions:  json.RawMessage(`[{"field": "x", "op": "gt", "value": "1"}]`),
				Action:      json.RawMessage(`{"channel": "email", "locale": "en"}`),
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Evaluate", func() {
		payload := &webhook.EvaluateDTO{
			Payload: json.RawMessage(`{"data": {"status": "SUSPENDED", "region": "apac"}}`),
		}

		It("should pick the first matching rule by ascending priority", func() {
			addRule("suspended accounts", 10,
				`[{"field": "data.status", "op": "eq", "value": "SUSPENDED"}]`,
				`{"channel": "sms", "locale": "en"}`, true)
			addRule("catch-all", 100, `[]`, `{"channel": "email", "locale": "en"}`, true)

			result, err := service.Evaluate(eventType.ID, payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Matched).To(BeTrue())
			Expect(result.RuleName).To(Equal("suspended accounts"))
			Expect(result.Channel).To(Equal("sms"))
			Expect(result.Evaluated).To(HaveLen(1))
		})

		It("should fall through non-matching rules and record the trace", func() {
			addRule("active accounts", 10,
				`[{"field": "data.status", "op": "eq", "value": "ACTIVE"}]`,
				`{"channel": "sms", "locale": "en"}`, true)
			addRule("catch-all", 100, `[]`, `{"channel": "email", "locale": "en"}`, true)

			result, err := service.Evaluate(eventType.ID, payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Matched).To(BeTrue())
			Expect(result.RuleName).To(Equal("catch-all"))
			Expect(result.Evaluated).To(HaveLen(2))
			Expect(result.Evaluated[0].RuleName).To(Equal("active accounts"))
			Expect(result.Evaluated[0].Matched).To(BeFalse())
			Expect(result.Evaluated[1].Matched).To(BeTrue())
		})

		It("should skip inactive rules entirely", func() {
			addRule("disabled", 10, `[]`, `{"channel": "sms", "locale": "en"}`, false)
			addRule("catch-all", 100, `[]`, `{"channel": "email", "locale": "en"}`, true)

			result, err := service.Evaluate(eventType.ID, payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.RuleName).To(Equal("catch-all"))
			Expect(result.Evaluated).To(HaveLen(1))
		})

		It("should skip rules with malformed stored documents", func() {
			addRule("broken", 10, `{"not": "an array"}`, `{"channel": "sms", "locale": "en"}`, true)
			addRule("catch-all", 100, `[]`, `{"channel": "email", "locale": "en"}`, true)

			result, err := service.Evaluate(eventType.ID, payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Matched).To(BeTrue())
			Expect(result.RuleName).To(Equal("catch-all"))
		})

		It("should report no match when nothing applies", func() {
			addRule("active accounts", 10,
				`[{"field": "data.status", "op": "eq", "value": "ACTIVE"}]`,
				`{"channel": "sms", "locale": "en"}`, true)

			result, err := service.Evaluate(eventType.ID, payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Matched).To(BeFalse())
			Expect(result.Evaluated).To(HaveLen(1))
		})

		It("should resolve the template for the selected routing", func() {
			template := &webhook.Template{
				EventTypeID: eventType.ID,
				ChannelID:   100,
				LocaleID:    200,
				Subject:     "Account update",
				Body:        "Status changed.",
				IsActive:    true,
			}
			Expect(mockRepo.CreateTemplate(template)).To(Succeed())
			addRule("catch-all", 100, `[]`, `{"channel": "email", "locale": "en"}`, true)

			result, err := service.Evaluate(eventType.ID, payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.TemplateID).To(Equal(template.ID))
			Expect(result.Template).NotTo(BeNil())
			Expect(result.Template.Body).To(Equal("Status changed."))
		})

		It("should return the routing alone when no template exists", func() {
			addRule("catch-all", 100, `[]`, `{"channel": "email", "locale": "en"}`, true)

			result, err := service.Evaluate(eventType.ID, payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Matched).To(BeTrue())
			Expect(result.Channel).To(Equal("email"))
			Expect(result.TemplateID).To(BeZero())
			Expect(result.Template).To(BeNil())
		})

		It("should not resolve an inactive template", func() {
			template := &webhook.Template{
				EventTypeID: eventType.ID,
				ChannelID:   100,
				LocaleID:    200,
				Body:        "Status changed.",
				IsActive:    false,
			}
			Expect(mockRepo.CreateTemplate(template)).To(Succeed())
			addRule("catch-all", 100, `[]`, `{"channel": "email", "locale": "en"}`, true)

			result, err := service.Evaluate(eventType.ID, payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Template).To(BeNil())
		})

		It("should reject an invalid payload", func() {
			_, err := service.Evaluate(eventType.ID, &webhook.EvaluateDTO{Payload: json.RawMessage(`{broken`)})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should fail for an unknown event type", func() {
			_, err := service.Evaluate(999, payload)
			Expect(err).To(Equal(internal.ErrEventTypeNotFound))
		})
	})
})
