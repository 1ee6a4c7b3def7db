package postgres_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/merchant-management/internal/webhook"
	webhookPostgres "github.com/frahmantamala/merchant-management/internal/webhook/postgres"
)

func TestWebhookPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Webhook Postgres Suite")
}

// SQLite-compatible models for testing

type SQLiteEventType struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	IsActive    bool      `gorm:"column:is_active;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (SQLiteEventType) TableName() string {
	return "webhook_event_types"
}

type SQLiteChannel struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"column:name;uniqueIndex;not null"`
}

func (SQLiteChannel) TableName() string {
	return "notification_channels"
}

type SQLiteLocale struct {
	ID   int64  `gorm:"primaryKey"`
	Code string `gorm:"column:code;uniqueIndex;not null"`
	Name string `gorm:"column:name"`
}

func (SQLiteLocale) TableName() string {
	return "notification_locales"
}

type SQLiteTemplate struct {
	ID          int64     `gorm:"primaryKey"`
	EventTypeID int64     `gorm:"column:event_type_id;not null;uniqueIndex:idx_template_combo"`
	ChannelID   int64     `gorm:"column:channel_id;not null;uniqueIndex:idx_template_combo"`
	LocaleID    int64     `gorm:"column:locale_id;not null;uniqueIndex:idx_template_combo"`
	Subject     string    `gorm:"column:subject"`
	Body        string    `gorm:"column:body"`
	IsActive    bool      `gorm:"column:is_active;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (SQLiteTemplate) TableName() string {
	return "webhook_templates"
}

type SQLiteProcessingRule struct {
	ID          int64     `gorm:"primaryKey"`
	EventTypeID int64     `gorm:"column:event_type_id;not null;index"`
	Name        string    `gorm:"column:name;not null"`
	Priority    int       `gorm:"column:priority;not null;default:100"`
	Conditions  string    `gorm:"column:conditions"`
	Action      string    `gorm:"column:action"`
	IsActive    bool      `gorm:"column:is_active;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (SQLiteProcessingRule) TableName() string {
	return "webhook_processing_rules"
}

var _ = Describe("Webhook PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo webhook.Repository
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteEventType{}, &SQLiteChannel{}, &SQLiteLocale{},
			&SQLiteTemplate{}, &SQLiteProcessingRule{})
		Expect(err).NotTo(HaveOccurred())

		repo = webhookPostgres.NewWebhookRepository(db)
	})

	Describe("Event types", func() {
		It("should create and fetch by name", func() {
			et := &webhook.EventType{Name: "account.status.updated", IsActive: true}
			Expect(repo.CreateEventType(et)).To(Succeed())

			result, err := repo.GetEventTypeByName("account.status.updated")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).NotTo(BeNil())
			Expect(result.ID).To(Equal(et.ID))
		})

		It("should enforce the unique name constraint", func() {
			Expect(repo.CreateEventType(&webhook.EventType{Name: "dup"})).To(Succeed())
			Expect(repo.CreateEventType(&webhook.EventType{Name: "dup"})).To(HaveOccurred())
		})

		It("should return nil for a missing event type", func() {
			result, err := repo.GetEventTypeByID(999)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(BeNil())
		})
	})

	Describe("Templates", func() {
		var et *webhook.EventType

		BeforeEach(func() {
			et = &webhook.EventType{Name: "account.status.updated", IsActive: true}
			Expect(repo.CreateEventType(et)).To(Succeed())
		})

		It("should enforce the unique (event type, channel, locale) combination", func() {
			first := &webhook.Template{EventTypeID: et.ID, ChannelID: 1, LocaleID: 1, Body: "a", IsActive: true}
			Expect(repo.CreateTemplate(first)).To(Succeed())

			dup := &webhook.Template{EventTypeID: et.ID, ChannelID: 1, LocaleID: 1, Body: "b", IsActive: true}
			Expect(repo.CreateTemplate(dup)).To(HaveOccurred())
		})

		It("should fetch by combination", func() {
			t := &webhook.Template{EventTypeID: et.ID, ChannelID: 1, LocaleID: 2, Body: "a", IsActive: true}
			Expect(repo.CreateTemplate(t)).To(Succeed())

			result, err := repo.GetTemplateByCombo(et.ID, 1, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).NotTo(BeNil())

			missing, err := repo.GetTemplateByCombo(et.ID, 1, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(missing).To(BeNil())
		})
	})

	Describe("Processing rules", func() {
		var et *webhook.EventType

		BeforeEach(func() {
			et = &webhook.EventType{Name: "account.status.updated", IsActive: true}
			Expect(repo.CreateEventType(et)).To(Succeed())
		})

		It("should list rules in ascending priority order", func() {
			for _, spec := range []struct {
				name     string
				priority int
			}{
				{"fallback", 100},
				{"urgent", 5},
				{"normal", 50},
			} {
				rule := &webhook.ProcessingRule{
					EventTypeID: et.ID,
					Name:        spec.name,
					Priority:    spec.priority,
					Conditions:  datatypes.JSON(`[]`),
					Action:      datatypes.JSON(`{"channel":"email","locale":"en"}`),
					IsActive:    true,
				}
				Expect(repo.CreateRule(rule)).To(Succeed())
			}

			rules, err := repo.GetRulesByEventType(et.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(rules).To(HaveLen(3))
			Expect(rules[0].Name).To(Equal("urgent"))
			Expect(rules[1].Name).To(Equal("normal"))
			Expect(rules[2].Name).To(Equal("fallback"))
		})

		It("should round-trip the JSON documents", func() {
			rule := &webhook.ProcessingRule{
				EventTypeID: et.ID,
				Name:        "suspended",
				Priority:    10,
				Conditions:  datatypes.JSON(`[{"field":"data.status","op":"eq","value":"SUSPENDED"}]`),
				Action:      datatypes.JSON(`{"channel":"sms","locale":"en"}`),
				IsActive:    true,
			}
			Expect(repo.CreateRule(rule)).To(Succeed())

			stored, err := repo.GetRuleByID(rule.ID)
			Expect(err).NotTo(HaveOccurred())

			conditions, err := webhook.ParseConditions(stored.Conditions)
			Expect(err).NotTo(HaveOccurred())
			Expect(conditions).To(HaveLen(1))
			Expect(conditions[0].Value).To(Equal("SUSPENDED"))

			action, err := webhook.ParseAction(stored.Action)
			Expect(err).NotTo(HaveOccurred())
			Expect(action.Channel).To(Equal("sms"))
		})
	})
})
