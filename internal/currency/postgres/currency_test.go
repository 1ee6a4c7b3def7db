package postgres_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/merchant-management/internal/currency"
	currencyPostgres "github.com/frahmantamala/merchant-management/internal/currency/postgres"
)

func TestCurrencyPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Currency Postgres Suite")
}

// SQLite-compatible models for testing

type SQLiteGroup struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (SQLiteGroup) TableName() string {
	return "currency_groups"
}

type SQLiteCurrency struct {
	ID        int64     `gorm:"primaryKey"`
	Code      string    `gorm:"column:code;uniqueIndex;not null"`
	Name      string    `gorm:"column:name"`
	GroupID   int64     `gorm:"column:group_id;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (SQLiteCurrency) TableName() string {
	return "currencies"
}

type SQLiteCompanyRate struct {
	ID             int64           `gorm:"primaryKey"`
	CompanyID      int64           `gorm:"column:company_id;not null;uniqueIndex:idx_company_group"`
	GroupID        int64           `gorm:"column:group_id;not null;uniqueIndex:idx_company_group"`
	AwRate         decimal.Decimal `gorm:"column:aw_rate;type:text"`
	MpRate         decimal.Decimal `gorm:"column:mp_rate;type:text"`
	ConversionRate decimal.Decimal `gorm:"column:conversion_rate;type:text"`
	IsActive       bool            `gorm:"column:is_active;default:true"`
	CreatedAt      time.Time       `gorm:"column:created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at"`
}

func (SQLiteCompanyRate) TableName() string {
	return "company_currency_rates"
}

type SQLitePlanRate struct {
	ID             int64           `gorm:"primaryKey"`
	PlanID         int64           `gorm:"column:plan_id;not null;uniqueIndex:idx_plan_group"`
	GroupID        int64           `gorm:"column:group_id;not null;uniqueIndex:idx_plan_group"`
	AwRate         decimal.Decimal `gorm:"column:aw_rate;type:text"`
	MpRate         decimal.Decimal `gorm:"column:mp_rate;type:text"`
	ConversionRate decimal.Decimal `gorm:"column:conversion_rate;type:text"`
	IsActive       bool            `gorm:"column:is_active;default:true"`
	CreatedAt      time.Time       `gorm:"column:created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at"`
}

func (SQLitePlanRate) TableName() string {
	return "plan_currency_rates"
}

var _ = Describe("Currency PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo currency.Repository
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteGroup{}, &SQLiteCurrency{}, &SQLiteCompanyRate{}, &SQLitePlanRate{})
		Expect(err).NotTo(HaveOccurred())

		repo = currencyPostgres.NewCurrencyRepository(db)
	})

	Describe("Groups", func() {
		It("should create a group and fetch it back", func() {
			g := &currency.Group{Name: "major", Description: "Liquid currencies"}

			err := repo.CreateGroup(g)
			Expect(err).NotTo(HaveOccurred())
			Expect(g.ID).To(BeNumerically(">", 0))

			result, err := repo.GetGroupByName("major")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).NotTo(BeNil())
			Expect(result.Description).To(Equal("Liquid currencies"))
		})

		It("should return nil for a missing group", func() {
			result, err := repo.GetGroupByID(999)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(BeNil())
		})

		It("should enforce the unique name constraint", func() {
			Expect(repo.CreateGroup(&currency.Group{Name: "major"})).To(Succeed())
			Expect(repo.CreateGroup(&currency.Group{Name: "major"})).To(HaveOccurred())
		})

		It("should list groups ordered by name", func() {
			Expect(repo.CreateGroup(&currency.Group{Name: "minor"})).To(Succeed())
			Expect(repo.CreateGroup(&currency.Group{Name: "exotic"})).To(Succeed())
			Expect(repo.CreateGroup(&currency.Group{Name: "major"})).To(Succeed())

			groups, err := repo.GetAllGroups()
			Expect(err).NotTo(HaveOccurred())
			Expect(groups).To(HaveLen(3))
			Expect(groups[0].Name).To(Equal("exotic"))
			Expect(groups[1].Name).To(Equal("major"))
			Expect(groups[2].Name).To(Equal("minor"))
		})
	})

	Describe("Currencies", func() {
		var group *currency.Group

		BeforeEach(func() {
			group = &currency.Group{Name: "major"}
			Expect(repo.CreateGroup(group)).To(Succeed())
		})

		It("should create and fetch by code", func() {
			c := &currency.Currency{Code: "USD", Name: "US Dollar", GroupID: group.ID}
			Expect(repo.CreateCurrency(c)).To(Succeed())

			result, err := repo.GetCurrencyByCode("USD")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).NotTo(BeNil())
			Expect(result.GroupID).To(Equal(group.ID))
		})

		It("should reject a duplicate code", func() {
			Expect(repo.CreateCurrency(&currency.Currency{Code: "USD", GroupID: group.ID})).To(Succeed())
			Expect(repo.CreateCurrency(&currency.Currency{Code: "USD", GroupID: group.ID})).To(HaveOccurred())
		})

		It("should list a group's members only", func() {
			other := &currency.Group{Name: "exotic"}
			Expect(repo.CreateGroup(other)).To(Succeed())

			Expect(repo.CreateCurrency(&currency.Currency{Code: "USD", GroupID: group.ID})).To(Succeed())
			Expect(repo.CreateCurrency(&currency.Currency{Code: "EUR", GroupID: group.ID})).To(Succeed())
			Expect(repo.CreateCurrency(&currency.Currency{Code: "TRY", GroupID: other.ID})).To(Succeed())

			members, err := repo.GetCurrenciesByGroup(group.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(members).To(HaveLen(2))
			Expect(members[0].Code).To(Equal("EUR"))
			Expect(members[1].Code).To(Equal("USD"))
		})

		It("should move a currency between groups on update", func() {
			other := &currency.Group{Name: "exotic"}
			Expect(repo.CreateGroup(other)).To(Succeed())

			c := &currency.Currency{Code: "TRY", GroupID: group.ID}
			Expect(repo.CreateCurrency(c)).To(Succeed())

			c.GroupID = other.ID
			Expect(repo.UpdateCurrency(c)).To(Succeed())

			result, err := repo.GetCurrencyByCode("TRY")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.GroupID).To(Equal(other.ID))
		})
	})

	Describe("Company rates", func() {
		var group *currency.Group

		BeforeEach(func() {
			group = &currency.Group{Name: "major"}
			Expect(repo.CreateGroup(group)).To(Succeed())
		})

		newRate := func(companyID int64) *currency.CompanyRate {
			aw := decimal.RequireFromString("0.80")
			mp := decimal.RequireFromString("0.05")
			return &currency.CompanyRate{
				CompanyID:      companyID,
				GroupID:        group.ID,
				AwRate:         aw,
				MpRate:         mp,
				ConversionRate: aw.Add(mp),
				IsActive:       true,
			}
		}

		It("should store and round-trip the decimal components", func() {
			rate := newRate(1)
			Expect(repo.CreateCompanyRate(rate)).To(Succeed())

			result, err := repo.GetCompanyRate(1, group.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).NotTo(BeNil())
			Expect(result.AwRate.Equal(decimal.RequireFromString("0.80"))).To(BeTrue())
			Expect(result.ConversionRate.Equal(decimal.RequireFromString("0.85"))).To(BeTrue())
		})

		It("should enforce one rate per company and group", func() {
			Expect(repo.CreateCompanyRate(newRate(1))).To(Succeed())
			Expect(repo.CreateCompanyRate(newRate(1))).To(HaveOccurred())
		})

		It("should allow the same group for different companies", func() {
			Expect(repo.CreateCompanyRate(newRate(1))).To(Succeed())
			Expect(repo.CreateCompanyRate(newRate(2))).To(Succeed())
		})

		It("should return nil for a missing pair", func() {
			result, err := repo.GetCompanyRate(1, group.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(BeNil())
		})

		It("should update the rate and bump updated_at", func() {
			rate := newRate(1)
			Expect(repo.CreateCompanyRate(rate)).To(Succeed())
			originalUpdatedAt := rate.UpdatedAt
			time.Sleep(10 * time.Millisecond)

			rate.IsActive = false
			Expect(repo.UpdateCompanyRate(rate)).To(Succeed())

			result, err := repo.GetCompanyRateByID(rate.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsActive).To(BeFalse())
			Expect(result.UpdatedAt).To(BeTemporally(">", originalUpdatedAt))
		})

		It("should delete a rate", func() {
			rate := newRate(1)
			Expect(repo.CreateCompanyRate(rate)).To(Succeed())
			Expect(repo.DeleteCompanyRate(rate.ID)).To(Succeed())

			result, err := repo.GetCompanyRateByID(rate.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(BeNil())
		})
	})

	Describe("Plan rates", func() {
		var group *currency.Group

		BeforeEach(func() {
			group = &currency.Group{Name: "major"}
			Expect(repo.CreateGroup(group)).To(Succeed())
		})

		It("should enforce one rate per plan and group", func() {
			aw := decimal.RequireFromString("0.70")
			mp := decimal.RequireFromString("0.10")
			rate := &currency.PlanRate{
				PlanID:         7,
				GroupID:        group.ID,
				AwRate:         aw,
				MpRate:         mp,
				ConversionRate: aw.Add(mp),
				IsActive:       true,
			}
			Expect(repo.CreatePlanRate(rate)).To(Succeed())

			dup := *rate
			dup.ID = 0
			Expect(repo.CreatePlanRate(&dup)).To(HaveOccurred())

			rates, err := repo.GetPlanRates(7)
			Expect(err).NotTo(HaveOccurred())
			Expect(rates).To(HaveLen(1))
		})
	})
})
