package currency_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/merchant-management/internal/company"
	"github.com/frahmantamala/merchant-management/internal/currency"
	"github.com/frahmantamala/merchant-management/internal/transport"
)

var _ = Describe("Currency Handler Integration", func() {
	var (
		mockRepo *MockRepository
		resolver *MockCompanyResolver
		handler  *currency.Handler
		router   *chi.Mux
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		resolver = NewMockCompanyResolver()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := currency.NewService(mockRepo, resolver, logger)
		handler = currency.NewHandler(service)

		router = chi.NewRouter()
		router.Post("/currency/groups", handler.CreateGroup)
		router.Get("/currency/groups", handler.GetAllGroups)
		router.Get("/currency/conversion-rate/{companyId}", handler.Convert)
		router.Get("/currency/conversion-rate/airwallex/{accountId}", handler.ConvertByAccount)
	})

	seedConversion := func() {
		major := &currency.Group{Name: "major"}
		Expect(mockRepo.CreateGroup(major)).To(Succeed())
		for _, c := range []*currency.Currency{
			{Code: "USD", GroupID: major.ID},
			{Code: "EUR", GroupID: major.ID},
		} {
			Expect(mockRepo.CreateCurrency(c)).To(Succeed())
		}
		Expect(mockRepo.CreateCompanyRate(&currency.CompanyRate{
			CompanyID:      42,
			GroupID:        major.ID,
			AwRate:         dec("0.80"),
			MpRate:         dec("0.05"),
			ConversionRate: dec("0.85"),
			IsActive:       true,
		})).To(Succeed())
	}

	It("should create a group and return 201", func() {
		req := httptest.NewRequest(http.MethodPost, "/currency/groups",
			strings.NewReader(`{"name": "major", "description": "Liquid currencies"}`))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var response transport.Envelope
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Success).To(BeTrue())
	})

	It("should return 409 for a duplicate group name", func() {
		Expect(mockRepo.CreateGroup(&currency.Group{Name: "major"})).To(Succeed())

		req := httptest.NewRequest(http.MethodPost, "/currency/groups",
			strings.NewReader(`{"name": "major"}`))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("should return 400 for a malformed body", func() {
		req := httptest.NewRequest(http.MethodPost, "/currency/groups", strings.NewReader(`{broken`))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should resolve a conversion for a company", func() {
		seedConversion()

		req := httptest.NewRequest(http.MethodGet, "/currency/conversion-rate/42?from=EUR&to=USD", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var response transport.Envelope
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		data, ok := response.Data.(map[string]interface{})
		Expect(ok).To(BeTrue())
		Expect(data["rate"]).To(Equal("0.85"))
		Expect(data["isCrossGroup"]).To(BeFalse())
	})

	It("should reject a non-numeric company id", func() {
		req := httptest.NewRequest(http.MethodGet, "/currency/conversion-rate/abc?from=EUR&to=USD", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should return 404 when no rate is configured", func() {
		seedConversion()

		req := httptest.NewRequest(http.MethodGet, "/currency/conversion-rate/7?from=EUR&to=USD", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should resolve through a provider account id in the path", func() {
		seedConversion()
		resolver.companies["acct_123"] = &company.Company{ID: 42, Name: "Acme"}

		req := httptest.NewRequest(http.MethodGet, "/currency/conversion-rate/airwallex/acct_123?from=EUR&to=USD", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("should return 404 for an unknown provider account", func() {
		seedConversion()

		req := httptest.NewRequest(http.MethodGet, "/currency/conversion-rate/airwallex/acct_missing?from=EUR&to=USD", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})
})
