package auth_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/merchant-management/internal/auth"
)

var _ = Describe("Memory Token Store", func() {
	var (
		store *auth.MemoryTokenStore
		ctx   context.Context
	)

	BeforeEach(func() {
		store = auth.NewMemoryTokenStore()
		ctx = context.Background()
	})

	It("should validate a saved token", func() {
		Expect(store.Save(ctx, "tok-1", 7, time.Hour)).To(Succeed())

		userID, err := store.Validate(ctx, "tok-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(userID).To(Equal(int64(7)))
	})

	It("should treat an unknown token as not tracked", func() {
		_, err := store.Validate(ctx, "never-saved")
		Expect(err).To(Equal(auth.ErrTokenNotTracked))
	})

	It("should treat an expired token as not tracked", func() {
		Expect(store.Save(ctx, "tok-1", 7, -time.Second)).To(Succeed())

		_, err := store.Validate(ctx, "tok-1")
		Expect(err).To(Equal(auth.ErrTokenNotTracked))
	})

	It("should no longer validate a revoked token", func() {
		Expect(store.Save(ctx, "tok-1", 7, time.Hour)).To(Succeed())
		Expect(store.Revoke(ctx, "tok-1")).To(Succeed())

		_, err := store.Validate(ctx, "tok-1")
		Expect(err).To(Equal(auth.ErrTokenNotTracked))
	})

	It("should revoke an unknown token without error", func() {
		Expect(store.Revoke(ctx, "never-saved")).To(Succeed())
	})
})
