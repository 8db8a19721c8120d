package logger_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/UMCU-Digital-Health/No-Show/logger"
)

var _ = Describe("NewProductionLogger", func() {
	It("defaults to info", func() {
		GinkgoT().Setenv("LOG_LEVEL", "")
		l, err := logger.NewProductionLogger()
		Expect(err).ToNot(HaveOccurred())
		Expect(l.Core().Enabled(zap.InfoLevel)).To(BeTrue())
		Expect(l.Core().Enabled(zap.DebugLevel)).To(BeFalse())
	})

	It("uses the configured level", func() {
		GinkgoT().Setenv("LOG_LEVEL", "debug")
		l, err := logger.NewProductionLogger()
		Expect(err).ToNot(HaveOccurred())
		Expect(logger.Suggar(l).Desugar().Core().Enabled(zap.DebugLevel)).To(BeTrue())
	})

	It("rejects unknown levels", func() {
		GinkgoT().Setenv("LOG_LEVEL", "verbose")
		_, err := logger.NewProductionLogger()
		Expect(err).To(HaveOccurred())
	})
})
