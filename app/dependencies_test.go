package app_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/UMCU-Digital-Health/No-Show/app"
	"github.com/UMCU-Digital-Health/No-Show/config"
)

const postalCodes = "NL\t3584\tUtrecht\tUtrecht\tUT\tUtrecht\t0344\t\t\t52.0867\t5.1731\t6\n"

var _ = Describe("Dependencies", func() {
	var cfg *config.Config
	var logger *zap.SugaredLogger

	BeforeEach(func() {
		GinkgoT().Setenv("NOSHOW_CLINIC_CONFIG_PATH", "../config/clinics.yaml")
		GinkgoT().Setenv("NOSHOW_SCORE_BINS_PATH", "../config/score_bins.yaml")

		var err error
		cfg, err = app.NewConfig()
		Expect(err).ToNot(HaveOccurred())
		logger = zap.NewNop().Sugar()
	})

	It("loads the example clinic configuration", func() {
		clinicsConfig, err := app.NewClinics(cfg, logger)
		Expect(err).ToNot(HaveOccurred())
		Expect(clinicsConfig.Names()).To(Equal([]string{"cardiology", "pulmonology"}))
		Expect(clinicsConfig.RCTClinics().ToSlice()).To(ConsistOf("cardiology"))
	})

	It("loads score bins for every clinic", func() {
		clinicsConfig, err := app.NewClinics(cfg, logger)
		Expect(err).ToNot(HaveOccurred())

		bins, err := app.NewBinEdges(cfg)
		Expect(err).ToNot(HaveOccurred())
		Expect(bins.Validate()).To(Succeed())
		for _, name := range clinicsConfig.Names() {
			Expect(bins).To(HaveKey(name))
		}
	})

	It("builds a locator from the postal codes file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "NL.txt")
		Expect(os.WriteFile(path, []byte(postalCodes), 0o600)).To(Succeed())
		cfg.PostalCodesPath = path

		locator, err := app.NewLocator(cfg, logger)
		Expect(err).ToNot(HaveOccurred())

		distance, ok := locator.Distance(3584)
		Expect(ok).To(BeTrue())
		Expect(distance).To(BeNumerically("<", 5))

		_, ok = locator.Distance(9999)
		Expect(ok).To(BeFalse())
	})

	It("fails on a missing postal codes file", func() {
		cfg.PostalCodesPath = filepath.Join(GinkgoT().TempDir(), "missing.txt")
		_, err := app.NewLocator(cfg, logger)
		Expect(err).To(HaveOccurred())
	})
})
