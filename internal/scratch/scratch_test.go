package scratch_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sora-grayscale/pdf-trusted-converter/internal/scratch"
)

var _ = Describe("Dir", func() {
	It("should create a usable directory", func() {
		dir, err := scratch.New("scratch-test-*")
		Expect(err).NotTo(HaveOccurred())
		defer dir.Release()

		info, err := os.Stat(dir.Path())
		Expect(err).NotTo(HaveOccurred())
		Expect(info.IsDir()).To(BeTrue())
		Expect(filepath.Base(dir.Path())).To(HavePrefix("scratch-test-"))
	})

	It("should join paths inside itself", func() {
		dir, err := scratch.New("scratch-test-*")
		Expect(err).NotTo(HaveOccurred())
		defer dir.Release()

		Expect(dir.Join("page-0001.png")).To(Equal(filepath.Join(dir.Path(), "page-0001.png")))
	})

	It("should remove the directory and its contents on release", func() {
		dir, err := scratch.New("scratch-test-*")
		Expect(err).NotTo(HaveOccurred())

		Expect(os.WriteFile(dir.Join("page-0001.png"), []byte("image"), 0644)).To(Succeed())
		Expect(dir.Release()).To(Succeed())

		_, err = os.Stat(dir.Path())
		Expect(os.IsNotExist(err)).To(BeTrue())
	})

	It("should tolerate repeated release", func() {
		dir, err := scratch.New("scratch-test-*")
		Expect(err).NotTo(HaveOccurred())

		Expect(dir.Release()).To(Succeed())
		Expect(dir.Release()).To(Succeed())
	})
})
