package scanner_test

import (
	"errors"
	"io/fs"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/featureplan/internal/domain"
	"github.com/fjglira/featureplan/internal/scanner"
)

var _ = Describe("Scanner", func() {
	var (
		s         *scanner.FileScanner
		taggedDir string
		include   []string
	)

	BeforeEach(func() {
		s = scanner.NewScanner(true)
		taggedDir = filepath.Join("..", "..", "testdata", "tagged")
		include = []string{"*.feature", "*.feature.md"}
	})

	Describe("Scan", func() {
		It("should find feature files recursively in sorted order", func() {
			files, err := s.Scan(taggedDir, include, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(files).To(Equal([]string{
				filepath.Join(taggedDir, "checkout.feature"),
				filepath.Join(taggedDir, "login.feature"),
				filepath.Join(taggedDir, "nested", "reports.feature"),
				filepath.Join(taggedDir, "untagged.feature"),
			}))
		})

		It("should respect exclude patterns", func() {
			files, err := s.Scan(taggedDir, include, []string{"untagged.feature", "nested/**"})
			Expect(err).ToNot(HaveOccurred())
			Expect(files).To(HaveLen(2))
			Expect(filepath.Base(files[0])).To(Equal("checkout.feature"))
			Expect(filepath.Base(files[1])).To(Equal("login.feature"))
		})

		It("should handle non-recursive mode", func() {
			s = scanner.NewScanner(false)
			files, err := s.Scan(taggedDir, include, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(files).To(HaveLen(3))
			Expect(files).ToNot(ContainElement(filepath.Join(taggedDir, "nested", "reports.feature")))
		})

		It("should return error for nonexistent directory", func() {
			_, err := s.Scan("nonexistent_dir", include, nil)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Expand", func() {
		It("should keep the order of feature paths and dedup files", func() {
			login := filepath.Join(taggedDir, "login.feature")
			set, err := s.Expand([]string{login, taggedDir}, include, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(set.Paths).To(Equal([]string{
				login,
				filepath.Join(taggedDir, "checkout.feature"),
				filepath.Join(taggedDir, "nested", "reports.feature"),
				filepath.Join(taggedDir, "untagged.feature"),
			}))
			Expect(set.Lines).To(BeEmpty())
		})

		It("should parse line suffixes into line filters", func() {
			checkout := filepath.Join(taggedDir, "checkout.feature")
			set, err := s.Expand([]string{checkout + ":5:24", checkout + ":11"}, include, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(set.Paths).To(Equal([]string{checkout}))
			Expect(set.Lines[checkout]).To(Equal([]int{5, 24, 11}))
			Expect(set.HasLineFilter(checkout)).To(BeTrue())
		})

		It("should drop the line filter when the file is also requested unrestricted", func() {
			checkout := filepath.Join(taggedDir, "checkout.feature")
			set, err := s.Expand([]string{checkout + ":5", taggedDir}, include, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(set.HasLineFilter(checkout)).To(BeFalse())
		})

		It("should accept explicit files regardless of include globs", func() {
			path := filepath.Join("..", "..", "testdata", "configs", "minimal.yaml")
			set, err := s.Expand([]string{path}, include, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(set.Paths).To(Equal([]string{path}))
		})

		It("should treat differently spelled paths to one file as the same file", func() {
			login := filepath.Join(taggedDir, "login.feature")
			dotted := "." + string(filepath.Separator) + login
			set, err := s.Expand([]string{dotted + ":5", taggedDir}, include, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(set.Paths).To(HaveLen(4))
			Expect(set.Paths[0]).To(Equal(login))
			Expect(set.HasLineFilter(login)).To(BeFalse())
		})

		It("should reject line suffixes on directories", func() {
			_, err := s.Expand([]string{taggedDir + ":12"}, include, nil)
			Expect(err).To(HaveOccurred())
			var pe *domain.PlanError
			Expect(errors.As(err, &pe)).To(BeTrue())
			Expect(pe.Phase).To(Equal(domain.PhaseScan))
			Expect(pe.Message).To(ContainSubstring("directories"))
		})

		It("should fail with a scan error for a missing path", func() {
			_, err := s.Expand([]string{"does/not/exist.feature:3"}, include, nil)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, fs.ErrNotExist)).To(BeTrue())
			var pe *domain.PlanError
			Expect(errors.As(err, &pe)).To(BeTrue())
			Expect(pe.Phase).To(Equal(domain.PhaseScan))
			Expect(pe.File).To(Equal("does/not/exist.feature"))
		})
	})
})
