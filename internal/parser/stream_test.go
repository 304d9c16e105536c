package parser_test

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/featureplan/internal/domain"
	"github.com/fjglira/featureplan/internal/parser"
)

var _ = Describe("GherkinStreamer", func() {
	var (
		s        *parser.GherkinStreamer
		appScan  string
		simple   string
		markdown string
	)

	BeforeEach(func() {
		s = parser.NewStreamer(parser.NewDefaultRegistry(), 2)
		appScan = filepath.Join("..", "..", "testdata", "features", "app_scan.feature")
		simple = filepath.Join("..", "..", "testdata", "features", "simple_math.feature")
		markdown = filepath.Join("..", "..", "testdata", "markdown", "checkout.feature.md")
	})

	It("should return an empty stream for no paths", func() {
		envs, err := s.Stream(context.Background(), nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(envs).To(BeEmpty())
	})

	It("should emit each document before its pickles in input order", func() {
		envs, err := s.Stream(context.Background(), []string{simple, appScan})
		Expect(err).ToNot(HaveOccurred())
		// simple_math: 1 scenario + 3 outline rows, app_scan: 1 scenario
		Expect(envs).To(HaveLen(1 + 4 + 1 + 1))

		Expect(envs[0].Document).ToNot(BeNil())
		Expect(envs[0].Document.Uri).To(Equal(simple))
		for _, env := range envs[1:5] {
			Expect(env.Pickle).ToNot(BeNil())
			Expect(env.Pickle.Uri).To(Equal(simple))
		}
		Expect(envs[5].Document).ToNot(BeNil())
		Expect(envs[5].Document.Uri).To(Equal(appScan))
		Expect(envs[6].Pickle.Uri).To(Equal(appScan))
		Expect(envs[6].Pickle.Tags[0].Name).To(Equal("@app_scan"))
	})

	It("should keep ids unique across files", func() {
		envs, err := s.Stream(context.Background(), []string{simple, appScan, markdown})
		Expect(err).ToNot(HaveOccurred())

		seen := map[string]bool{}
		for _, env := range envs {
			if env.Pickle == nil {
				continue
			}
			Expect(seen).ToNot(HaveKey(env.Pickle.Id))
			seen[env.Pickle.Id] = true
		}
	})

	It("should compile markdown features into pickles", func() {
		envs, err := s.Stream(context.Background(), []string{markdown})
		Expect(err).ToNot(HaveOccurred())
		Expect(envs).To(HaveLen(1 + 4))
		Expect(envs[1].Pickle.Name).To(Equal("pay with card"))
		Expect(envs[2].Pickle.Name).To(Equal("apply voucher DRAFT"))
	})

	It("should fail on invalid Gherkin without partial results", func() {
		broken := filepath.Join("..", "..", "testdata", "invalid", "broken.feature")
		envs, err := s.Stream(context.Background(), []string{appScan, broken})
		Expect(err).To(HaveOccurred())
		Expect(domain.IsParseError(err)).To(BeTrue())
		Expect(envs).To(BeNil())
	})

	It("should report unreadable files as parse errors", func() {
		_, err := s.Stream(context.Background(), []string{"missing.feature"})
		Expect(err).To(HaveOccurred())
		Expect(domain.IsParseError(err)).To(BeTrue())
		Expect(errors.Is(err, fs.ErrNotExist)).To(BeTrue())
	})

	It("should stop when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := s.Stream(ctx, []string{appScan})
		Expect(err).To(MatchError(context.Canceled))
	})
})
