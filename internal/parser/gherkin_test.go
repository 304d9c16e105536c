package parser_test

import (
	"errors"
	"os"
	"path/filepath"

	messages "github.com/cucumber/messages/go/v21"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/featureplan/internal/domain"
	"github.com/fjglira/featureplan/internal/parser"
)

var _ = Describe("GherkinParser", func() {
	var p *parser.GherkinParser

	BeforeEach(func() {
		p = parser.NewGherkinParser()
	})

	It("should support .feature", func() {
		Expect(p.SupportedExtensions()).To(Equal([]string{".feature"}))
	})

	It("should parse a feature and stamp its uri", func() {
		path := filepath.Join("..", "..", "testdata", "features", "simple_math.feature")
		content, err := os.ReadFile(path)
		Expect(err).ToNot(HaveOccurred())

		doc, err := p.Parse(path, content, (&messages.Incrementing{}).NewId)
		Expect(err).ToNot(HaveOccurred())
		Expect(doc.Uri).To(Equal(path))
		Expect(doc.Feature.Name).To(Equal("Simple maths"))
		Expect(doc.Feature.Tags).To(HaveLen(1))
		Expect(doc.Feature.Tags[0].Name).To(Equal("@simple_math"))
	})

	It("should return a parse error carrying the line", func() {
		path := filepath.Join("..", "..", "testdata", "invalid", "broken.feature")
		content, err := os.ReadFile(path)
		Expect(err).ToNot(HaveOccurred())

		_, err = p.Parse(path, content, (&messages.Incrementing{}).NewId)
		Expect(err).To(HaveOccurred())
		Expect(domain.IsParseError(err)).To(BeTrue())

		var pe *domain.PlanError
		Expect(errors.As(err, &pe)).To(BeTrue())
		Expect(pe.File).To(Equal(path))
		Expect(pe.LineNumber).To(Equal(1))
	})
})

var _ = Describe("DefaultRegistry", func() {
	It("should resolve parsers by extension", func() {
		r := parser.NewDefaultRegistry()

		p, err := r.ParserFor(parser.ExtensionOf("a/login.feature"))
		Expect(err).ToNot(HaveOccurred())
		Expect(p).To(BeAssignableToTypeOf(&parser.GherkinParser{}))

		p, err = r.ParserFor(parser.ExtensionOf("a/checkout.Feature.MD"))
		Expect(err).ToNot(HaveOccurred())
		Expect(p).To(BeAssignableToTypeOf(&parser.MarkdownParser{}))
	})

	It("should use the fallback for unknown extensions", func() {
		p, err := parser.NewDefaultRegistry().ParserFor(".txt")
		Expect(err).ToNot(HaveOccurred())
		Expect(p).To(BeAssignableToTypeOf(&parser.GherkinParser{}))
	})

	It("should fail without a fallback", func() {
		r := parser.NewRegistry()
		r.Register(parser.NewMarkdownParser())
		_, err := r.ParserFor(".feature")
		Expect(err).To(MatchError(ContainSubstring(`".feature"`)))
	})

	DescribeTable("ExtensionOf",
		func(path, want string) {
			Expect(parser.ExtensionOf(path)).To(Equal(want))
		},
		Entry("plain feature", "features/a.feature", ".feature"),
		Entry("markdown feature", "features/a.feature.md", ".feature.md"),
		Entry("plain markdown", "README.md", ".md"),
		Entry("no extension", "Makefile", ""),
	)
})
