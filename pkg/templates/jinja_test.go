package templates

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/spf13/afero"

	"github.com/tinyzimmer/dpu/pkg/types"
)

var _ = Describe("Jinja templates", func() {
	var tmp string

	BeforeEach(func() {
		var err error
		tmp, err = ioutil.TempDir("", "dpu-jinja")
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() { os.RemoveAll(tmp) })

	Context("Without a context", func() {
		It("Should refuse to render", func() {
			err := Jinja(fixture("jinja1")).Render(tmp)
			var cfgErr *types.ConfigurationError
			Expect(errors.As(err, &cfgErr)).To(BeTrue())
			Expect(cfgErr.Setting).To(Equal("context"))
		})
	})

	Context("With a context", func() {
		context := map[string]string{
			"foo":   "foo1",
			"kruft": "kruft1",
			"plop":  "plop1",
			"no":    "no",
			"go":    "go",
		}

		It("Should substitute every variable", func() {
			tmpl := Jinja(fixture("jinja1"))
			tmpl.SetContext(context)
			Expect(tmpl.Render(tmp)).To(Succeed())
			for _, key := range []string{"foo", "kruft", "plop"} {
				expectContent(tmp, key, context[key])
			}
		})

		It("Should handle several templates, nested files and literals", func() {
			jt1, jt2 := Jinja(fixture("jinja1")), Jinja(fixture("jinja2"))
			jt1.SetContext(context)
			jt2.SetContext(context)
			Expect(jt1.Render(tmp)).To(Succeed())
			Expect(jt2.Render(tmp)).To(Succeed())

			for rel, content := range map[string]string{
				"literal": "{{literal}}",
				"really/nested/directory/with/a/file/foo": context["foo"],
				"kruft": context["kruft"],
				"foo":   context["foo"],
				"nogo":  fmt.Sprintf("%s %s", context["no"], context["go"]),
				"plop":  context["plop"],
			} {
				expectContent(tmp, rel, content)
			}
		})

		It("Should not be affected by later changes to the caller's map", func() {
			ctx := map[string]string{"foo": "a", "kruft": "b", "plop": "c"}
			tmpl := Jinja(fixture("jinja1"))
			tmpl.SetContext(ctx)
			ctx["foo"] = "changed"
			Expect(tmpl.Render(tmp)).To(Succeed())
			expectContent(tmp, "foo", "a")
		})
	})

	Context("With sprig functions and undefined variables", func() {
		It("Should fail on the undefined variable", func() {
			tmpl := Jinja(fixture("broken"))
			tmpl.SetContext(map[string]string{"foo": "pkg"})
			err := tmpl.Render(tmp)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("undefined_variable"))
		})
	})

	Context("With keys that are not identifiers", func() {
		It("Should still expose them through index", func() {
			fs := afero.NewMemMapFs()
			Expect(afero.WriteFile(fs, "/tpl/control", []byte(`Source: {{ index . "source-name" | upper }}`), 0644)).To(Succeed())
			tmpl := Jinja("/tpl")
			tmpl.SetFs(fs)
			tmpl.SetContext(map[string]string{"source-name": "hello"})
			Expect(tmpl.Render("/out")).To(Succeed())
			body, err := afero.ReadFile(fs, "/out/control")
			Expect(err).ToNot(HaveOccurred())
			Expect(string(body)).To(Equal("Source: HELLO"))
		})
	})

	Context("With keys named like sprig functions", func() {
		It("Should keep the function and expose the key as a field", func() {
			fs := afero.NewMemMapFs()
			Expect(afero.WriteFile(fs, "/tpl/control", []byte(`Source: {{ foo | upper }} {{ .upper }}`), 0644)).To(Succeed())
			tmpl := Jinja("/tpl")
			tmpl.SetFs(fs)
			tmpl.SetContext(map[string]string{"foo": "pkg", "upper": "shadowed"})
			Expect(tmpl.Render("/out")).To(Succeed())
			body, err := afero.ReadFile(fs, "/out/control")
			Expect(err).ToNot(HaveOccurred())
			Expect(string(body)).To(Equal("Source: PKG shadowed"))
		})
	})
})
