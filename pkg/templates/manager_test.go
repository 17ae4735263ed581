package templates

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/spf13/afero"

	"github.com/tinyzimmer/dpu/pkg/types"
)

var _ = Describe("Template manager", func() {

	Describe("Looking up template kinds", func() {
		It("Should resolve every registered kind and nothing else", func() {
			for kind, expected := range map[string]bool{
				"PlainTemplate": true,
				"JinjaTemplate": true,
				"DebianShim":    true,
				"UpstreamShim":  true,
				"FakeName":      false,
			} {
				_, ok := Lookup(kind)
				Expect(ok).To(Equal(expected), kind)
			}
			Expect(Kinds()).To(Equal([]string{"DebianShim", "JinjaTemplate", "PlainTemplate", "UpstreamShim"}))
		})

		It("Should build the matching implementation", func() {
			factory, _ := Lookup("PlainTemplate")
			tmpl, err := factory(&types.TemplateOptions{Path: fixture("plain1")})
			Expect(err).ToNot(HaveOccurred())
			Expect(tmpl).To(BeAssignableToTypeOf(&PlainTemplate{}))

			factory, _ = Lookup("UpstreamShim")
			tmpl, err = factory(&types.TemplateOptions{Name: "pkg", Version: "1.0", Compression: "lzma"})
			Expect(err).ToNot(HaveOccurred())
			Expect(tmpl.(*UpstreamShim).Compression()).To(Equal(types.CompressionLzma))
		})
	})

	Describe("Adding templates", func() {
		var manager *Manager

		BeforeEach(func() { manager = NewManager() })

		It("Should reject unknown kinds", func() {
			err := manager.AddTemplate("foo", nil)
			var cfgErr *types.ConfigurationError
			Expect(errors.As(err, &cfgErr)).To(BeTrue())
			Expect(cfgErr.Value).To(Equal("foo"))
			Expect(manager.Templates()).To(BeEmpty())
		})

		It("Should reject nil templates", func() {
			err := manager.AddRealTemplate(nil)
			var cfgErr *types.ConfigurationError
			Expect(errors.As(err, &cfgErr)).To(BeTrue())
		})

		It("Should reject templates without a directory", func() {
			Expect(manager.AddTemplate("JinjaTemplate", &types.TemplateOptions{})).ToNot(Succeed())
			Expect(manager.AddTemplate("UpstreamShim", &types.TemplateOptions{Name: "pkg"})).ToNot(Succeed())
		})
	})

	Describe("Rendering", func() {
		var tmp string

		BeforeEach(func() {
			var err error
			tmp, err = ioutil.TempDir("", "dpu-manager")
			Expect(err).ToNot(HaveOccurred())
		})

		AfterEach(func() { os.RemoveAll(tmp) })

		It("Should render templates in order", func() {
			context := map[string]string{"foo": "foo", "kruft": "k", "plop": "p", "no": "n", "go": "g"}
			manager := NewManager()
			for _, tpl := range [][2]string{
				{"plain1", "PlainTemplate"},
				{"jinja1", "JinjaTemplate"},
				{"jinja2", "JinjaTemplate"},
			} {
				opts := &types.TemplateOptions{Path: fixture(tpl[0])}
				if tpl[1] == "JinjaTemplate" {
					opts.Context = context
				}
				Expect(manager.AddTemplate(tpl[1], opts)).To(Succeed())
			}
			Expect(manager.Templates()).To(HaveLen(3))
			Expect(manager.Render(tmp)).To(Succeed())
			expectContent(tmp, "bar", "bar")
			expectContent(tmp, "kruft", "k")
			expectContent(tmp, "nogo", "n g")
			expectContent(tmp, "really/nested/directory/with/a/file/foo", "foo")
		})

		It("Should stop at the first failing template", func() {
			manager := NewManager()
			Expect(manager.AddTemplate("JinjaTemplate", &types.TemplateOptions{Path: fixture("jinja1")})).To(Succeed())
			Expect(manager.AddTemplate("PlainTemplate", &types.TemplateOptions{Path: fixture("plain1")})).To(Succeed())
			err := manager.Render(tmp)
			var cfgErr *types.ConfigurationError
			Expect(errors.As(err, &cfgErr)).To(BeTrue())
			Expect(filepath.Join(tmp, "foo")).ToNot(BeAnExistingFile())
		})

		It("Should hand its filesystem to templates added before and after", func() {
			fs := afero.NewMemMapFs()
			Expect(afero.WriteFile(fs, "/a/one", []byte("1"), 0644)).To(Succeed())
			Expect(afero.WriteFile(fs, "/b/two", []byte("2"), 0644)).To(Succeed())
			Expect(afero.WriteFile(fs, "/out/debian/control", []byte("x"), 0644)).To(Succeed())

			manager := NewManager()
			Expect(manager.AddRealTemplate(Plain("/a"))).To(Succeed())
			manager.SetFs(fs)
			Expect(manager.AddRealTemplate(Plain("/b"))).To(Succeed())
			Expect(manager.AddRealTemplate(Debian())).To(Succeed())
			Expect(manager.Render("/out")).To(Succeed())

			for path, expected := range map[string]bool{"/out/one": true, "/out/two": true, "/out/debian": false} {
				exists, err := afero.Exists(fs, path)
				Expect(err).ToNot(HaveOccurred())
				Expect(exists).To(Equal(expected), path)
			}
		})
	})

	Describe("Loading manifests", func() {
		var tmp string

		BeforeEach(func() {
			var err error
			tmp, err = ioutil.TempDir("", "dpu-manifest")
			Expect(err).ToNot(HaveOccurred())
		})

		AfterEach(func() { os.RemoveAll(tmp) })

		It("Should load a yaml manifest with paths relative to the file", func() {
			manifest, err := ManifestFromFile(filepath.Join("testdata", "manifest.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(manifest.Templates).To(HaveLen(4))
			Expect(manifest.Templates[0].Path).To(Equal(fixture("plain1")))
			Expect(manifest.Templates[2].Context).To(HaveKeyWithValue("no", "nein"))
			Expect(manifest.Templates[3].Kind).To(Equal("DebianShim"))

			manager, err := ManagerFromFile(filepath.Join("testdata", "manifest.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(os.MkdirAll(filepath.Join(tmp, "debian"), 0755)).To(Succeed())
			Expect(manager.Render(tmp)).To(Succeed())
			expectContent(tmp, "bar", "not bar")
			expectContent(tmp, "nogo", "nein gehen")
			expectContent(tmp, "kruft/flip", "flip")
			Expect(filepath.Join(tmp, "debian")).ToNot(BeAnExistingFile())
		})

		It("Should load a json manifest", func() {
			manager, err := ManagerFromFile(filepath.Join("testdata", "manifest.json"))
			Expect(err).ToNot(HaveOccurred())
			Expect(manager.Templates()).To(HaveLen(2))
			shim, ok := manager.Templates()[1].(*UpstreamShim)
			Expect(ok).To(BeTrue())
			Expect(shim.Compression()).To(Equal(types.CompressionBzip2))
		})

		It("Should report unknown kinds with their position", func() {
			_, err := ManagerFromFile(filepath.Join("testdata", "unknown.yaml"))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("template 1"))
			var cfgErr *types.ConfigurationError
			Expect(errors.As(err, &cfgErr)).To(BeTrue())
		})

		It("Should refuse other file types", func() {
			_, err := ManifestFromFile(filepath.Join("testdata", "templates", "plain1", "foo"))
			Expect(err).To(HaveOccurred())
		})
	})
})
