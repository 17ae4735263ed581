package templates

import (
	"errors"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/spf13/afero"

	"github.com/tinyzimmer/dpu/pkg/tarball"
	"github.com/tinyzimmer/dpu/pkg/types"
)

var _ = Describe("Debian shim", func() {
	var fs afero.Fs

	BeforeEach(func() { fs = afero.NewMemMapFs() })

	render := func() error {
		shim := Debian()
		shim.SetFs(fs)
		return shim.Render("/src")
	}

	Context("When there is no debian directory", func() {
		It("Should not fail", func() {
			Expect(fs.MkdirAll("/src", 0755)).To(Succeed())
			Expect(render()).To(Succeed())
		})
	})

	Context("When there is a debian directory", func() {
		BeforeEach(func() {
			Expect(afero.WriteFile(fs, "/src/debian/control", []byte("Source: pkg\n"), 0644)).To(Succeed())
			Expect(afero.WriteFile(fs, "/src/foo", nil, 0644)).To(Succeed())
		})

		It("Should remove it and only it, and be safe to run again", func() {
			Expect(render()).To(Succeed())
			exists, err := afero.Exists(fs, "/src/debian")
			Expect(err).ToNot(HaveOccurred())
			Expect(exists).To(BeFalse())
			exists, err = afero.Exists(fs, "/src/foo")
			Expect(err).ToNot(HaveOccurred())
			Expect(exists).To(BeTrue())
			Expect(render()).To(Succeed())
		})
	})

	Context("On the OS filesystem", func() {
		It("Should remove the debian directory", func() {
			tmp, err := ioutil.TempDir("", "dpu-debian")
			Expect(err).ToNot(HaveOccurred())
			defer os.RemoveAll(tmp)
			Expect(os.MkdirAll(filepath.Join(tmp, "debian", "source"), 0755)).To(Succeed())
			Expect(Debian().Render(tmp)).To(Succeed())
			Expect(filepath.Join(tmp, "debian")).ToNot(BeAnExistingFile())
			Expect(tmp).To(BeADirectory())
		})
	})
})

var _ = Describe("Upstream shim", func() {
	const (
		pkgname = "testpkg-name"
		version = "1.0"
	)
	var tmp string

	BeforeEach(func() {
		var err error
		tmp, err = ioutil.TempDir("", "dpu-upstream")
		Expect(err).ToNot(HaveOccurred())
		Expect(os.MkdirAll(filepath.Join(tmp, pkgname+"-"+version), 0755)).To(Succeed())
		Expect(ioutil.WriteFile(filepath.Join(tmp, pkgname+"-"+version, "README"), []byte("upstream\n"), 0644)).To(Succeed())
	})

	AfterEach(func() { os.RemoveAll(tmp) })

	It("Should default to gzip", func() {
		Expect(Upstream(pkgname, version).Compression()).To(Equal(types.CompressionGzip))
	})

	It("Should reject unknown compressions", func() {
		err := Upstream(pkgname, version).SetCompression("rar")
		var cfgErr *types.ConfigurationError
		Expect(errors.As(err, &cfgErr)).To(BeTrue())
	})

	Context("When rendered into the run directory", func() {
		It("Should create the orig tarball next to the sources", func() {
			shim := Upstream(pkgname, version)
			Expect(shim.SetCompression("gzip")).To(Succeed())
			Expect(shim.Render(tmp)).To(Succeed())
			Expect(filepath.Join(tmp, pkgname+"_"+version+".orig.tar.gz")).To(BeARegularFile())
		})
	})

	Context("When rendered into the unpack directory", func() {
		It("Should use its parent as the run directory", func() {
			shim := Upstream(pkgname, version)
			Expect(shim.SetCompression("bzip2")).To(Succeed())
			Expect(shim.Render(filepath.Join(tmp, pkgname+"-"+version))).To(Succeed())
			out := filepath.Join(tmp, pkgname+"_"+version+".orig.tar.bz2")
			Expect(out).To(BeARegularFile())

			names := make([]string, 0)
			Expect(tarball.WithCompressedTarball(out, types.CompressionBzip2, func(a *tarball.Archive) error {
				return a.Walk(func(e *types.ArchiveEntry) error {
					names = append(names, e.Name)
					return nil
				})
			})).To(Succeed())
			Expect(names).To(Equal([]string{pkgname + "-" + version + "/", pkgname + "-" + version + "/README"}))
		})
	})

	Context("With xz compression", func() {
		It("Should run the external compressor", func() {
			if _, err := exec.LookPath("xz"); err != nil {
				Skip("xz is not installed")
			}
			shim := Upstream(pkgname, version)
			Expect(shim.SetCompression("xz")).To(Succeed())
			Expect(shim.Render(tmp)).To(Succeed())
			Expect(filepath.Join(tmp, pkgname+"_"+version+".orig.tar.xz")).To(BeARegularFile())
		})
	})

	Context("When the sources are missing", func() {
		It("Should fail with a configuration error", func() {
			err := Upstream(pkgname, "9.9").Render(tmp)
			var cfgErr *types.ConfigurationError
			Expect(errors.As(err, &cfgErr)).To(BeTrue())
		})
	})
})
