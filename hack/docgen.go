package main

import (
	"flag"
	"io/ioutil"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra/doc"

	"github.com/tinyzimmer/dpu/pkg/cmd"
	"github.com/tinyzimmer/dpu/pkg/log"
	"github.com/tinyzimmer/dpu/pkg/util"
)

// Generates the markdown reference for every dpu command into -out, replacing
// machine specific defaults (cwd, tmp dir, user) with placeholders.
func main() {
	out := flag.String("out", "doc", "The directory to write the markdown files to")
	flag.Parse()
	if err := genMarkdownDocs(*out); err != nil {
		log.Fatal(err)
	}
}

func genMarkdownDocs(out string) error {
	replacer, err := placeholders()
	if err != nil {
		return err
	}

	tmpDir, err := util.GetTempDir()
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	if err := doc.GenMarkdownTree(cmd.GetRootCommand(), tmpDir); err != nil {
		return err
	}
	if err := os.MkdirAll(out, 0755); err != nil {
		return err
	}

	files, err := ioutil.ReadDir(tmpDir)
	if err != nil {
		return err
	}
	for _, f := range files {
		data, err := ioutil.ReadFile(filepath.Join(tmpDir, f.Name()))
		if err != nil {
			return err
		}
		log.Debugf("Writing %s\n", f.Name())
		if err := ioutil.WriteFile(filepath.Join(out, f.Name()), []byte(replacer.Replace(string(data))), 0644); err != nil {
			return err
		}
	}
	log.Infof("Wrote %d command references to %q\n", len(files), out)
	return nil
}

// placeholders strips the values flag defaults pick up from the machine the docs
// are generated on. Longer paths go first so the cwd wins over the home directory.
func placeholders() (*strings.Replacer, error) {
	u, err := user.Current()
	if err != nil {
		return nil, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	pairs := make([]string, 0)
	for _, p := range [][2]string{
		{cwd, "<cwd>"},
		{os.TempDir(), "<tmp>"},
		{u.HomeDir, "<home>"},
		{u.Username, "<user>"},
	} {
		if p[0] != "" {
			pairs = append(pairs, p[0], p[1])
		}
	}
	return strings.NewReplacer(pairs...), nil
}
