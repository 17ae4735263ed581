package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"

	"github.com/tinyzimmer/dpu/pkg/log"
	"github.com/tinyzimmer/dpu/pkg/tarball"
	"github.com/tinyzimmer/dpu/pkg/types"
	"github.com/tinyzimmer/dpu/pkg/util"
)

var (
	xzCommand   string
	lzmaCommand string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&util.TempDir, "tmp-dir", util.TempDir, "Override the default tmp directory")
	rootCmd.PersistentFlags().BoolVarP(&log.Verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&xzCommand, "xz-command", strings.Join(tarball.Commands[types.CompressionXz], " "), "The command used to (de)compress xz tarballs")
	rootCmd.PersistentFlags().StringVar(&lzmaCommand, "lzma-command", strings.Join(tarball.Commands[types.CompressionLzma], " "), "The command used to (de)compress lzma tarballs")
}

var rootCmd = &cobra.Command{
	Use:   "dpu",
	Short: "dpu builds and inspects fixtures for Debian packaging tests",
	Long: `
The dpu command scaffolds fixture directories from templates and produces the
upstream (orig) tarballs non-native source packages need.
`,
	SilenceUsage:      true,
	DisableAutoGenTag: true,
	SilenceErrors:     true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return configureCompressors(map[types.Compression]string{
			types.CompressionXz:   xzCommand,
			types.CompressionLzma: lzmaCommand,
		})
	},
}

// GetRootCommand returns the root dpu command
func GetRootCommand() *cobra.Command { return rootCmd }

// Exit codes returned by the dpu binary.
const (
	ExitOK = iota
	ExitFailure
	ExitConfiguration
	ExitPipeline
)

// ExitCode maps an error returned by a command to the process exit status, so
// callers can tell a bad invocation or a failing compressor from other failures.
func ExitCode(err error) int {
	var (
		cfgErr  *types.ConfigurationError
		pipeErr *types.PipelineError
	)
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &cfgErr):
		return ExitConfiguration
	case errors.As(err, &pipeErr):
		return ExitPipeline
	}
	return ExitFailure
}

// configureCompressors parses the external compressor command lines given on the
// command line into the tarball command table.
func configureCompressors(lines map[types.Compression]string) error {
	for c, line := range lines {
		argv, err := shellwords.Parse(line)
		if err != nil {
			return fmt.Errorf("parsing --%s-command: %w", c, err)
		}
		if len(argv) == 0 {
			return &types.ConfigurationError{Setting: fmt.Sprintf("%s command", c), Value: line, Reason: "command is empty"}
		}
		log.Debugf("Using %q for %s tarballs\n", strings.Join(argv, " "), c)
		tarball.Commands[c] = argv
	}
	return nil
}
