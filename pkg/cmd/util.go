package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/tinyzimmer/dpu/pkg/types"
)

func completeStringOpts(opts []string) func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return opts, cobra.ShellCompDirectiveNoFileComp
	}
}

// compressionFromPath guesses the compression of a tarball from its file name.
func compressionFromPath(path string) (types.Compression, error) {
	for _, c := range types.Compressions() {
		if strings.HasSuffix(path, ".tar."+c.Extension()) {
			return c, nil
		}
	}
	return "", &types.ConfigurationError{Setting: "compression", Value: path, Reason: "unable to guess from the file name, use --compression"}
}
