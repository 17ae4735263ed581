package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tinyzimmer/dpu/pkg/log"
	"github.com/tinyzimmer/dpu/pkg/templates"
	"github.com/tinyzimmer/dpu/pkg/util"
)

var renderManifest string

func init() {
	renderCmd.Flags().StringVarP(&renderManifest, "manifest", "m", "", "A yaml or json file listing the templates to render")
	renderCmd.MarkFlagRequired("manifest")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render [DEST]",
	Short: "Render a template manifest into a fixture directory",
	Long: `Render the templates listed in a manifest, in order, into DEST. When DEST is
omitted a new directory is created under --tmp-dir. The directory rendered to is
printed on success.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := templates.ManagerFromFile(renderManifest)
		if err != nil {
			return err
		}
		var dest string
		if len(args) == 1 {
			dest = args[0]
		} else if dest, err = util.GetTempDir(); err != nil {
			return err
		}
		log.Infof("Rendering %d templates from %q into %q\n", len(manager.Templates()), renderManifest, dest)
		if err := manager.Render(dest); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), dest)
		return nil
	},
}
