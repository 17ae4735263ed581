package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/tinyzimmer/dpu/pkg/tarball"
	"github.com/tinyzimmer/dpu/pkg/types"
	"github.com/tinyzimmer/dpu/pkg/util"
)

var (
	createRunDir      string
	createName        string
	createVersion     string
	createCompression string
	createOutput      string

	listCompression string
)

func init() {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	tarballCreateCmd.Flags().StringVarP(&createRunDir, "rundir", "d", cwd, "The directory containing the <name>-<version> upstream sources")
	tarballCreateCmd.Flags().StringVarP(&createName, "name", "n", "", "The upstream name of the package")
	tarballCreateCmd.Flags().StringVarP(&createVersion, "version", "V", "", "The upstream version of the package")
	tarballCreateCmd.Flags().StringVarP(&createCompression, "compression", "c", string(types.DefaultCompression), "The compression to use for the tarball")
	tarballCreateCmd.Flags().StringVarP(&createOutput, "output", "o", "", "The directory to write the tarball to, defaults to the rundir")
	tarballCreateCmd.MarkFlagRequired("name")
	tarballCreateCmd.MarkFlagRequired("version")
	tarballCreateCmd.RegisterFlagCompletionFunc("compression", completeStringOpts(types.CompressionNames()))

	tarballListCmd.Flags().StringVarP(&listCompression, "compression", "c", "", "The compression of the tarball, guessed from the file name when omitted")
	tarballListCmd.RegisterFlagCompletionFunc("compression", completeStringOpts(types.CompressionNames()))

	tarballCmd.AddCommand(tarballCreateCmd)
	tarballCmd.AddCommand(tarballListCmd)
	rootCmd.AddCommand(tarballCmd)
}

var tarballCmd = &cobra.Command{
	Use:   "tarball",
	Short: "Create and inspect upstream tarballs",
}

var tarballCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create <name>_<version>.orig.tar.<ext> from <rundir>/<name>-<version>",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		compression, err := types.ParseCompression(createCompression)
		if err != nil {
			return err
		}
		out, err := tarball.CreateOrigTarball(types.ArchiveSpec{
			SourceDir:   createRunDir,
			Name:        createName,
			Version:     createVersion,
			Compression: compression,
			OutputDir:   createOutput,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

var tarballListCmd = &cobra.Command{
	Use:   "list TARBALL",
	Short: "List the entries of a tarball in the order they are stored",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			compression types.Compression
			err         error
		)
		if listCompression != "" {
			compression, err = types.ParseCompression(listCompression)
		} else {
			compression, err = compressionFromPath(args[0])
		}
		if err != nil {
			return err
		}
		return listTarball(cmd.OutOrStdout(), args[0], compression)
	},
}

func listTarball(w io.Writer, path string, compression types.Compression) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Type", "Size", "SHA256", "Name"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	err := tarball.WithCompressedTarball(path, compression, func(archive *tarball.Archive) error {
		return archive.Walk(func(entry *types.ArchiveEntry) error {
			sum := "-"
			if entry.Type == types.EntryFile {
				var err error
				if sum, err = util.CalculateSHA256Sum(entry.Body); err != nil {
					return err
				}
			}
			name := entry.Name
			if entry.Linkname != "" {
				name += " -> " + entry.Linkname
			}
			table.Append([]string{string(entry.Type), humanize.Bytes(uint64(entry.Size)), sum, name})
			return nil
		})
	})
	if err != nil {
		return err
	}
	table.Render()
	return nil
}
