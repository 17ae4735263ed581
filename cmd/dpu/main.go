package main

import (
	"os"

	"github.com/tinyzimmer/dpu/pkg/cmd"
	"github.com/tinyzimmer/dpu/pkg/log"
)

func main() {
	err := cmd.GetRootCommand().Execute()
	if err != nil {
		log.Error(err)
	}
	os.Exit(cmd.ExitCode(err))
}
