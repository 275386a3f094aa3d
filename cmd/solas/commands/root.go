package commands

import (
	"github.com/solasnetworks/solas/src/config"
	"github.com/spf13/cobra"
)

var (
	_config = config.NewDefaultConfig()
)

// RootCmd is the root command for solas
var RootCmd = &cobra.Command{
	Use:              "solas",
	Short:            "solas full node",
	TraverseChildren: true,
}
