package commands

import (
	"github.com/sirupsen/logrus"
	"github.com/solasnetworks/solas/src/diffusion"
	"github.com/solasnetworks/solas/src/node"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRunCmd returns the command that starts a solas node
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Run node",
		PreRunE: loadConfig,
		RunE:    runSolas,
	}
	AddRunFlags(cmd)
	return cmd
}

/*******************************************************************************
* RUN
*******************************************************************************/

func runSolas(cmd *cobra.Command, args []string) error {
	// The real diffusion/consensus engine is attached by embedding solas in a
	// larger process; the CLI runs the standalone stand-in.
	runner := diffusion.NewStandaloneRunner(_config.Logger())

	n := node.NewNode(_config, runner)

	if err := n.Init(); err != nil {
		_config.Logger().Error("Cannot initialize node:", err)
		return err
	}

	return n.Run()
}

/*******************************************************************************
* CONFIG
*******************************************************************************/

// AddRunFlags adds flags to the Run command
func AddRunFlags(cmd *cobra.Command) {

	cmd.Flags().String("datadir", _config.DataDir, "Top-level directory for configuration and data")
	cmd.Flags().String("log", _config.LogLevel, "debug, info, warn, error, fatal, panic")
	cmd.Flags().String("log-dir", _config.LogDir, "Directory for per-level log files")
	cmd.Flags().String("moniker", _config.Moniker, "Optional name")

	// Protocol
	cmd.Flags().String("protocol", _config.Protocol, "Consensus protocol family: boreal, cascade, composite")
	cmd.Flags().String("boreal-genesis", _config.BorealGenesisFile, "Genesis file of the boreal era")
	cmd.Flags().String("cascade-genesis", _config.CascadeGenesisFile, "Genesis file of the cascade era")
	cmd.Flags().Bool("experimental-versions", _config.ExperimentalVersions, "Advertise unreleased protocol versions")

	// Topology
	cmd.Flags().Bool("p2p", _config.EnableP2P, "Peer-to-peer topology mode (SIGHUP reloads the topology file)")
	cmd.Flags().String("topology", _config.TopologyFile, "Topology file")

	// Forging
	cmd.Flags().Bool("block-producer", _config.BlockProducer, "Forge blocks")
	cmd.Flags().String("vrf-key", _config.VRFKeyFile, "VRF signing key file (block producers only)")

	// Network
	cmd.Flags().StringP("listen", "l", _config.BindAddrIPv4, "Public IPv4 IP:Port for the diffusion layer")
	cmd.Flags().String("listen-v6", _config.BindAddrIPv6, "Public IPv6 IP:Port for the diffusion layer")
	cmd.Flags().String("local-socket", _config.LocalSocket, "Unix socket path for intra-host clients")
	cmd.Flags().Bool("initiator-only", _config.InitiatorOnly, "Outbound connections only")

	// Chain database
	cmd.Flags().String("db", _config.DatabaseDir, "Chain database directory")
	cmd.Flags().Bool("validate-db", _config.ValidateDB, "Revalidate the chain database on startup")
	cmd.Flags().Uint64("snapshot-interval", _config.SnapshotInterval, "Slots between ledger snapshots")

	// Sync
	cmd.Flags().Uint("max-concurrency-bulk-sync", _config.MaxConcurrencyBulkSync, "Concurrent block fetches during bulk sync")
	cmd.Flags().Uint("max-concurrency-deadline", _config.MaxConcurrencyDeadline, "Concurrent block fetches when caught up")

	// Service
	cmd.Flags().Bool("no-service", _config.NoService, "Disable the HTTP API service")
	cmd.Flags().StringP("service-listen", "s", _config.ServiceAddr, "Listen IP:Port for the HTTP API service")
}

func loadConfig(cmd *cobra.Command, args []string) error {

	err := bindFlagsLoadViper(cmd)
	if err != nil {
		return err
	}

	// If --datadir was explicitly set, but not the file locations derived
	// from it, this moves the defaults inside the new datadir
	_config.SetDataDir(_config.DataDir)

	_config.Logger().WithFields(logrus.Fields{
		"DataDir":          _config.DataDir,
		"Protocol":         _config.Protocol,
		"EnableP2P":        _config.EnableP2P,
		"TopologyFile":     _config.TopologyFile,
		"BlockProducer":    _config.BlockProducer,
		"BindAddrIPv4":     _config.BindAddrIPv4,
		"BindAddrIPv6":     _config.BindAddrIPv6,
		"LocalSocket":      _config.LocalSocket,
		"InitiatorOnly":    _config.InitiatorOnly,
		"DatabaseDir":      _config.DatabaseDir,
		"SnapshotInterval": _config.SnapshotInterval,
		"ServiceAddr":      _config.ServiceAddr,
		"LogLevel":         _config.LogLevel,
		"Moniker":          _config.Moniker,
	}).Debug("RUN")

	return nil
}

// Bind all flags and read the config into viper
func bindFlagsLoadViper(cmd *cobra.Command) error {
	// Register flags with viper. Include flags from this command and all
	// other persistent flags from the parent
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// first unmarshal to read from CLI flags
	if err := viper.Unmarshal(_config); err != nil {
		return err
	}

	// look for config file in [datadir]/solas.toml (.json, .yaml also work)
	viper.SetConfigName("solas")          // name of config file (without extension)
	viper.AddConfigPath(_config.DataDir)  // search root directory

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		_config.Logger().Debugf("Using config file: %s", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		_config.Logger().Debugf("No config file found in: %s", _config.DataDir)
	} else {
		return err
	}

	// second unmarshal to apply the config file, with flags that were
	// explicitly set still winning
	return viper.Unmarshal(_config)
}
