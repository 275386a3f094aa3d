package config

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	"github.com/solasnetworks/solas/src/common"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// Default filenames.
const (
	// DefaultKeyfile is the default name of the file containing the node's
	// network private key.
	DefaultKeyfile = "priv_key"

	// DefaultVRFKeyfile is the default name of the file containing the VRF
	// signing key of a block-producing node.
	DefaultVRFKeyfile = "vrf_key"

	// DefaultTopologyFile is the default name of the file describing the
	// network topology.
	DefaultTopologyFile = "topology.json"

	// DefaultDatabaseFile is the default name of the folder containing the
	// chain database.
	DefaultDatabaseFile = "chain_db"
)

// Default configuration values.
const (
	DefaultLogLevel               = "debug"
	DefaultProtocol               = "composite"
	DefaultBindAddr               = "0.0.0.0:3001"
	DefaultServiceAddr            = "127.0.0.1:12788"
	DefaultEnableP2P              = true
	DefaultSnapshotInterval       = 4320
	DefaultMaxConcurrencyBulkSync = 1
	DefaultMaxConcurrencyDeadline = 2
)

// Config contains all the configuration properties of a solas node.
type Config struct {
	// DataDir is the top-level directory containing solas configuration and
	// data.
	DataDir string `mapstructure:"datadir"`

	// LogLevel determines the chattiness of the log output.
	LogLevel string `mapstructure:"log"`

	// LogDir, when set, is a directory where per-level log files are written
	// in addition to stderr.
	LogDir string `mapstructure:"log-dir"`

	// Moniker defines the friendly name of this node.
	Moniker string `mapstructure:"moniker"`

	// Protocol selects the consensus protocol family: "boreal", "cascade",
	// or the multi-era "composite".
	Protocol string `mapstructure:"protocol"`

	// BorealGenesisFile references the genesis configuration of the boreal
	// era. Required when Protocol is "boreal" or "composite".
	BorealGenesisFile string `mapstructure:"boreal-genesis"`

	// CascadeGenesisFile references the genesis configuration of the cascade
	// era. Required when Protocol is "cascade" or "composite".
	CascadeGenesisFile string `mapstructure:"cascade-genesis"`

	// EnableP2P selects between the peer-to-peer topology mode, where the
	// topology file is live-reloadable with SIGHUP, and the static topology
	// mode, where a fixed list of producers is loaded once at startup.
	EnableP2P bool `mapstructure:"p2p"`

	// TopologyFile is the location of the topology description.
	TopologyFile string `mapstructure:"topology"`

	// BlockProducer makes this node forge blocks. It requires a VRF signing
	// key with owner-only file permissions.
	BlockProducer bool `mapstructure:"block-producer"`

	// VRFKeyFile is the location of the VRF signing key. Only read when
	// BlockProducer is set.
	VRFKeyFile string `mapstructure:"vrf-key"`

	// BindAddrIPv4 is the public IPv4 address:port the diffusion layer
	// listens on. Leave empty to disable the IPv4 endpoint.
	BindAddrIPv4 string `mapstructure:"listen"`

	// BindAddrIPv6 is the public IPv6 address:port the diffusion layer
	// listens on. Leave empty to disable the IPv6 endpoint.
	BindAddrIPv6 string `mapstructure:"listen-v6"`

	// LocalSocket is the path of the unix socket serving intra-host clients.
	LocalSocket string `mapstructure:"local-socket"`

	// InitiatorOnly restricts the diffusion layer to outbound connections.
	// This is the usual setting for block producers hidden behind relays.
	InitiatorOnly bool `mapstructure:"initiator-only"`

	// ExperimentalVersions advertises unreleased network protocol versions in
	// addition to the released ones.
	ExperimentalVersions bool `mapstructure:"experimental-versions"`

	// DatabaseDir is the directory containing the chain database. It is
	// forwarded to the diffusion/consensus run loop untouched.
	DatabaseDir string `mapstructure:"db"`

	// ValidateDB forces a full revalidation of the chain database on startup.
	ValidateDB bool `mapstructure:"validate-db"`

	// SnapshotInterval is the number of slots between ledger snapshots.
	SnapshotInterval uint64 `mapstructure:"snapshot-interval"`

	// MaxConcurrencyBulkSync bounds concurrent block fetches during bulk sync.
	MaxConcurrencyBulkSync uint `mapstructure:"max-concurrency-bulk-sync"`

	// MaxConcurrencyDeadline bounds concurrent block fetches when the node is
	// caught up.
	MaxConcurrencyDeadline uint `mapstructure:"max-concurrency-deadline"`

	// NoService disables the HTTP API service.
	NoService bool `mapstructure:"no-service"`

	// ServiceAddr is the address:port of the optional HTTP service exposing
	// the live topology and effective configuration.
	ServiceAddr string `mapstructure:"service-listen"`

	logger *logrus.Logger
}

// NewDefaultConfig returns a config object with default values.
func NewDefaultConfig() *Config {
	config := &Config{
		DataDir:                DefaultDataDir(),
		LogLevel:               DefaultLogLevel,
		Protocol:               DefaultProtocol,
		EnableP2P:              DefaultEnableP2P,
		TopologyFile:           filepath.Join(DefaultDataDir(), DefaultTopologyFile),
		VRFKeyFile:             filepath.Join(DefaultDataDir(), DefaultVRFKeyfile),
		BindAddrIPv4:           DefaultBindAddr,
		DatabaseDir:            filepath.Join(DefaultDataDir(), DefaultDatabaseFile),
		SnapshotInterval:       DefaultSnapshotInterval,
		MaxConcurrencyBulkSync: DefaultMaxConcurrencyBulkSync,
		MaxConcurrencyDeadline: DefaultMaxConcurrencyDeadline,
		ServiceAddr:            DefaultServiceAddr,
	}

	return config
}

// NewTestConfig returns a config object with default values and a special
// logger for debugging tests.
func NewTestConfig(t testing.TB, level logrus.Level) *Config {
	config := NewDefaultConfig()
	config.logger = common.NewTestLogger(t, level)
	return config
}

// SetDataDir sets the top-level solas directory, and updates the derived file
// locations that are still set to their default values. A location that is not
// currently the default was explicitly chosen by the user, so it is left
// untouched.
func (c *Config) SetDataDir(dataDir string) {
	def := DefaultDataDir()
	if c.TopologyFile == filepath.Join(def, DefaultTopologyFile) {
		c.TopologyFile = filepath.Join(dataDir, DefaultTopologyFile)
	}
	if c.VRFKeyFile == filepath.Join(def, DefaultVRFKeyfile) {
		c.VRFKeyFile = filepath.Join(dataDir, DefaultVRFKeyfile)
	}
	if c.DatabaseDir == filepath.Join(def, DefaultDatabaseFile) {
		c.DatabaseDir = filepath.Join(dataDir, DefaultDatabaseFile)
	}
	c.DataDir = dataDir
}

// Keyfile returns the full path of the file containing the network private
// key.
func (c *Config) Keyfile() string {
	return filepath.Join(c.DataDir, DefaultKeyfile)
}

// Logger returns a formatted logrus Entry with prefix set to "solas". When
// LogDir is set, info and debug output is additionally written to files in
// that directory.
func (c *Config) Logger() *logrus.Entry {
	if c.logger == nil {
		c.logger = logrus.New()
		c.logger.Level = LogLevel(c.LogLevel)
		c.logger.Formatter = new(prefixed.TextFormatter)

		if c.LogDir != "" {
			c.logger.Hooks.Add(lfshook.NewHook(lfshook.PathMap{
				logrus.InfoLevel:  filepath.Join(c.LogDir, "solas_info.log"),
				logrus.DebugLevel: filepath.Join(c.LogDir, "solas_debug.log"),
			}, c.logger.Formatter))
		}
	}
	return c.logger.WithField("prefix", "solas")
}

// DefaultDataDir returns the default directory name for top-level solas
// config based on the underlying OS, attempting to respect conventions.
func DefaultDataDir() string {
	// Try to place the data folder in the user's home dir
	home := HomeDir()
	if home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, ".Solas")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "Solas")
		} else {
			return filepath.Join(home, ".solas")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

// HomeDir returns the user's home directory.
func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// LogLevel parses a string into a Logrus log level.
func LogLevel(l string) logrus.Level {
	switch l {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.DebugLevel
	}
}
