package protocol

import (
	"errors"
	"fmt"

	"github.com/solasnetworks/solas/src/config"
)

// BlockType tags the block format produced by a protocol family.
type BlockType uint8

const (
	// BlockTypeBoreal tags blocks of the original era.
	BlockTypeBoreal BlockType = iota + 1
	// BlockTypeCascade tags blocks of the cascade era.
	BlockTypeCascade
	// BlockTypeComposite tags blocks of the multi-era envelope format.
	BlockTypeComposite
)

// String ...
func (b BlockType) String() string {
	switch b {
	case BlockTypeBoreal:
		return "boreal"
	case BlockTypeCascade:
		return "cascade"
	case BlockTypeComposite:
		return "composite"
	default:
		return "unknown"
	}
}

// LedgerConfig carries the ledger parameters a protocol family was
// instantiated with. Genesis files are listed in era order.
type LedgerConfig struct {
	GenesisFiles []string
}

// Protocol is an opaque handle over a consensus protocol family. It exposes
// exactly what the bootstrap sequence and its collaborators need, without
// leaking family-specific representations.
type Protocol interface {
	Name() string
	BlockType() BlockType
	LedgerConfig() LedgerConfig
}

// ErrUnsupportedProtocol is returned by Select when the configuration names a
// protocol family this build does not support.
var ErrUnsupportedProtocol = errors.New("unsupported protocol")

type borealProtocol struct {
	genesis string
}

func (p *borealProtocol) Name() string { return "boreal" }
func (p *borealProtocol) BlockType() BlockType { return BlockTypeBoreal }
func (p *borealProtocol) LedgerConfig() LedgerConfig {
	return LedgerConfig{GenesisFiles: []string{p.genesis}}
}

type cascadeProtocol struct {
	genesis string
}

func (p *cascadeProtocol) Name() string { return "cascade" }
func (p *cascadeProtocol) BlockType() BlockType { return BlockTypeCascade }
func (p *cascadeProtocol) LedgerConfig() LedgerConfig {
	return LedgerConfig{GenesisFiles: []string{p.genesis}}
}

type compositeProtocol struct {
	borealGenesis  string
	cascadeGenesis string
}

func (p *compositeProtocol) Name() string { return "composite" }
func (p *compositeProtocol) BlockType() BlockType { return BlockTypeComposite }
func (p *compositeProtocol) LedgerConfig() LedgerConfig {
	return LedgerConfig{GenesisFiles: []string{p.borealGenesis, p.cascadeGenesis}}
}

// Select maps a validated configuration to a concrete protocol handle. It is
// a pure construction step: no file is opened here, and on error no partial
// protocol state is left behind.
func Select(cfg *config.Config) (Protocol, error) {
	switch cfg.Protocol {
	case "boreal":
		if cfg.BorealGenesisFile == "" {
			return nil, fmt.Errorf("protocol boreal: missing genesis reference")
		}
		return &borealProtocol{genesis: cfg.BorealGenesisFile}, nil
	case "cascade":
		if cfg.CascadeGenesisFile == "" {
			return nil, fmt.Errorf("protocol cascade: missing genesis reference")
		}
		return &cascadeProtocol{genesis: cfg.CascadeGenesisFile}, nil
	case "composite":
		if cfg.BorealGenesisFile == "" || cfg.CascadeGenesisFile == "" {
			return nil, fmt.Errorf("protocol composite: missing genesis reference")
		}
		return &compositeProtocol{
			borealGenesis:  cfg.BorealGenesisFile,
			cascadeGenesis: cfg.CascadeGenesisFile,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProtocol, cfg.Protocol)
	}
}
