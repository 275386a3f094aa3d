package protocol

import (
	"errors"
	"reflect"
	"testing"

	"github.com/solasnetworks/solas/src/config"
)

func testConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.BorealGenesisFile = "boreal-genesis.json"
	cfg.CascadeGenesisFile = "cascade-genesis.json"
	return cfg
}

func TestSelect(t *testing.T) {
	for _, c := range []struct {
		protocol  string
		blockType BlockType
		genesis   []string
	}{
		{"boreal", BlockTypeBoreal, []string{"boreal-genesis.json"}},
		{"cascade", BlockTypeCascade, []string{"cascade-genesis.json"}},
		{"composite", BlockTypeComposite, []string{"boreal-genesis.json", "cascade-genesis.json"}},
	} {
		cfg := testConfig()
		cfg.Protocol = c.protocol

		p, err := Select(cfg)
		if err != nil {
			t.Fatalf("%s: %v", c.protocol, err)
		}

		if p.Name() != c.protocol {
			t.Fatalf("Name should be %s, not %s", c.protocol, p.Name())
		}
		if p.BlockType() != c.blockType {
			t.Fatalf("%s BlockType should be %s, not %s", c.protocol, c.blockType, p.BlockType())
		}
		if !reflect.DeepEqual(p.LedgerConfig().GenesisFiles, c.genesis) {
			t.Fatalf("%s genesis files should be %v, not %v", c.protocol, c.genesis, p.LedgerConfig().GenesisFiles)
		}
	}
}

func TestSelectUnsupported(t *testing.T) {
	cfg := testConfig()
	cfg.Protocol = "raft"

	if _, err := Select(cfg); !errors.Is(err, ErrUnsupportedProtocol) {
		t.Fatalf("expected ErrUnsupportedProtocol, got %v", err)
	}
}

func TestSelectMissingGenesis(t *testing.T) {
	cfg := testConfig()
	cfg.Protocol = "composite"
	cfg.CascadeGenesisFile = ""

	if _, err := Select(cfg); err == nil {
		t.Fatal("composite without cascade genesis should fail")
	}
}
