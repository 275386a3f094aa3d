package topology

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"os"
)

// Producer is one entry of a static topology file: a relay this node should
// connect to, addressed by DNS name or literal IP.
type Producer struct {
	Addr    string `json:"addr"`
	Port    uint16 `json:"port"`
	Valency int    `json:"valency"`
}

// staticDocument is the on-disk shape of a static topology file.
type staticDocument struct {
	Producers []Producer `json:"Producers"`
}

// ReadStaticProducers reads and parses a static topology file. Static
// topologies are loaded once at startup and are not live-reloadable.
func ReadStaticProducers(path string) ([]Producer, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc staticDocument
	dec := json.NewDecoder(bytes.NewReader(buf))
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %v", path, err)
	}

	if len(doc.Producers) == 0 {
		return nil, fmt.Errorf("%s declares no producers", path)
	}

	return doc.Producers, nil
}

// PartitionProducers splits producers into DNS-name-based and
// literal-address-based targets, preserving declaration order within each
// partition. The diffusion layer resolves the former and dials the latter
// directly.
func PartitionProducers(producers []Producer) (dnsProducers, addrProducers []Producer) {
	for _, p := range producers {
		if net.ParseIP(p.Addr) != nil {
			addrProducers = append(addrProducers, p)
		} else {
			dnsProducers = append(dnsProducers, p)
		}
	}
	return dnsProducers, addrProducers
}
