package config

import "fmt"

// FieldError is a fatal configuration error naming the offending field. The
// caller is expected to print it and terminate with a non-zero exit status.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Validate checks that the merged configuration is complete and coherent. It
// returns the first problem found as a FieldError, or nil. It has no side
// effects; file contents and socket bindings are checked later by the
// components that own them.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return &FieldError{"datadir", "no data directory could be determined"}
	}

	if c.TopologyFile == "" {
		return &FieldError{"topology", "a topology file is required"}
	}

	switch c.Protocol {
	case "boreal":
		if c.BorealGenesisFile == "" {
			return &FieldError{"boreal-genesis", "required by protocol 'boreal'"}
		}
	case "cascade":
		if c.CascadeGenesisFile == "" {
			return &FieldError{"cascade-genesis", "required by protocol 'cascade'"}
		}
	case "composite":
		if c.BorealGenesisFile == "" {
			return &FieldError{"boreal-genesis", "required by protocol 'composite'"}
		}
		if c.CascadeGenesisFile == "" {
			return &FieldError{"cascade-genesis", "required by protocol 'composite'"}
		}
	default:
		return &FieldError{"protocol", fmt.Sprintf("unknown protocol %q (boreal, cascade, composite)", c.Protocol)}
	}

	if c.BlockProducer && c.VRFKeyFile == "" {
		return &FieldError{"vrf-key", "required when block-producer is set"}
	}

	if c.BindAddrIPv4 == "" && c.BindAddrIPv6 == "" && c.LocalSocket == "" {
		return &FieldError{"listen", "at least one of listen, listen-v6 or local-socket is required"}
	}

	if c.SnapshotInterval == 0 {
		return &FieldError{"snapshot-interval", "must be greater than zero"}
	}

	if c.MaxConcurrencyDeadline == 0 {
		return &FieldError{"max-concurrency-deadline", "must be greater than zero"}
	}

	if !c.NoService && c.ServiceAddr == "" {
		return &FieldError{"service-listen", "required unless no-service is set"}
	}

	return nil
}
