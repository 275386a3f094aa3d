package diffusion

import (
	"testing"
	"time"
)

func TestNewArgumentsFixedLimits(t *testing.T) {
	ipv4, err := ResolveBinding("tcp4", "0.0.0.0:3001")
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	args := NewArguments(ipv4, nil, &LocalBinding{Path: "/tmp/solas.sock"}, InitiatorAndResponder)

	if args.ConnectionLimits.HardLimit != 512 {
		t.Fatalf("hard limit should be 512, not %d", args.ConnectionLimits.HardLimit)
	}
	if args.ConnectionLimits.SoftLimit != 384 {
		t.Fatalf("soft limit should be 384, not %d", args.ConnectionLimits.SoftLimit)
	}
	if args.ConnectionLimits.Delay != 5*time.Second {
		t.Fatalf("admission delay should be 5s, not %v", args.ConnectionLimits.Delay)
	}

	if args.IPv4 == nil || args.IPv4.Address == nil || args.IPv4.Address.Port != 3001 {
		t.Fatalf("unexpected IPv4 binding: %+v", args.IPv4)
	}
	if args.IPv6 != nil {
		t.Fatal("IPv6 endpoint should be disabled")
	}
	if args.Local.Path != "/tmp/solas.sock" {
		t.Fatalf("unexpected local binding: %+v", args.Local)
	}
}

func TestResolveBinding(t *testing.T) {
	if b, err := ResolveBinding("tcp4", ""); err != nil || b != nil {
		t.Fatalf("empty address should disable the endpoint, got %v / %v", b, err)
	}

	if _, err := ResolveBinding("tcp4", "not-an-address"); err == nil {
		t.Fatal("unresolvable address should be an error")
	}

	b, err := ResolveBinding("tcp6", "[::1]:3001")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if b.Address.Port != 3001 {
		t.Fatalf("unexpected port: %d", b.Address.Port)
	}
}

func TestModeString(t *testing.T) {
	if InitiatorOnly.String() != "InitiatorOnly" {
		t.Fatal("unexpected InitiatorOnly string")
	}
	if InitiatorAndResponder.String() != "InitiatorAndResponder" {
		t.Fatal("unexpected InitiatorAndResponder string")
	}
}
