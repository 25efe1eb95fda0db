// Package device provides reference BatteryProvider, PowerModeProvider
// and NetworkProvider implementations for internal/condition. The
// split between battery_linux.go and battery_else.go mirrors the
// teacher's protofile package, which split Fallocate-capable and
// fallback behavior the same way along a build tag.
package device

import (
	"net"
	"time"

	"arcspan.dev/src/telemetry.pipeline/internal/condition"
)

// TCPReachability implements condition.NetworkProvider by attempting a
// short-lived TCP dial to a known-good host. It has no notion of
// interface type (WiFi vs cellular): spec.md only asks for reachable
// vs not.
type TCPReachability struct {
	Addr    string
	Timeout time.Duration
}

// NewTCPReachability returns a TCPReachability that dials addr with a
// 3-second timeout.
func NewTCPReachability(addr string) *TCPReachability {
	return &TCPReachability{Addr: addr, Timeout: 3 * time.Second}
}

// Reachable dials Addr and reports whether the connection succeeded.
func (t *TCPReachability) Reachable() bool {
	conn, err := net.DialTimeout("tcp", t.Addr, t.Timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Static is a fixed-answer BatteryProvider/PowerModeProvider/
// NetworkProvider, useful for tests and for platforms with no
// meaningful battery concept (desktop servers running an embedded SDK).
type Static struct {
	Battery      condition.BatteryStatus
	LowPower     bool
	IsReachable  bool
}

func (s Static) BatteryStatus() condition.BatteryStatus { return s.Battery }
func (s Static) LowPowerModeEnabled() bool              { return s.LowPower }
func (s Static) Reachable() bool                        { return s.IsReachable }
