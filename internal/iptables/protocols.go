// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package iptables

import "fmt"

// protocolNumbers is a static subset of /etc/protocols, covering the names
// iptables-save actually emits for -p/--protocol. A fixed table avoids a
// getprotobyname lookup against the host, since this package never runs
// on the system whose rules it's parsing. "all" is not a protocol number
// and is special-cased by the caller rather than appearing here.
var protocolNumbers = map[string]uint64{
	"ip":      0,
	"icmp":    1,
	"igmp":    2,
	"tcp":     6,
	"egp":     8,
	"udp":     17,
	"rsvp":    46,
	"gre":     47,
	"esp":     50,
	"ah":      51,
	"icmpv6":  58,
	"eigrp":   88,
	"ospf":    89,
	"ipip":    94,
	"pim":     103,
	"sctp":    132,
	"udplite": 136,
	"mh":      135,
}

// resolveProtocol maps a -p/--protocol token to its numeric value. A
// decimal literal (e.g. "-p 6") is accepted as-is; otherwise the name is
// looked up case-insensitively in protocolNumbers.
func resolveProtocol(token string) (uint64, error) {
	if n, ok := parseUint(token); ok {
		if n > 255 {
			return 0, fmt.Errorf("iptables: protocol number %d out of range", n)
		}
		return n, nil
	}
	if n, ok := protocolNumbers[lower(token)]; ok {
		return n, nil
	}
	return 0, fmt.Errorf("iptables: unknown protocol %q", token)
}
