// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package witnessfmt renders an engine.Packet witness as a human-readable
// line for the CLI and HTTP API:
// "10.0.0.1:51413 → 10.0.0.9:443 protocol=6".
package witnessfmt

import (
	"fmt"

	"grimm.is/portcullis/internal/engine"
)

// Format renders pkt as "src:srcport → dst:dstport protocol=N".
func Format(pkt engine.Packet) string {
	return fmt.Sprintf("%s:%d → %s:%d protocol=%d",
		addrString(uint32(pkt[engine.DimSrcAddr])), pkt[engine.DimSrcPort],
		addrString(uint32(pkt[engine.DimDstAddr])), pkt[engine.DimDstPort],
		pkt[engine.DimProto],
	)
}

// addrString renders a 32-bit address as dotted-quad, building the output
// byte-by-byte rather than going through fmt for the common case.
func addrString(ip uint32) string {
	var buf [15]byte // max "255.255.255.255"
	pos := 0
	pos = appendOctet(buf[:], pos, byte(ip>>24))
	buf[pos] = '.'
	pos++
	pos = appendOctet(buf[:], pos, byte(ip>>16))
	buf[pos] = '.'
	pos++
	pos = appendOctet(buf[:], pos, byte(ip>>8))
	buf[pos] = '.'
	pos++
	pos = appendOctet(buf[:], pos, byte(ip))
	return string(buf[:pos])
}

func appendOctet(buf []byte, pos int, v byte) int {
	switch {
	case v >= 100:
		buf[pos] = '0' + v/100
		pos++
		buf[pos] = '0' + (v%100)/10
		pos++
		buf[pos] = '0' + v%10
		pos++
	case v >= 10:
		buf[pos] = '0' + v/10
		pos++
		buf[pos] = '0' + v%10
		pos++
	default:
		buf[pos] = '0' + v
		pos++
	}
	return pos
}
