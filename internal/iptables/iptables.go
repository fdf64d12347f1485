// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package iptables parses iptables-save output into engine.Rule values,
// turning "-A FORWARD -s 10.0.0.0/8 -p tcp --dport 443 -j ACCEPT" into a
// five-dimension Rule before the engine ever sees it.
package iptables

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"grimm.is/portcullis/internal/engine"
	"grimm.is/portcullis/internal/errors"
)

// Chain holds the rules and default policy extracted for a single chain
// of a single table.
type Chain struct {
	Table     string
	Name      string
	Policy    engine.Action // only meaningful for built-in chains
	HasPolicy bool
	Rules     []engine.Rule
}

// Parse reads iptables-save output from r and extracts every chain it
// declares, across every table, not just a single hardcoded chain.
func Parse(r io.Reader) (map[string]*Chain, error) {
	chains := make(map[string]*Chain)

	scanner := bufio.NewScanner(r)
	var table string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch {
		case strings.HasPrefix(line, "*"):
			table = strings.TrimPrefix(line, "*")

		case strings.HasPrefix(line, ":"):
			name, policy, hasPolicy, err := parseChainDecl(line)
			if err != nil {
				return nil, err
			}
			key := table + "/" + name
			chains[key] = &Chain{Table: table, Name: name, Policy: policy, HasPolicy: hasPolicy}

		case strings.HasPrefix(line, "-A "):
			name, rules, err := parseRuleLine(line)
			if err != nil {
				return nil, err
			}
			key := table + "/" + name
			c, ok := chains[key]
			if !ok {
				c = &Chain{Table: table, Name: name}
				chains[key] = c
			}
			c.Rules = append(c.Rules, rules...)

		case line == "COMMIT":
			table = ""
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.KindInternal, "iptables: scanning input")
	}
	return chains, nil
}

// WithPolicy returns chain's rules followed by a trailing catch-all Rule
// built from its default policy, so the result is a complete firewall:
// rules are checked in order, with the default policy acting as a final
// catch-all rule. A chain without a policy (HasPolicy false, e.g. a user
// chain declared with "-") gets no trailing rule.
func (c *Chain) WithPolicy() []engine.Rule {
	out := make([]engine.Rule, len(c.Rules), len(c.Rules)+1)
	copy(out, c.Rules)
	if c.HasPolicy {
		out = append(out, engine.Rule{
			Ranges: [5]engine.Range{
				engine.FullDomain(engine.DimSrcAddr),
				engine.FullDomain(engine.DimSrcPort),
				engine.FullDomain(engine.DimDstAddr),
				engine.FullDomain(engine.DimDstPort),
				engine.FullDomain(engine.DimProto),
			},
			Action: c.Policy,
		})
	}
	return out
}

// parseChainDecl parses ":NAME POLICY [packets:bytes]" (only built-in
// chains carry a real ACCEPT/DROP policy; user chains declare "-").
func parseChainDecl(line string) (name string, policy engine.Action, hasPolicy bool, err error) {
	fields := strings.Fields(strings.TrimPrefix(line, ":"))
	if len(fields) < 2 {
		return "", 0, false, fmt.Errorf("iptables: malformed chain declaration %q", line)
	}
	name = fields[0]
	if fields[1] == "-" {
		return name, 0, false, nil
	}
	action, err := resolveTarget(fields[1])
	if err != nil {
		return "", 0, false, err
	}
	return name, action, true, nil
}

// parseRuleLine parses a single "-A CHAIN ..." line into one or more
// engine.Rule values. A comma-separated port list expands into several
// rules, one per listed port.
func parseRuleLine(line string) (chain string, rules []engine.Rule, err error) {
	fields := strings.Fields(line)
	if len(fields) < 2 || fields[0] != "-A" {
		return "", nil, fmt.Errorf("iptables: malformed rule line %q", line)
	}
	chain = fields[1]

	ranges := [5]engine.Range{
		engine.FullDomain(engine.DimSrcAddr),
		engine.FullDomain(engine.DimSrcPort),
		engine.FullDomain(engine.DimDstAddr),
		engine.FullDomain(engine.DimDstPort),
		engine.FullDomain(engine.DimProto),
	}
	var action engine.Action
	haveAction := false

	var sportExpand, dportExpand []string

	for i := 2; i < len(fields); i++ {
		tok := fields[i]
		next := func() (string, error) {
			i++
			if i >= len(fields) {
				return "", fmt.Errorf("iptables: %q missing argument in %q", tok, line)
			}
			return fields[i], nil
		}

		switch tok {
		case "-s", "--source", "-src":
			v, e := next()
			if e != nil {
				return "", nil, e
			}
			r, e := parseAddress(v)
			if e != nil {
				return "", nil, e
			}
			ranges[engine.DimSrcAddr] = r

		case "-d", "--destination", "-dst":
			v, e := next()
			if e != nil {
				return "", nil, e
			}
			r, e := parseAddress(v)
			if e != nil {
				return "", nil, e
			}
			ranges[engine.DimDstAddr] = r

		case "-p", "--protocol":
			v, e := next()
			if e != nil {
				return "", nil, e
			}
			if lower(v) == "all" {
				ranges[engine.DimProto] = engine.FullDomain(engine.DimProto)
				continue
			}
			n, e := resolveProtocol(v)
			if e != nil {
				return "", nil, e
			}
			ranges[engine.DimProto] = engine.Range{Lo: n, Hi: n}

		case "--sport", "--source-port", "--sports":
			v, e := next()
			if e != nil {
				return "", nil, e
			}
			if strings.Contains(v, ",") {
				sportExpand = strings.Split(v, ",")
				continue
			}
			r, e := parsePortSpec(v)
			if e != nil {
				return "", nil, e
			}
			ranges[engine.DimSrcPort] = r

		case "--dport", "--destination-port", "--dports":
			v, e := next()
			if e != nil {
				return "", nil, e
			}
			if strings.Contains(v, ",") {
				dportExpand = strings.Split(v, ",")
				continue
			}
			r, e := parsePortSpec(v)
			if e != nil {
				return "", nil, e
			}
			ranges[engine.DimDstPort] = r

		case "-j", "--jump":
			v, e := next()
			if e != nil {
				return "", nil, e
			}
			a, e := resolveTarget(v)
			if e != nil {
				return "", nil, e
			}
			action = a
			haveAction = true

		case "-i", "-o", "-m", "--comment":
			// Interface names and match-module markers carry no weight in
			// the five-dimension model; skip their argument if they take one.
			if tok != "-m" {
				if _, e := next(); e != nil {
					return "", nil, e
				}
			} else {
				_, _ = next()
			}
		}
	}

	if !haveAction {
		return "", nil, fmt.Errorf("iptables: rule %q has no -j/--jump target", line)
	}

	// Comma-separated port lists expand into one rule per value. At most
	// one of sport/dport expands in the rules we expect to see; if both
	// did we'd need a full cross product, which iptables-save never emits
	// in practice.
	switch {
	case len(sportExpand) > 0:
		for _, p := range sportExpand {
			r, e := parsePortSpec(p)
			if e != nil {
				return "", nil, e
			}
			rr := ranges
			rr[engine.DimSrcPort] = r
			rules = append(rules, engine.Rule{Ranges: rr, Action: action})
		}
	case len(dportExpand) > 0:
		for _, p := range dportExpand {
			r, e := parsePortSpec(p)
			if e != nil {
				return "", nil, e
			}
			rr := ranges
			rr[engine.DimDstPort] = r
			rules = append(rules, engine.Rule{Ranges: rr, Action: action})
		}
	default:
		rules = append(rules, engine.Rule{Ranges: ranges, Action: action})
	}

	return chain, rules, nil
}

// parsePortSpec parses a single port token: "80", or a range "1000:1010".
func parsePortSpec(v string) (engine.Range, error) {
	if lo, hi, ok := strings.Cut(v, ":"); ok {
		loN, e1 := strconv.ParseUint(lo, 10, 64)
		hiN, e2 := strconv.ParseUint(hi, 10, 64)
		if e1 != nil || e2 != nil {
			return engine.Range{}, fmt.Errorf("iptables: malformed port range %q", v)
		}
		return engine.Range{Lo: loN, Hi: hiN}, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return engine.Range{}, fmt.Errorf("iptables: malformed port %q", v)
	}
	return engine.Range{Lo: n, Hi: n}, nil
}

// parseUint is a permissive helper shared with protocols.go: it reports
// ok=false instead of erroring so resolveProtocol can fall back to a name
// lookup.
func parseUint(v string) (uint64, bool) {
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func lower(s string) string { return strings.ToLower(s) }

// resolveTarget maps a -j/--jump token to an engine.Action, case
// insensitively: "REJECT", "Reject", and "reject" all map to the same code.
func resolveTarget(token string) (engine.Action, error) {
	switch strings.ToUpper(token) {
	case "DROP":
		return engine.Drop, nil
	case "ACCEPT":
		return engine.Accept, nil
	case "REJECT":
		return engine.Reject, nil
	case "QUEUE":
		return engine.Queue, nil
	case "RETURN":
		return engine.Return, nil
	default:
		return 0, fmt.Errorf("iptables: unrecognized target %q", token)
	}
}
