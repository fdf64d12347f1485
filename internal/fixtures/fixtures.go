// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package fixtures loads synthetic firewalls and properties from YAML, for
// use by tests and the benchmark harness without hand-writing engine.Rule
// literals.
package fixtures

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"grimm.is/portcullis/internal/engine"
)

// RangeSpec is the YAML shape of one dimension's [lo, hi] bound.
type RangeSpec struct {
	Lo uint64 `yaml:"lo"`
	Hi uint64 `yaml:"hi"`
}

// TupleSpec is the YAML shape of a Rule or Property.
type TupleSpec struct {
	SrcAddr RangeSpec `yaml:"src_addr"`
	SrcPort RangeSpec `yaml:"src_port"`
	DstAddr RangeSpec `yaml:"dst_addr"`
	DstPort RangeSpec `yaml:"dst_port"`
	Proto   RangeSpec `yaml:"proto"`
	Action  string    `yaml:"action"`
}

// Firewall is the YAML shape of a complete fixture: a named firewall and
// the property to verify against it.
type Firewall struct {
	Name     string      `yaml:"name"`
	Rules    []TupleSpec `yaml:"rules"`
	Property TupleSpec   `yaml:"property"`
}

var actionNames = map[string]engine.Action{
	"DROP":   engine.Drop,
	"ACCEPT": engine.Accept,
	"REJECT": engine.Reject,
	"QUEUE":  engine.Queue,
	"RETURN": engine.Return,
}

// ToTuple converts a TupleSpec into an engine.Tuple.
func (ts TupleSpec) ToTuple() (engine.Tuple, bool) {
	action, ok := actionNames[ts.Action]
	if !ok {
		return engine.Tuple{}, false
	}
	return engine.Tuple{
		Ranges: [5]engine.Range{
			{Lo: ts.SrcAddr.Lo, Hi: ts.SrcAddr.Hi},
			{Lo: ts.SrcPort.Lo, Hi: ts.SrcPort.Hi},
			{Lo: ts.DstAddr.Lo, Hi: ts.DstAddr.Hi},
			{Lo: ts.DstPort.Lo, Hi: ts.DstPort.Hi},
			{Lo: ts.Proto.Lo, Hi: ts.Proto.Hi},
		},
		Action: action,
	}, true
}

// Load parses a YAML fixture file into a Firewall.
func Load(path string) (*Firewall, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fw Firewall
	if err := yaml.Unmarshal(data, &fw); err != nil {
		return nil, err
	}
	return &fw, nil
}

// PropertyTuple converts the fixture's property into an engine.Property.
func (fw *Firewall) PropertyTuple() (engine.Property, error) {
	t, ok := fw.Property.ToTuple()
	if !ok {
		return engine.Property{}, fmt.Errorf("fixtures: property has unrecognized action %q", fw.Property.Action)
	}
	return t, nil
}

// RuleTuples converts every rule in the fixture into engine.Rule values.
// If any entry has an unrecognized action it returns no rules and an error
// naming the first bad entry's index.
func (fw *Firewall) RuleTuples() ([]engine.Rule, error) {
	rules := make([]engine.Rule, 0, len(fw.Rules))
	for i, ts := range fw.Rules {
		t, ok := ts.ToTuple()
		if !ok {
			return nil, fmt.Errorf("fixtures: rule %d has unrecognized action %q", i, ts.Action)
		}
		rules = append(rules, t)
	}
	return rules, nil
}
