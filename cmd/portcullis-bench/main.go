// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Command portcullis-bench measures verify latency against a randomly
// generated firewall: how long it takes to build a firewall of a given
// size, and how long a batch of random verify calls takes against it.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	"grimm.is/portcullis/internal/engine"
)

func main() {
	numRules := flag.Int("rules", 100_000, "number of random rules to generate")
	trials := flag.Int("trials", 30, "number of random verify calls to time")
	seed := flag.Int64("seed", 0, "random seed; 0 picks a time-based seed")
	flag.Parse()

	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(s))

	e := engine.New()

	fmt.Print("[firewall generation]: ")
	start := time.Now()
	for i := 0; i < *numRules; i++ {
		if _, err := e.Add(randomRule(rng)); err != nil {
			// randomRule always yields Lo <= Hi and an action in 0..4, so
			// Add does not reject these; a rejected rule would be skipped.
			continue
		}
	}
	fmt.Printf("%v (%d rules)\n", time.Since(start), e.Size())

	dry := engine.Property{
		Ranges: [5]engine.Range{{Lo: 0, Hi: 0}, {Lo: 1, Hi: 1}, {Lo: 0, Hi: 0}, {Lo: 1, Hi: 1}, {Lo: 0, Hi: 0}},
		Action: engine.Drop,
	}
	fmt.Print("\n[dry run]: ")
	start = time.Now()
	e.Verify(dry)
	fmt.Println(time.Since(start))

	fmt.Println("\n[trials]:")
	var total time.Duration
	for i := 0; i < *trials; i++ {
		prop := randomRule(rng)
		start = time.Now()
		e.Verify(prop)
		elapsed := time.Since(start)
		total += elapsed
		fmt.Printf("\t[%d]: %v\n", i+1, elapsed)
	}
	fmt.Printf("\n[average]: %v\n", total/time.Duration(*trials))
}

// randomRule generates a uniformly random 5-dimension rule, mirroring the
// reference benchmark's generate_rule: each dimension gets an independent
// [lo, hi] pair with lo <= hi, plus a random action code.
func randomRule(rng *rand.Rand) engine.Rule {
	return engine.Rule{
		Ranges: [5]engine.Range{
			randomRange(rng, 0, 1<<32-1),
			randomRange(rng, 1, 65535),
			randomRange(rng, 0, 1<<32-1),
			randomRange(rng, 1, 65535),
			randomRange(rng, 0, 255),
		},
		Action: engine.Action(rng.Intn(5)),
	}
}

func randomRange(rng *rand.Rand, min, max uint64) engine.Range {
	lo := min + uint64(rng.Int63n(int64(max-min+1)))
	hi := lo + uint64(rng.Int63n(int64(max-lo+1)))
	return engine.Range{Lo: lo, Hi: hi}
}
