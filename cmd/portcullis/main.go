// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Command portcullis loads an iptables-save firewall, runs a single
// five-dimension verify against it, and reports match/mismatch with a
// witness packet on failure. It can also run as an HTTP server exposing
// the same add/verify/witness/clear/size operations over the network.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"grimm.is/portcullis/internal/api"
	"grimm.is/portcullis/internal/engine"
	"grimm.is/portcullis/internal/iptables"
	"grimm.is/portcullis/internal/logging"
	"grimm.is/portcullis/internal/metrics"
	"grimm.is/portcullis/internal/witnessfmt"
)

func main() {
	file := flag.String("file", "", "path to iptables-save output")
	chainName := flag.String("chain", "filter/FORWARD", "table/chain to verify against, e.g. filter/FORWARD")
	serve := flag.String("serve", "", "listen address for HTTP API mode (e.g. :8080); disables single-shot verify mode")

	srcAddr := flag.String("s", "0.0.0.0/0", "property source address (CIDR, range, or host)")
	dstAddr := flag.String("d", "0.0.0.0/0", "property destination address (CIDR, range, or host)")
	proto := flag.String("p", "all", "property protocol name or number")
	sport := flag.String("sport", "1:65535", "property source port or range")
	dport := flag.String("dport", "1:65535", "property destination port or range")
	jump := flag.String("j", "ACCEPT", "expected target for the property: DROP/ACCEPT/REJECT/QUEUE/RETURN")

	syslogEnabled := flag.Bool("syslog", false, "mirror log output to syslog")
	flag.Parse()

	var logWriter *log.Logger = log.Default()
	if *syslogEnabled {
		cfg := logging.DefaultSyslogConfig()
		cfg.Enabled = true
		w, err := logging.NewSyslogWriter(cfg)
		if err != nil {
			log.Fatalf("portcullis: syslog setup failed: %v", err)
		}
		logWriter = log.New(w, "portcullis: ", 0)
	}

	if *serve != "" {
		runServer(*serve, logWriter)
		return
	}

	if *file == "" {
		log.Fatal("portcullis: -file is required in single-shot mode (or use -serve)")
	}
	runVerify(*file, *chainName, *srcAddr, *dstAddr, *proto, *sport, *dport, *jump)
}

func runServer(addr string, logger *log.Logger) {
	e := engine.New()
	coll := metrics.NewCollector()
	srv := api.NewServer(e, logger, coll)

	logger.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Router()); err != nil {
		log.Fatalf("portcullis: server failed: %v", err)
	}
}

func runVerify(file, chainName, srcAddr, dstAddr, proto, sport, dport, jump string) {
	f, err := os.Open(file)
	if err != nil {
		log.Fatalf("portcullis: opening %s: %v", file, err)
	}
	defer f.Close()

	chains, err := iptables.Parse(f)
	if err != nil {
		log.Fatalf("portcullis: parsing %s: %v", file, err)
	}
	chain, ok := chains[chainName]
	if !ok {
		log.Fatalf("portcullis: chain %q not found in %s", chainName, file)
	}

	line := fmt.Sprintf("-A %s -s %s -d %s -p %s --sport %s --dport %s -j %s",
		chainName, srcAddr, dstAddr, proto, sport, dport, jump)
	propChains, err := iptables.Parse(strings.NewReader(line))
	if err != nil {
		log.Fatalf("portcullis: parsing property: %v", err)
	}
	propRules := propChains["/"+chainName].Rules
	if len(propRules) != 1 {
		log.Fatalf("portcullis: property must resolve to exactly one rule, got %d", len(propRules))
	}
	property := propRules[0]

	e := engine.New()
	for _, rule := range chain.WithPolicy() {
		if _, err := e.Add(rule); err != nil {
			log.Fatalf("portcullis: loading rule: %v", err)
		}
	}

	if e.Verify(property) {
		fmt.Println("MATCH")
		return
	}

	w := e.Witness()
	fmt.Println("MISMATCH")
	fmt.Println(witnessfmt.Format(w))
	os.Exit(1)
}
