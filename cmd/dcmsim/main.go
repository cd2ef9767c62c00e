// Domain Context Manager
// https://github.com/usbarmory/tamago-dcm
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Command dcmsim loads a declarative domain-set manifest, builds a Domain
// Context Manager engine over simulated hardware, and drives a scripted
// enter/exit sequence against it, tracing every switch and boot-up to
// stdout. It is the host-side equivalent of booting a real sifive_u image:
// nothing here touches PMP CSRs or a CLINT, so it runs as an ordinary
// go binary rather than a TamaGo unikernel.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/usbarmory/tamago-dcm/dcm"
	"github.com/usbarmory/tamago-dcm/riscv64"
)

func main() {
	log.SetFlags(0)

	domainsPath := flag.String("domains", "", "path to a domain-set YAML manifest")
	scriptPath := flag.String("script", "", "path to a trace script (enter/exit lines); defaults to stdin")
	flag.Parse()

	if *domainsPath == "" {
		log.Fatalf("dcmsim: -domains is required")
	}

	f, err := os.Open(*domainsPath)
	if err != nil {
		log.Fatalf("dcmsim: %v", err)
	}
	defer f.Close()

	domains, root, err := dcm.LoadDomainSet(f)
	if err != nil {
		log.Fatalf("dcmsim: %v", err)
	}

	harts := make(map[int]bool)
	for _, d := range domains {
		d.PossibleHarts.ForEach(func(h int) { harts[h] = true })
	}

	hsm := &simHSM{}
	ms := &simModeSwitcher{}
	e := dcm.NewEngine(domains, root, hsm, ms, nil)
	e.SetConsole(&stdoutConsole{})

	for h := range harts {
		e.RegisterHart(h, &simHartState{}, &simPMP{n: riscv64.NumPMP})
	}

	if err := e.Init(); err != nil {
		log.Fatalf("dcmsim: init: %v", err)
	}
	fmt.Println("dcmsim: init ok")

	script := os.Stdin
	if *scriptPath != "" {
		sf, err := os.Open(*scriptPath)
		if err != nil {
			log.Fatalf("dcmsim: %v", err)
		}
		defer sf.Close()
		script = sf
	}

	byName := make(map[string]*dcm.Domain, len(domains))
	for _, d := range domains {
		byName[d.Name] = d
	}

	if err := runScript(e, byName, script); err != nil {
		log.Fatalf("dcmsim: %v", err)
	}
}

// runScript drives e through a sequence of "enter <hart> <domain>" and
// "exit <hart>" lines, tracing the resulting status code of each.
func runScript(e *dcm.Engine, byName map[string]*dcm.Domain, r io.Reader) error {
	sc := bufio.NewScanner(r)

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)

		switch fields[0] {
		case "enter":
			if len(fields) != 3 {
				return fmt.Errorf("malformed line %q: want \"enter <hart> <domain>\"", line)
			}
			h, err := strconv.Atoi(fields[1])
			if err != nil {
				return fmt.Errorf("malformed line %q: %w", line, err)
			}
			target, ok := byName[fields[2]]
			if !ok {
				return fmt.Errorf("unknown domain %q", fields[2])
			}
			err = e.Enter(h, target)
			fmt.Printf("enter hart=%d domain=%s -> %v\n", h, fields[2], dcm.Code(err))

		case "exit":
			if len(fields) != 2 {
				return fmt.Errorf("malformed line %q: want \"exit <hart>\"", line)
			}
			h, err := strconv.Atoi(fields[1])
			if err != nil {
				return fmt.Errorf("malformed line %q: %w", line, err)
			}
			err = e.Exit(h)
			fmt.Printf("exit hart=%d -> %v\n", h, dcm.Code(err))

		default:
			return fmt.Errorf("unknown command %q", fields[0])
		}
	}

	return sc.Err()
}

// stdoutConsole routes the engine's own init-failure and boot-chain
// diagnostics to stdout alongside the script trace.
type stdoutConsole struct{}

func (*stdoutConsole) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}
