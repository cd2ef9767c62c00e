// Domain Context Manager
// https://github.com/usbarmory/tamago-dcm
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package main

import (
	"os"
	"strings"
	"testing"

	"github.com/usbarmory/tamago-dcm/dcm"
)

func loadTestDomains(t *testing.T, path string) ([]*dcm.Domain, *dcm.Domain) {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	domains, root, err := dcm.LoadDomainSet(f)
	if err != nil {
		t.Fatalf("LoadDomainSet: %v", err)
	}

	return domains, root
}

func TestRunScriptCallReturn(t *testing.T) {
	domains, root := loadTestDomains(t, "testdata/two_domains.yaml")

	e := dcm.NewEngine(domains, root, &simHSM{}, &simModeSwitcher{}, nil)
	e.RegisterHart(0, &simHartState{}, &simPMP{n: 8})

	if err := e.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	byName := make(map[string]*dcm.Domain, len(domains))
	for _, d := range domains {
		byName[d.Name] = d
	}

	f, err := os.Open("testdata/call_return.txt")
	if err != nil {
		t.Fatalf("open script: %v", err)
	}
	defer f.Close()

	if err := runScript(e, byName, f); err != nil {
		t.Fatalf("runScript: %v", err)
	}

	secure := byName["secure"]
	if e.ThisHartContextPtr(0) != root.ContextSlot(0) {
		t.Fatalf("expected hart 0 back on root after call/return")
	}
	if !secure.ContextSlot(0).Initialized {
		t.Fatalf("expected secure's slot to be initialized after the call")
	}
}

func TestRunScriptRejectsMalformedLine(t *testing.T) {
	domains, root := loadTestDomains(t, "testdata/two_domains.yaml")

	e := dcm.NewEngine(domains, root, &simHSM{}, &simModeSwitcher{}, nil)
	e.RegisterHart(0, &simHartState{}, &simPMP{n: 8})

	if err := e.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	byName := make(map[string]*dcm.Domain, len(domains))
	for _, d := range domains {
		byName[d.Name] = d
	}

	err := runScript(e, byName, strings.NewReader("enter 0\n"))
	if err == nil {
		t.Fatalf("expected malformed enter line to be rejected")
	}
}
