// Domain Context Manager
// https://github.com/usbarmory/tamago-dcm
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package dcm

import (
	"strings"
	"testing"
)

const twoDomainManifest = `
domains:
  - name: root
    root: true
    possible_harts: [0, 1]
    assigned_harts: [0, 1]
    boot_hartid: 0
    context_mgmt_enabled: true

  - name: secure
    possible_harts: [0]
    assigned_harts: [0]
    boot_hartid: 0
    next_addr: 0x80200000
    next_mode: S
    next_arg1: 0xcafe
    context_mgmt_enabled: true
    pmp_regions:
      - base: 0x80200000
        size: 0x100000
        read: true
        exec: true
`

func TestLoadDomainSet(t *testing.T) {
	domains, root, err := LoadDomainSet(strings.NewReader(twoDomainManifest))
	if err != nil {
		t.Fatalf("LoadDomainSet: %v", err)
	}

	if root == nil || root.Name != "root" {
		t.Fatalf("expected root domain named \"root\", got %+v", root)
	}
	if len(domains) != 2 {
		t.Fatalf("expected 2 domains, got %d", len(domains))
	}

	var secure *Domain
	for _, d := range domains {
		if d.Name == "secure" {
			secure = d
		}
	}
	if secure == nil {
		t.Fatalf("secure domain not found")
	}
	if secure.NextMode != PrivilegeSupervisor {
		t.Fatalf("expected secure domain next_mode S, got %v", secure.NextMode)
	}
	if !secure.AssignedHarts.Test(0) {
		t.Fatalf("expected secure assigned_harts to include hart 0")
	}
	if len(secure.PMPRegions) != 1 || secure.PMPRegions[0].Base != 0x80200000 {
		t.Fatalf("unexpected PMP regions: %+v", secure.PMPRegions)
	}
}

func TestLoadDomainSetRejectsNoRoot(t *testing.T) {
	manifest := `
domains:
  - name: secure
    possible_harts: [0]
    assigned_harts: [0]
    boot_hartid: 0
    context_mgmt_enabled: true
`
	if _, _, err := LoadDomainSet(strings.NewReader(manifest)); err == nil {
		t.Fatalf("expected error when no domain is marked root")
	}
}

func TestLoadDomainSetRejectsTwoRoots(t *testing.T) {
	manifest := `
domains:
  - name: root1
    root: true
    possible_harts: [0]
    assigned_harts: [0]
    boot_hartid: 0
  - name: root2
    root: true
    possible_harts: [0]
    assigned_harts: [0]
    boot_hartid: 0
`
	if _, _, err := LoadDomainSet(strings.NewReader(manifest)); err == nil {
		t.Fatalf("expected error when two domains are marked root")
	}
}

func TestLoadDomainSetRejectsUnknownFields(t *testing.T) {
	manifest := `
domains:
  - name: root
    root: true
    possible_harts: [0]
    assigned_harts: [0]
    boot_hartid: 0
    bogus_field: true
`
	if _, _, err := LoadDomainSet(strings.NewReader(manifest)); err == nil {
		t.Fatalf("expected error for unknown manifest field")
	}
}

func TestLoadDomainSetRejectsOutOfRangeHart(t *testing.T) {
	manifest := `
domains:
  - name: root
    root: true
    possible_harts: [64]
    assigned_harts: [64]
    boot_hartid: 64
`
	if _, _, err := LoadDomainSet(strings.NewReader(manifest)); err == nil {
		t.Fatalf("expected error for out-of-range hart index")
	}
}
