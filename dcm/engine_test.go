// Domain Context Manager
// https://github.com/usbarmory/tamago-dcm
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package dcm

import (
	"errors"
	"testing"

	"github.com/usbarmory/tamago-dcm/dcm/sbierr"
	"github.com/usbarmory/tamago-dcm/riscv64"
)

// fakeHartState is an in-memory HartState: CSRs and trap frame live as
// plain fields, swapped the same way the real CSRRW-backed one would.
type fakeHartState struct {
	csr   [int(riscv64.CSR_SENVCFG) + 1]uint64
	frame riscv64.TrapFrame
}

func (f *fakeHartState) SwapCSR(csr riscv64.CSR, val uint64) uint64 {
	old := f.csr[csr]
	f.csr[csr] = val
	return old
}

func (f *fakeHartState) CurrentTrapFrame() *riscv64.TrapFrame {
	return &f.frame
}

// fakePMP is an in-memory PMPDriver recording the last configuration
// applied and how many times it was disabled.
type fakePMP struct {
	n         int
	disabled  int
	regions   []PMPRegion
	failOnCfg bool
}

func (f *fakePMP) Count() int { return f.n }

func (f *fakePMP) Disable(i int) error {
	f.disabled++
	return nil
}

func (f *fakePMP) Configure(regions []PMPRegion) error {
	if f.failOnCfg {
		return errors.New("fake PMP configure failure")
	}
	f.regions = regions
	return nil
}

// fakeModeSwitcher records JumpTo calls instead of transferring control,
// since there is nothing to jump to in a test binary.
type fakeModeSwitcher struct {
	called bool
	addr   uint64
	mode   PrivilegeMode
	a0, a1 uint64
}

func (f *fakeModeSwitcher) JumpTo(addr uint64, mode PrivilegeMode, a0, a1 uint64) {
	f.called = true
	f.addr, f.mode, f.a0, f.a1 = addr, mode, a0, a1
}

// fakeHSM records start/stop calls without blocking.
type fakeHSM struct {
	starts []int
	stops  []int
}

func (f *fakeHSM) HartStart(hartID int, addr uint64, mode PrivilegeMode, arg1 uint64) error {
	f.starts = append(f.starts, hartID)
	return nil
}

func (f *fakeHSM) HartStop(hartID int, block bool) {
	f.stops = append(f.stops, hartID)
}

func newRegionPair() (root, secure *Domain) {
	root = &Domain{
		Name:               "root",
		PossibleHarts:      mask(0),
		AssignedHarts:      mask(0),
		BootHartID:         0,
		ContextMgmtEnabled: true,
	}
	secure = &Domain{
		Name:               "secure",
		PossibleHarts:      mask(0),
		AssignedHarts:      mask(0),
		BootHartID:         0,
		NextAddr:           0x80200000,
		NextMode:           PrivilegeSupervisor,
		NextArg1:           0xcafe,
		ContextMgmtEnabled: true,
		PMPRegions: []PMPRegion{
			{Base: 0x80200000, Size: 0x100000, Read: true, Exec: true},
		},
	}
	return root, secure
}

func mask(harts ...int) Hartmask {
	var m Hartmask
	for _, h := range harts {
		m.Set(h)
	}
	return m
}

func newTestEngine(domains []*Domain, root *Domain) (*Engine, *fakeHartState, *fakePMP, *fakeHSM, *fakeModeSwitcher) {
	hsm := &fakeHSM{}
	ms := &fakeModeSwitcher{}
	e := NewEngine(domains, root, hsm, ms, nil)

	hs := &fakeHartState{}
	pmp := &fakePMP{n: 4}
	e.RegisterHart(0, hs, pmp)

	return e, hs, pmp, hsm, ms
}

func TestTwoDomainCallReturn(t *testing.T) {
	root, secure := newRegionPair()
	domains := []*Domain{root, secure}

	e, _, pmp, _, ms := newTestEngine(domains, root)

	if err := e.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if err := e.Enter(0, secure); err != nil {
		t.Fatalf("Enter: %v", err)
	}

	if !ms.called {
		t.Fatalf("expected startup to JumpTo, but ModeSwitcher was never invoked")
	}
	if ms.addr != 0x80200000 || ms.mode != PrivilegeSupervisor || ms.a0 != 0 || ms.a1 != 0xcafe {
		t.Fatalf("unexpected JumpTo args: %+v", ms)
	}
	if len(pmp.regions) != 1 || pmp.regions[0].Base != 0x80200000 {
		t.Fatalf("PMP not reconfigured for secure domain: %+v", pmp.regions)
	}

	if err := e.Exit(0); err != nil {
		t.Fatalf("Exit: %v", err)
	}
	if e.ThisHartContextPtr(0) != root.ContextSlot(0) {
		t.Fatalf("exit did not return to root")
	}
}

func TestStartupChainWithUnassignedDomain(t *testing.T) {
	root := &Domain{
		Name:               "root",
		PossibleHarts:      mask(0, 1),
		AssignedHarts:      mask(0, 1),
		BootHartID:         0,
		ContextMgmtEnabled: true,
	}
	secure := &Domain{
		Name:               "secure",
		PossibleHarts:      mask(0, 1),
		AssignedHarts:      mask(0),
		BootHartID:         0,
		NextAddr:           0x80200000,
		NextMode:           PrivilegeSupervisor,
		ContextMgmtEnabled: true,
	}
	domains := []*Domain{root, secure}

	hsm := &fakeHSM{}
	ms := &fakeModeSwitcher{}
	e := NewEngine(domains, root, hsm, ms, nil)
	e.RegisterHart(0, &fakeHartState{}, &fakePMP{n: 4})
	e.RegisterHart(1, &fakeHartState{}, &fakePMP{n: 4})

	if err := e.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if err := e.Exit(0); err != nil {
		t.Fatalf("Exit(0): %v", err)
	}
	if !ms.called {
		t.Fatalf("expected hart 0 startup to jump into secure")
	}

	if err := e.Exit(1); err != nil {
		t.Fatalf("Exit(1): %v", err)
	}
	// Hart 1 is not secure's boot hart, so its own chain advance asks
	// the DCM to (re-)start the boot hart and parks itself; the actual
	// wake-up of hart 1 described in the spec narrative is issued by
	// secure's own code running on the boot hart, outside the DCM.
	if len(hsm.starts) != 1 || hsm.starts[0] != secure.BootHartID {
		t.Fatalf("expected hart 1's startup to request hart_start(%d, ...): %+v", secure.BootHartID, hsm.starts)
	}
	if len(hsm.stops) != 1 || hsm.stops[0] != 1 {
		t.Fatalf("expected hart 1 to park itself: %+v", hsm.stops)
	}
}

func TestCSRRoundTrip(t *testing.T) {
	root, secure := newRegionPair()
	domains := []*Domain{root, secure}

	e, hs, _, _, _ := newTestEngine(domains, root)

	if err := e.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	for i := range hs.csr {
		hs.csr[i] = uint64(0x1000 + i)
	}
	want := hs.csr

	if err := e.Enter(0, secure); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if err := e.Exit(0); err != nil {
		t.Fatalf("Exit: %v", err)
	}

	if hs.csr != want {
		t.Fatalf("CSR round-trip mismatch: got %v, want %v", hs.csr, want)
	}
}

func TestRejectInvalidEnter(t *testing.T) {
	root, secure := newRegionPair()
	secure.ContextMgmtEnabled = false
	domains := []*Domain{root, secure}

	e, _, _, _, _ := newTestEngine(domains, root)

	if err := e.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if err := e.Enter(0, secure); Code(err) != sbierr.EINVAL {
		t.Fatalf("expected enter on non-context-managed domain to return EINVAL, got %v", err)
	}

	if err := e.Enter(0, nil); Code(err) != sbierr.EINVAL {
		t.Fatalf("expected enter(nil) to return EINVAL, got %v", err)
	}
}

func TestInitRefusesSecondRun(t *testing.T) {
	root, secure := newRegionPair()
	domains := []*Domain{root, secure}

	e, _, _, _, _ := newTestEngine(domains, root)

	if err := e.Init(); err != nil {
		t.Fatalf("first Init: %v", err)
	}
	if err := e.Init(); err == nil {
		t.Fatalf("expected second Init to fail")
	}
}

func TestInitRejectsUnreachableDomain(t *testing.T) {
	root := &Domain{
		Name:               "root",
		PossibleHarts:      mask(0),
		AssignedHarts:      mask(0),
		BootHartID:         0,
		ContextMgmtEnabled: true,
	}
	// orphan never has an assigned hart and is not root: its boot
	// hart validation fails (boot_hartid not in its own assigned_harts).
	orphan := &Domain{
		Name:               "orphan",
		PossibleHarts:      mask(0),
		AssignedHarts:      0,
		BootHartID:         0,
		ContextMgmtEnabled: true,
	}

	e := NewEngine([]*Domain{root, orphan}, root, &fakeHSM{}, &fakeModeSwitcher{}, nil)

	if err := e.Init(); err == nil {
		t.Fatalf("expected Init to reject a domain whose boot hart is not in its own assigned_harts")
	}
}

func TestPMPCoherenceAcrossEnterExit(t *testing.T) {
	root, secure := newRegionPair()
	root.PMPRegions = []PMPRegion{{Base: 0x80000000, Size: 0x1000, Read: true, Write: true}}
	domains := []*Domain{root, secure}

	e, _, pmp, _, _ := newTestEngine(domains, root)

	if err := e.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if err := e.Enter(0, secure); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if len(pmp.regions) != 1 || pmp.regions[0].Base != secure.PMPRegions[0].Base {
		t.Fatalf("PMP not set to secure's policy after enter: %+v", pmp.regions)
	}

	if err := e.Exit(0); err != nil {
		t.Fatalf("Exit: %v", err)
	}
	if len(pmp.regions) != 1 || pmp.regions[0].Base != root.PMPRegions[0].Base {
		t.Fatalf("PMP not restored to root's policy after exit: %+v", pmp.regions)
	}
}
