// Domain Context Manager
// https://github.com/usbarmory/tamago-dcm
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package hsm implements the hart state-management collaborator the
// Domain Context Manager drives from its startup path: waking a
// secondary hart with a CLINT inter-processor interrupt and parking the
// calling hart in a WFI loop until woken the same way.
package hsm

import (
	"fmt"
	"sync"

	"github.com/usbarmory/tamago-dcm/dcm"
	"github.com/usbarmory/tamago-dcm/soc/sifive/clint"
)

// pendingStart is the boot request a parked hart picks up when it wakes:
// the address, privilege mode and argument hart_start asked it to enter.
type pendingStart struct {
	addr uint64
	mode dcm.PrivilegeMode
	arg1 uint64
}

// CLINTDriver implements dcm.HSM over a SiFive CLINT's MSIP registers.
// HartStart raises an inter-processor interrupt to wake a parked hart;
// HartStop parks the calling hart in a single WaitForInterrupt call.
type CLINTDriver struct {
	CLINT *clint.CLINT

	mu      sync.Mutex
	pending [64]*pendingStart

	// WaitForInterrupt is injected so tests can exercise HartStop
	// without blocking on a real wfi; boards wire it to a wfi that
	// returns once an interrupt is pending. HartStop clears MSIP itself
	// after it returns.
	WaitForInterrupt func(hartID int)
}

// HartStart records the boot request for hartID and raises its MSIP
// line. It does not wait for the target to resume: per spec §4.4 the
// boot hart is expected to pick the request up later through its own
// hart state-management path.
func (d *CLINTDriver) HartStart(hartID int, addr uint64, mode dcm.PrivilegeMode, arg1 uint64) error {
	if hartID < 0 || hartID >= len(d.pending) {
		return fmt.Errorf("hsm: hart index %d out of range", hartID)
	}

	d.mu.Lock()
	d.pending[hartID] = &pendingStart{addr: addr, mode: mode, arg1: arg1}
	d.mu.Unlock()

	d.CLINT.SendIPI(hartID)

	return nil
}

// HartStop parks the calling hart. If block is false the hart is not
// actually parked, only its pending MSIP line is cleared, matching the
// non-blocking stop a hart performs when switching away from a domain
// rather than halting entirely.
func (d *CLINTDriver) HartStop(hartID int, block bool) {
	d.CLINT.ClearIPI(hartID)

	if !block {
		return
	}

	if d.WaitForInterrupt != nil {
		d.WaitForInterrupt(hartID)
	}

	d.CLINT.ClearIPI(hartID)
}

// Pending returns and clears the boot request a hart_start call left for
// hartID, or ok=false if none is pending. A woken hart's boot path calls
// this to learn where the Domain Context Manager wants it to jump.
func (d *CLINTDriver) Pending(hartID int) (addr uint64, mode dcm.PrivilegeMode, arg1 uint64, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if hartID < 0 || hartID >= len(d.pending) || d.pending[hartID] == nil {
		return 0, 0, 0, false
	}

	p := d.pending[hartID]
	d.pending[hartID] = nil

	return p.addr, p.mode, p.arg1, true
}
