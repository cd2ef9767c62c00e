// Domain Context Manager
// https://github.com/usbarmory/tamago-dcm
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package dcm

import (
	"github.com/usbarmory/tamago-dcm/dcm/sbierr"
	"github.com/usbarmory/tamago-dcm/riscv64"
)

// doSwitch performs the ordered save-current/restore-target exchange
// (spec §4.1). The caller must hold the hart (single-threaded on this
// hart) with interrupts disabled for the duration; this package never
// spawns goroutines across hart boundaries, so that precondition holds by
// construction as long as callers never invoke doSwitch for the same hart
// concurrently from more than one goroutine.
func (e *Engine) doSwitch(h int, current, target *ContextSlot) error {
	if current == target {
		// Same domain: no-op. Callers must detect and skip this
		// case (spec §4.1); this guard exists only to keep a
		// misuse from corrupting state.
		return nil
	}

	hs := e.hartState[h]
	pmpDrv := e.pmp[h]

	if hs == nil || pmpDrv == nil {
		return newError(sbierr.EINVAL, "dcm: hart %d has no registered collaborators", h)
	}

	// Phase 1: domain reassignment. Until this completes, trap
	// handlers must not run domain-sensitive logic.
	if current.Dom != nil {
		current.Dom.AssignedHarts.Clear(h)
	}
	target.Dom.AssignedHarts.Set(h)
	e.everAssigned[h] = true
	e.current[h] = target

	// Phase 2: PMP reprogramming. Every region is disabled first
	// because PMP entries are not atomically replaceable; leaving
	// stale entries live while installing new ones could grant
	// unintended access mid-switch.
	for i := 0; i < pmpDrv.Count(); i++ {
		if err := pmpDrv.Disable(i); err != nil {
			return newError(sbierr.EINVAL, "dcm: hart %d: disable PMP %d: %v", h, i, err)
		}
	}

	if err := pmpDrv.Configure(target.Dom.PMPRegions); err != nil {
		return newError(sbierr.EINVAL, "dcm: hart %d: configure PMP for domain %q: %v", h, target.Dom.Name, err)
	}

	// Phase 3: CSR exchange. Each CSR is swapped with a single atomic
	// read-and-set so a trap taken between read and write cannot lose
	// state.
	for i := 0; i < len(current.CSR); i++ {
		current.CSR[i] = hs.SwapCSR(riscv64.CSR(i), target.CSR[i])
	}

	// Phase 4: trap-frame exchange. The live frame is read from the
	// collaborator (normally derived from mscratch), copied into the
	// outgoing slot, then overwritten with the incoming slot.
	live := hs.CurrentTrapFrame()
	current.Regs = *live
	*live = target.Regs

	// Phase 5.
	current.Initialized = true

	return nil
}
