// Domain Context Manager
// https://github.com/usbarmory/tamago-dcm
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package dcm

import "github.com/usbarmory/tamago-dcm/riscv64"

// CSRState holds the saved S-mode CSRs tracked across a domain context
// switch (spec §3). stvec, sscratch, sie, sip and satp are the minimum
// set; sstatus, sepc, scause, stval, scounteren and senvcfg are preserved
// in addition for cores implementing newer privileged extensions.
type CSRState [int(riscv64.CSR_SENVCFG) + 1]uint64

// ContextSlot is the saved hardware state for one (domain, hart) pair.
// Slots are allocated once at Init and live for the lifetime of the
// firmware (spec §3, Lifecycle): they are never freed in normal
// operation.
type ContextSlot struct {
	// Regs is the saved trap frame: general-purpose registers plus
	// mepc/mstatus.
	Regs riscv64.TrapFrame

	// CSR holds the saved S-mode control and status registers.
	CSR CSRState

	// Dom is the owning domain. Never nil for a slot installed in a
	// domain's context table.
	Dom *Domain

	// HartIndex is the hart this slot belongs to.
	HartIndex int

	// NextCtx links this slot to its exit successor: either the
	// caller that entered it (set by Enter, consumed by the first
	// matching Exit) or, during Init, the next uninitialized slot in
	// this hart's boot-up chain (spec §9: the next_ctx variant is
	// preferred because it unifies both uses under one field).
	NextCtx *ContextSlot

	// Initialized is false until the slot has been populated by a
	// successful save. An uninitialized slot's Regs/CSR are
	// meaningless and must never be restored (spec §3, invariant 3).
	Initialized bool
}

// isRoot reports whether this slot's domain is the firmware's root
// domain, as recorded by the Engine that allocated it.
func (s *ContextSlot) isRoot(e *Engine) bool {
	return s.Dom == e.root
}
