// Domain Context Manager
// https://github.com/usbarmory/tamago-dcm
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package dcm

import "github.com/usbarmory/tamago-dcm/riscv64"

// PMPDriver is the Physical Memory Protection collaborator consumed by the
// Switcher (spec §6). Concrete implementations live in package pmp: one
// backed by the RISC-V PMP CSRs directly, one backed by a SiFive physical
// filter device.
type PMPDriver interface {
	// Count returns the number of PMP entries implemented by this
	// hart.
	Count() int
	// Disable clears PMP entry i, granting no permissions.
	Disable(i int) error
	// Configure installs regions as the hart's active PMP policy.
	// Regions beyond Count() are rejected; regions are applied in
	// order starting at entry 0.
	Configure(regions []PMPRegion) error
}

// HSM is the hart state-management collaborator (spec §6). Concrete
// implementations live in package hsm.
type HSM interface {
	// HartStart requests that hartID begin execution at addr in mode,
	// with a1 = arg1 and a0 = hartID. Asynchronous: the target hart
	// starts once its own Init path reaches the point of entering its
	// scheduling loop.
	HartStart(hartID int, addr uint64, mode PrivilegeMode, arg1 uint64) error
	// HartStop parks the calling hart. If block is true this call
	// does not return until another hart starts it again.
	HartStop(hartID int, block bool)
}

// ModeSwitcher jumps the calling hart from machine mode into a domain's
// boot entry point. JumpTo never returns.
type ModeSwitcher interface {
	JumpTo(addr uint64, mode PrivilegeMode, a0 uint64, a1 uint64)
}

// HartState is the per-hart CSR/trap-frame access collaborator the
// Switcher exchanges state through (spec §4.1).
type HartState interface {
	// SwapCSR atomically exchanges the live value of csr with val,
	// returning the value it replaced.
	SwapCSR(csr riscv64.CSR, val uint64) uint64
	// CurrentTrapFrame locates the live trap frame for this hart.
	CurrentTrapFrame() *riscv64.TrapFrame
}

// Allocator provides zeroed context slot allocation (spec §6). The
// default implementation is a thin wrapper over Go's zero-value
// allocation: context slots are ordinary heap objects with no DMA or
// physical-contiguity requirement, unlike the buffers package dma
// manages for USB/peripheral transfers, so no custom allocator is
// warranted here (see DESIGN.md).
type Allocator interface {
	ZallocSlot() (*ContextSlot, error)
	Free(*ContextSlot)
}

// HeapAllocator is the default Allocator, backed directly by the Go
// runtime heap.
type HeapAllocator struct{}

func (HeapAllocator) ZallocSlot() (*ContextSlot, error) {
	return &ContextSlot{}, nil
}

func (HeapAllocator) Free(*ContextSlot) {}
