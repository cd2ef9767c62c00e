// RISC-V 64-bit processor support
// https://github.com/usbarmory/tamago
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package riscv64

import "unsafe"

// TrapFrame mirrors the general-purpose register save area built by the
// trap entry assembly, plus the two machine-mode CSRs (mepc, mstatus)
// needed to resume the interrupted context. x0 is included, at offset
// zero, purely to keep the layout register-index aligned; it is never
// read back.
type TrapFrame struct {
	Zero uint64
	RA   uint64
	SP   uint64
	GP   uint64
	TP   uint64
	T0   uint64
	T1   uint64
	T2   uint64
	S0   uint64
	S1   uint64
	A0   uint64
	A1   uint64
	A2   uint64
	A3   uint64
	A4   uint64
	A5   uint64
	A6   uint64
	A7   uint64
	S2   uint64
	S3   uint64
	S4   uint64
	S5   uint64
	S6   uint64
	S7   uint64
	S8   uint64
	S9   uint64
	S10  uint64
	S11  uint64
	T3   uint64
	T4   uint64
	T5   uint64
	T6   uint64

	MEPC    uint64
	MSTATUS uint64
}

// TrapFrameSize is the size in bytes of the live trap frame that precedes
// mscratch in the per-hart scratch layout.
const TrapFrameSize = unsafe.Sizeof(TrapFrame{})

// CurrentTrapFrame locates the live trap frame for this hart by subtracting
// its size from the current mscratch value, matching the layout the trap
// entry/exit assembly assumes.
func (cpu *CPU) CurrentTrapFrame() *TrapFrame {
	addr := read_mscratch() - uint64(TrapFrameSize)
	return (*TrapFrame)(unsafe.Pointer(uintptr(addr)))
}
