// RISC-V 64-bit processor support
// https://github.com/usbarmory/tamago
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package riscv64

// mstatus.MPP encodes the privilege mode mret resumes into
// (3.1.6.1 Privilege and Global Interrupt-Enable Stack in mstatus,
// RISC-V Privileged Architectures V20211203).
const (
	MSTATUS_MPP_U = 0
	MSTATUS_MPP_S = 1
)

// defined in modeswitch.s: loads addr into mepc, mpp into mstatus.MPP,
// a0/a1 into the argument registers, then executes mret. Never returns.
func enter_mode(addr uint64, mpp uint64, a0 uint64, a1 uint64)

// defined in modeswitch.s: executes wfi and returns once an interrupt is
// pending, without acting on it.
func wait_for_interrupt()

// EnterMode drops the calling hart from machine mode into mpp at addr,
// with a0 and a1 preloaded the way a domain entry point or SBI hart_start
// target expects. It never returns.
func (cpu *CPU) EnterMode(addr uint64, mpp uint64, a0 uint64, a1 uint64) {
	enter_mode(addr, mpp, a0, a1)
}

// WaitForInterrupt parks the calling hart until an interrupt becomes
// pending, for hart state-management drivers that park a hart between
// HartStart calls rather than spin-polling MSIP.
func WaitForInterrupt() {
	wait_for_interrupt()
}
