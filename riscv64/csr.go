// RISC-V 64-bit processor support
// https://github.com/usbarmory/tamago
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package riscv64

// CSR identifies one of the S-mode control and status registers tracked
// across a domain context switch.
type CSR int

// Tracked S-mode CSRs
// (4.1 Supervisor CSRs - RISC-V Privileged Architectures V20211203).
//
// stvec, sscratch, sie, sip and satp are the minimum set a context switch
// must preserve; sstatus, sepc, scause, stval, scounteren and senvcfg are
// preserved in addition for cores implementing newer privileged extensions.
const (
	CSR_STVEC CSR = iota
	CSR_SSCRATCH
	CSR_SIE
	CSR_SIP
	CSR_SATP
	CSR_SSTATUS
	CSR_SEPC
	CSR_SCAUSE
	CSR_STVAL
	CSR_SCOUNTEREN
	CSR_SENVCFG

	numCSR
)

// defined in csr.s: each swap_* helper executes a single CSRRW and returns
// the value it replaced, so a trap taken mid-exchange can never observe (or
// lose) a half-written CSR.
func swap_stvec(uint64) uint64
func swap_sscratch(uint64) uint64
func swap_sie(uint64) uint64
func swap_sip(uint64) uint64
func swap_satp(uint64) uint64
func swap_sstatus(uint64) uint64
func swap_sepc(uint64) uint64
func swap_scause(uint64) uint64
func swap_stval(uint64) uint64
func swap_scounteren(uint64) uint64
func swap_senvcfg(uint64) uint64

// defined in csr.s
func read_mscratch() uint64

var csrSwap = [numCSR]func(uint64) uint64{
	CSR_STVEC:      swap_stvec,
	CSR_SSCRATCH:   swap_sscratch,
	CSR_SIE:        swap_sie,
	CSR_SIP:        swap_sip,
	CSR_SATP:       swap_satp,
	CSR_SSTATUS:    swap_sstatus,
	CSR_SEPC:       swap_sepc,
	CSR_SCAUSE:     swap_scause,
	CSR_STVAL:      swap_stval,
	CSR_SCOUNTEREN: swap_scounteren,
	CSR_SENVCFG:    swap_senvcfg,
}

// SwapCSR atomically exchanges the live value of csr with val, returning the
// value it replaced.
func (cpu *CPU) SwapCSR(csr CSR, val uint64) uint64 {
	return csrSwap[csr](val)
}

// MSCRATCH returns the live value of the mscratch CSR, from which the
// current trap frame pointer is derived (mscratch - trap frame size).
func (cpu *CPU) MSCRATCH() uint64 {
	return read_mscratch()
}
