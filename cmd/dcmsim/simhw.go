// Domain Context Manager
// https://github.com/usbarmory/tamago-dcm
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/usbarmory/tamago-dcm/dcm"
	"github.com/usbarmory/tamago-dcm/riscv64"
)

// simHartState is an in-memory dcm.HartState standing in for the real
// CSRRW-backed one a board wires: there is no hart to trap into outside a
// TamaGo unikernel, so CSRs and the trap frame just live as plain fields.
type simHartState struct {
	csr   [int(riscv64.CSR_SENVCFG) + 1]uint64
	frame riscv64.TrapFrame
}

func (s *simHartState) SwapCSR(csr riscv64.CSR, val uint64) uint64 {
	old := s.csr[csr]
	s.csr[csr] = val
	return old
}

func (s *simHartState) CurrentTrapFrame() *riscv64.TrapFrame {
	return &s.frame
}

// simPMP is an in-memory dcm.PMPDriver that prints the regions it is asked
// to install instead of touching PMP CSRs.
type simPMP struct {
	n int
}

func (p *simPMP) Count() int { return p.n }

func (p *simPMP) Disable(i int) error {
	return nil
}

func (p *simPMP) Configure(regions []dcm.PMPRegion) error {
	if len(regions) > p.n {
		return fmt.Errorf("simpmp: %d regions exceed %d entries", len(regions), p.n)
	}
	for i, r := range regions {
		fmt.Printf("  pmp[%d] = base=%#x size=%#x r=%v w=%v x=%v\n", i, r.Base, r.Size, r.Read, r.Write, r.Exec)
	}
	return nil
}

// simModeSwitcher prints the jump a real core would mret into instead of
// performing one.
type simModeSwitcher struct{}

func (*simModeSwitcher) JumpTo(addr uint64, mode dcm.PrivilegeMode, a0 uint64, a1 uint64) {
	fmt.Printf("  jump_to addr=%#x mode=%d a0=%#x a1=%#x\n", addr, mode, a0, a1)
}

// simHSM is a dcm.HSM that never blocks, printing start/stop requests
// instead of driving a CLINT.
type simHSM struct{}

func (*simHSM) HartStart(hartID int, addr uint64, mode dcm.PrivilegeMode, arg1 uint64) error {
	fmt.Printf("  hart_start hart=%d addr=%#x mode=%d arg1=%#x\n", hartID, addr, mode, arg1)
	return nil
}

func (*simHSM) HartStop(hartID int, block bool) {
	fmt.Printf("  hart_stop hart=%d block=%v\n", hartID, block)
}
