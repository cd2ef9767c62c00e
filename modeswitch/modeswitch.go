// Domain Context Manager
// https://github.com/usbarmory/tamago-dcm
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package modeswitch implements the Domain Context Manager's ModeSwitcher
// collaborator over a RISC-V core's mret-based privilege transition. It
// exists as its own package, rather than a method on riscv64.CPU, because
// dcm already imports riscv64 for CSR and trap frame types: riscv64 cannot
// import dcm.PrivilegeMode back without a cycle.
package modeswitch

import (
	"github.com/usbarmory/tamago-dcm/dcm"
	"github.com/usbarmory/tamago-dcm/riscv64"
)

// CoreSwitcher implements dcm.ModeSwitcher by dropping the calling hart
// from machine mode into a domain's entry point with an mret.
type CoreSwitcher struct {
	CPU *riscv64.CPU
}

// JumpTo never returns.
func (s *CoreSwitcher) JumpTo(addr uint64, mode dcm.PrivilegeMode, a0 uint64, a1 uint64) {
	mpp := uint64(riscv64.MSTATUS_MPP_U)
	if mode == dcm.PrivilegeSupervisor {
		mpp = riscv64.MSTATUS_MPP_S
	}

	s.CPU.EnterMode(addr, mpp, a0, a1)
}
