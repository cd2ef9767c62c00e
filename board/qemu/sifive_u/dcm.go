// QEMU virt support for tamago/riscv64
// https://github.com/usbarmory/tamago
//
// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package sifive_u

import (
	"github.com/usbarmory/tamago-dcm/console"
	"github.com/usbarmory/tamago-dcm/dcm"
	"github.com/usbarmory/tamago-dcm/hsm"
	"github.com/usbarmory/tamago-dcm/modeswitch"
	"github.com/usbarmory/tamago-dcm/pmp"
	"github.com/usbarmory/tamago-dcm/riscv64"
	"github.com/usbarmory/tamago-dcm/soc/sifive/fu540"
)

// NewDCMEngine wires a Domain Context Manager over this board's real
// hardware: the FU540 RV64 core for CSR/trap frame access, core PMP
// entries and mode switching, its CLINT for hart state-management, and
// UART0 for diagnostics. The single U54 core this package targets (see
// package doc) means only hart 0 is registered; a multi-core sifive_u
// configuration would call RegisterHart again per additional hart, each
// with its own riscv64.CPU.
//
// domains and root carry the deployment's domain policy (typically loaded
// with dcm.LoadDomainSet from a manifest baked into the firmware image):
// the board only supplies collaborators, never policy.
func NewDCMEngine(domains []*dcm.Domain, root *dcm.Domain) *dcm.Engine {
	hartStates := &hsm.CLINTDriver{
		CLINT:            fu540.CLINT,
		WaitForInterrupt: func(int) { riscv64.WaitForInterrupt() },
	}

	e := dcm.NewEngine(domains, root, hartStates, &modeswitch.CoreSwitcher{CPU: fu540.RV64}, nil)
	e.SetConsole(console.UART(fu540.UART0))
	e.RegisterHart(0, fu540.RV64, &pmp.CoreDriver{CPU: fu540.RV64})

	return e
}
