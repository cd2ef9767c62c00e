// SiFive Core-Local Interruptor (CLINT) driver
// https://github.com/usbarmory/tamago
//
// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package clint

import (
	"github.com/usbarmory/tamago-dcm/internal/reg"
)

// MSIP base offset, one 32-bit word per hart
// (p14, 8 Core Local Interruptor (CLINT), FU540C00RM).
const MSIP = 0x0000

// SendIPI raises a machine-mode software interrupt on the target hart,
// waking it from an hsm_hart_stop WFI loop.
func (hw *CLINT) SendIPI(hartID int) {
	reg.Write(uint32(hw.Base+MSIP)+uint32(hartID*4), 1)
}

// ClearIPI acknowledges a pending machine-mode software interrupt on the
// target hart.
func (hw *CLINT) ClearIPI(hartID int) {
	reg.Write(uint32(hw.Base+MSIP)+uint32(hartID*4), 0)
}
