// Domain Context Manager
// https://github.com/usbarmory/tamago-dcm
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package dcm

import "github.com/usbarmory/tamago-dcm/dcm/sbierr"

// startup brings a fresh, never-before-initialized domain context onto a
// hart (spec §4.4). After a switch into an uninitialized slot the
// restored mepc/mstatus are meaningless, so control is handed to the
// domain's configured boot entry point instead of being resumed.
func (e *Engine) startup(h int, target *ContextSlot) error {
	d := target.Dom

	allObserved := true
	d.PossibleHarts.ForEach(func(ph int) {
		if !e.everAssigned[ph] {
			allObserved = false
		}
	})

	if !allObserved {
		// This hart cannot meaningfully start the domain yet: some
		// hart the domain may run on has never been assigned
		// anywhere, so the domain's view of the system is
		// incomplete. Park until woken.
		e.hsm.HartStop(h, true)
		return nil
	}

	if h == d.BootHartID {
		// Never returns on real hardware: control transfers to the
		// domain's entry point in its target privilege mode.
		e.modeSwitch.JumpTo(d.NextAddr, d.NextMode, uint64(h), d.NextArg1)
		return nil
	}

	if err := e.hsm.HartStart(d.BootHartID, d.NextAddr, d.NextMode, d.NextArg1); err != nil {
		return newError(sbierr.EINVAL, "dcm: startup: hart_start boot hart %d for domain %q: %v", d.BootHartID, d.Name, err)
	}

	e.hsm.HartStop(h, true)

	return nil
}
