// Domain Context Manager
// https://github.com/usbarmory/tamago-dcm
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package dcm

import "github.com/usbarmory/tamago-dcm/dcm/sbierr"

// Enter switches hart h from its currently active context into target's
// context slot for h, recording the caller so Exit can return to it (spec
// §4.2). A target reached for the first time has an uninitialized slot;
// Enter hands off to the same startup path Exit's boot-chain advance
// uses rather than resuming meaningless saved state (see DESIGN.md for
// why Enter is lazy rather than strict about target.Initialized).
func (e *Engine) Enter(h int, target *Domain) error {
	if target == nil || !target.ContextMgmtEnabled {
		return newError(sbierr.EINVAL, "dcm: enter: domain is not context-managed")
	}

	domCtx := target.ContextSlot(h)
	if domCtx == nil {
		return newError(sbierr.EINVAL, "dcm: enter: domain %q has no context slot on hart %d", target.Name, h)
	}

	// Reentering the domain already active on h is not guarded: doSwitch's
	// same-slot check skips the switch, but the slot's next_ctx is
	// overwritten with a link to itself, so the caller link it held is
	// lost and the matching Exit does not return to that caller.
	ctx := e.current[h]
	domCtx.NextCtx = ctx

	wasInitialized := domCtx.Initialized

	if err := e.doSwitch(h, ctx, domCtx); err != nil {
		return err
	}

	if !wasInitialized {
		return e.startup(h, domCtx)
	}

	return nil
}
