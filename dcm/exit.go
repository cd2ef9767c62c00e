// Domain Context Manager
// https://github.com/usbarmory/tamago-dcm
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package dcm

import "github.com/usbarmory/tamago-dcm/dcm/sbierr"

// Exit leaves the context currently active on hart h (spec §4.3). The
// successor is chosen in order:
//
//  1. The slot's next_ctx, if non-nil. Enter sets this to the caller's
//     slot before switching in, so a domain that was entered returns to
//     whoever entered it. A domain reached only through the boot-up
//     chain was never entered this way; for it next_ctx still holds the
//     link Init threaded, so the same field carries the hart to the
//     next domain in the chain instead.
//  2. Root's slot for h, once the chain is exhausted (next_ctx nil).
//
// If the chosen successor has never run, doSwitch leaves its restored
// register state meaningless and Exit hands off to startup instead of
// returning control to it.
func (e *Engine) Exit(h int) error {
	ctx := e.current[h]
	if ctx == nil {
		return newError(sbierr.EINVAL, "dcm: exit: hart %d has no active context", h)
	}

	next := ctx.NextCtx
	if next != nil {
		ctx.NextCtx = nil
	} else {
		next = e.root.ContextSlot(h)
		if next == nil {
			return newError(sbierr.EINVAL, "dcm: exit: hart %d: root has no context slot to fall back to", h)
		}
	}

	wasInitialized := next.Initialized

	if err := e.doSwitch(h, ctx, next); err != nil {
		return err
	}

	if !wasInitialized {
		return e.startup(h, next)
	}

	return nil
}
