// Domain Context Manager
// https://github.com/usbarmory/tamago-dcm
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package dcm

import "github.com/usbarmory/tamago-dcm/dcm/sbierr"

// Init allocates a context slot for every (context-managed domain, hart)
// pair and threads the per-hart boot-up chain that Exit walks to bring up
// every domain exactly once (spec §4.5). It must be called once, by the
// boot hart, before any Enter/Exit call. Calling it twice is not
// supported: a second call would leak the slots allocated by the first
// and is refused.
//
// Root is processed first, ahead of every other domain, rather than last
// as a naive single ordered pass would suggest. A hart can legitimately
// appear in more than one domain's declared assigned_harts (root, as
// "owner of anything not currently delegated", typically lists every
// hart it possibles, while a domain already delegated part of that set
// lists the same hart too). Processing root first gives every hart a
// chain anchor before any other domain runs, so a later domain's own
// claim to an already-anchored hart links onto that anchor instead of
// silently discarding it — without this, the chain root builds for a
// hart it shares with another domain never reaches that domain at all.
func (e *Engine) Init() error {
	if e.initDone {
		return newError(sbierr.EINVAL, "dcm: Init already run")
	}

	order := make([]*Domain, 0, len(e.domains))
	order = append(order, e.root)
	for _, d := range e.domains {
		if d != e.root {
			order = append(order, d)
		}
	}

	var tail [MaxHarts]*ContextSlot

	for _, d := range order {
		if !d.ContextMgmtEnabled {
			continue
		}

		allocated := make([]*ContextSlot, 0, d.PossibleHarts.Count())
		failed := false
		var failErr error

		d.PossibleHarts.ForEach(func(h int) {
			if failed {
				return
			}

			slot, err := e.alloc.ZallocSlot()
			if err != nil {
				failed = true
				failErr = newError(sbierr.ENOMEM, "dcm: out of memory allocating context for domain %q hart %d", d.Name, h)
				return
			}

			slot.Dom = d
			slot.HartIndex = h
			d.contextTable[h] = slot
			allocated = append(allocated, slot)

			switch {
			case d.AssignedHarts.Test(h):
				// Already running here by declaration: no
				// validation needed. Still link onto whatever
				// anchor an earlier domain (root) left for this
				// hart, so the hart remains reachable through
				// the chain instead of being orphaned by the
				// overwrite.
				if tail[h] != nil {
					tail[h].NextCtx = slot
				}
				tail[h] = slot
				e.everAssigned[h] = true

			case d == e.root:
				// Root never needs to "start" a fresh boot; it
				// is already the running environment. Its slot
				// anchors this hart's chain, assigned or not;
				// Exit falls back to it once the chain runs out.
				if tail[h] != nil {
					tail[h].NextCtx = slot
				}
				tail[h] = slot

			default:
				if !d.AssignedHarts.Test(d.BootHartID) {
					failed = true
					failErr = newError(sbierr.EINVAL, "dcm: domain %q boot hart %d is not in its own assigned_harts", d.Name, d.BootHartID)
					return
				}

				if tail[h] == nil {
					failed = true
					failErr = newError(sbierr.EINVAL, "dcm: domain %q on hart %d: domain contexts will never be started up", d.Name, h)
					return
				}

				tail[h].NextCtx = slot
				tail[h] = slot
			}
		})

		if failed {
			for _, s := range allocated {
				d.contextTable[s.HartIndex] = nil
				e.alloc.Free(s)
			}
			e.logf("dcm: init failed for domain %q: %v\n", d.Name, failErr)
			return failErr
		}
	}

	// Every hart starts out running root: cold boot brings up M-mode
	// firmware before any domain has been delegated anything.
	e.root.PossibleHarts.ForEach(func(h int) {
		if slot := e.root.contextTable[h]; slot != nil {
			e.current[h] = slot
		}
	})

	e.initDone = true

	return nil
}
