// Domain Context Manager
// https://github.com/usbarmory/tamago-dcm
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package dcm

import (
	"sync/atomic"

	"github.com/usbarmory/tamago-dcm/bits"
)

// MaxHarts bounds the hart indices a Hartmask can represent, matching the
// 64-bit width of a single mask word (wider platforms would need a slice
// of words, not supported here).
const MaxHarts = 64

// Hartmask is a bitmask of hart indices, used for a domain's
// possible_harts and assigned_harts fields. Each bit is only ever
// mutated by the hart it represents (§5), so per-bit Set/Clear calls
// from different harts race-free as long as the underlying word access
// is atomic per bit, which Set and Clear provide with a compare-and-swap
// loop on the whole word.
type Hartmask uint64

// Test reports whether hart h is a member of the mask.
func (m Hartmask) Test(h int) bool {
	v := uint64(m)
	return bits.Get64(&v, h, 1) == 1
}

// Set adds hart h to the mask.
func (m *Hartmask) Set(h int) {
	p := (*uint64)(m)
	for {
		old := atomic.LoadUint64(p)
		v := old
		bits.Set64(&v, h)
		if atomic.CompareAndSwapUint64(p, old, v) {
			return
		}
	}
}

// Clear removes hart h from the mask.
func (m *Hartmask) Clear(h int) {
	p := (*uint64)(m)
	for {
		old := atomic.LoadUint64(p)
		v := old
		bits.Clear64(&v, h)
		if atomic.CompareAndSwapUint64(p, old, v) {
			return
		}
	}
}

// ForEach invokes fn for every hart index present in the mask, in
// ascending order.
func (m Hartmask) ForEach(fn func(h int)) {
	for h := 0; h < MaxHarts; h++ {
		if m.Test(h) {
			fn(h)
		}
	}
}

// Count returns the number of harts present in the mask.
func (m Hartmask) Count() int {
	n := 0
	m.ForEach(func(int) { n++ })
	return n
}
