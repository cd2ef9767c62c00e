// Domain Context Manager
// https://github.com/usbarmory/tamago-dcm
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package dcm implements the Domain Context Manager: synchronous,
// cooperative switching of a RISC-V hart between mutually-isolated
// firmware domains, as consumed by an SBI ecall dispatcher.
package dcm

import (
	"fmt"

	"github.com/usbarmory/tamago-dcm/console"
)

// Engine owns every context slot and per-hart lookup the Domain Context
// Manager manages. It is not a global: a board wires one instance with
// its concrete collaborators (spec §6), and tests wire one with fakes.
type Engine struct {
	domains []*Domain
	root    *Domain

	hsm        HSM
	modeSwitch ModeSwitcher
	alloc      Allocator
	console    console.Writer

	hartState [MaxHarts]HartState
	pmp       [MaxHarts]PMPDriver
	current   [MaxHarts]*ContextSlot

	everAssigned [MaxHarts]bool
	initDone     bool
}

// NewEngine creates an Engine over the given domain set. root must be one
// of domains. hsm, modeSwitch and alloc are the global collaborators; per
// hart CSR/PMP access is registered separately with RegisterHart, since
// those are hart-local hardware (spec §5, "Shared resources").
func NewEngine(domains []*Domain, root *Domain, hsm HSM, modeSwitch ModeSwitcher, alloc Allocator) *Engine {
	if alloc == nil {
		alloc = HeapAllocator{}
	}

	return &Engine{
		domains:    domains,
		root:       root,
		hsm:        hsm,
		modeSwitch: modeSwitch,
		alloc:      alloc,
		console:    console.Discard,
	}
}

// SetConsole wires the diagnostic sink used for init-time failures and
// boot-chain tracing.
func (e *Engine) SetConsole(w console.Writer) {
	if w == nil {
		w = console.Discard
	}
	e.console = w
}

// RegisterHart wires the per-hart CSR/trap-frame and PMP collaborators for
// hart h. It must be called for every hart before Init.
func (e *Engine) RegisterHart(h int, hs HartState, pmp PMPDriver) {
	e.hartState[h] = hs
	e.pmp[h] = pmp
}

// ThisHartContextPtr returns the context slot currently active on hart h.
func (e *Engine) ThisHartContextPtr(h int) *ContextSlot {
	if h < 0 || h >= MaxHarts {
		return nil
	}
	return e.current[h]
}

func (e *Engine) logf(format string, args ...interface{}) {
	e.console.Printf(format, args...)
}

func (e *Engine) diagnosef(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	e.logf("dcm: %s\n", msg)
	return fmt.Errorf("%s", msg)
}
