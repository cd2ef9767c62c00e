// Domain Context Manager
// https://github.com/usbarmory/tamago-dcm
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package hsm

import "github.com/usbarmory/tamago-dcm/dcm"

// StartCall records one HartStart invocation, for assertions in tests
// that do not want to drive a real CLINT.
type StartCall struct {
	HartID int
	Addr   uint64
	Mode   dcm.PrivilegeMode
	Arg1   uint64
}

// Fake is an in-memory dcm.HSM for unit tests: it never blocks and never
// touches hardware, only records what it was asked to do.
type Fake struct {
	Starts  []StartCall
	Stopped []int

	// StartErr, if set, is returned by every HartStart call instead of
	// recording it.
	StartErr error
}

func (f *Fake) HartStart(hartID int, addr uint64, mode dcm.PrivilegeMode, arg1 uint64) error {
	if f.StartErr != nil {
		return f.StartErr
	}

	f.Starts = append(f.Starts, StartCall{HartID: hartID, Addr: addr, Mode: mode, Arg1: arg1})

	return nil
}

func (f *Fake) HartStop(hartID int, block bool) {
	f.Stopped = append(f.Stopped, hartID)
}
