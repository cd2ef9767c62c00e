// Domain Context Manager
// https://github.com/usbarmory/tamago-dcm
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package hsm

import (
	"errors"
	"testing"

	"github.com/usbarmory/tamago-dcm/dcm"
)

func TestFakeRecordsStartsAndStops(t *testing.T) {
	f := &Fake{}

	if err := f.HartStart(1, 0x80200000, dcm.PrivilegeSupervisor, 0xcafe); err != nil {
		t.Fatalf("HartStart: %v", err)
	}
	f.HartStop(1, false)

	if len(f.Starts) != 1 || f.Starts[0].HartID != 1 || f.Starts[0].Addr != 0x80200000 {
		t.Fatalf("unexpected Starts: %+v", f.Starts)
	}
	if len(f.Stopped) != 1 || f.Stopped[0] != 1 {
		t.Fatalf("unexpected Stopped: %+v", f.Stopped)
	}
}

func TestFakeStartErr(t *testing.T) {
	f := &Fake{StartErr: errors.New("boom")}

	if err := f.HartStart(0, 0, dcm.PrivilegeUser, 0); err == nil {
		t.Fatalf("expected StartErr to be returned")
	}
	if len(f.Starts) != 0 {
		t.Fatalf("expected no recorded start when StartErr is set")
	}
}
