// Domain Context Manager
// https://github.com/usbarmory/tamago-dcm
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package pmp

import (
	"testing"

	"github.com/usbarmory/tamago-dcm/dcm"
	"github.com/usbarmory/tamago-dcm/riscv64"
	"github.com/usbarmory/tamago-dcm/soc/sifive/physicalfilter"
)

func TestEncodeRangeOff(t *testing.T) {
	a, addr := encodeRange(0x80000000, 0)
	if a != riscv64.PMP_A_OFF {
		t.Fatalf("expected OFF mode for zero size, got %d", a)
	}
	if addr != 0x80000000 {
		t.Fatalf("expected base address passed through, got %#x", addr)
	}
}

func TestEncodeRangeNAPOT(t *testing.T) {
	// 1 MiB region at 0x80200000: NAPOT encodes base | (size/2 - 1).
	a, addr := encodeRange(0x80200000, 0x100000)
	if a != riscv64.PMP_A_NAPOT {
		t.Fatalf("expected NAPOT mode, got %d", a)
	}
	want := uint64(0x80200000) | (0x80000 - 1)
	if addr != want {
		t.Fatalf("unexpected NAPOT encoding: got %#x, want %#x", addr, want)
	}
}

func TestCoreDriverRejectsTooManyRegions(t *testing.T) {
	d := &CoreDriver{CPU: &riscv64.CPU{}}

	regions := make([]dcm.PMPRegion, riscv64.NumPMP+1)
	if err := d.Configure(regions); err == nil {
		t.Fatalf("expected error for region count exceeding core PMP entries")
	}
}

func TestDeviceFilterDriverRejectsTooManyRegions(t *testing.T) {
	d := &DeviceFilterDriver{Filter: &physicalfilter.PhysicalFilter{}}

	regions := make([]dcm.PMPRegion, d.Count()+1)
	if err := d.Configure(regions); err == nil {
		t.Fatalf("expected error for region count exceeding device filter entries")
	}
}
