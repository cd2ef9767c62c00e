// Domain Context Manager
// https://github.com/usbarmory/tamago-dcm
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package pmp adapts the two PMP-capable backends available on SiFive
// RISC-V platforms to the dcm.PMPDriver interface the Switcher consumes:
// the core's own PMP CSRs (riscv64.CPU) and, where present, a SiFive
// Physical Filter device PMP guarding a bus master outside the core.
package pmp

import (
	"fmt"

	"github.com/usbarmory/tamago-dcm/dcm"
	"github.com/usbarmory/tamago-dcm/riscv64"
	"github.com/usbarmory/tamago-dcm/soc/sifive/physicalfilter"
)

// CoreDriver implements dcm.PMPDriver over a hart's own PMP CSRs.
type CoreDriver struct {
	CPU *riscv64.CPU
}

func (d *CoreDriver) Count() int {
	return riscv64.NumPMP
}

func (d *CoreDriver) Disable(i int) error {
	return d.CPU.DisablePMP(i)
}

func (d *CoreDriver) Configure(regions []dcm.PMPRegion) error {
	if len(regions) > riscv64.NumPMP {
		return fmt.Errorf("pmp: %d regions exceed %d core PMP entries", len(regions), riscv64.NumPMP)
	}

	for i, r := range regions {
		a, addr := encodeRange(r.Base, r.Size)

		if err := d.CPU.WritePMP(i, addr, r.Read, r.Write, r.Exec, a, r.Lock); err != nil {
			return fmt.Errorf("pmp: core entry %d: %w", i, err)
		}
	}

	return nil
}

// DeviceFilterDriver implements dcm.PMPDriver over a SiFive Physical
// Filter, the device-side PMP guarding a non-core bus master (spec §5,
// shared resources outside the hart itself).
type DeviceFilterDriver struct {
	Filter *physicalfilter.PhysicalFilter
}

func (d *DeviceFilterDriver) Count() int {
	return d.Filter.Count()
}

func (d *DeviceFilterDriver) Disable(i int) error {
	return d.Filter.Disable(i)
}

func (d *DeviceFilterDriver) Configure(regions []dcm.PMPRegion) error {
	if len(regions) > d.Filter.Count() {
		return fmt.Errorf("pmp: %d regions exceed %d device filter entries", len(regions), d.Filter.Count())
	}

	for i, r := range regions {
		tor := r.Size > 0

		if err := d.Filter.WritePMP(i, r.Base, r.Read, r.Write, tor, r.Lock); err != nil {
			return fmt.Errorf("pmp: device filter entry %d: %w", i, err)
		}
	}

	return nil
}

// encodeRange picks the narrowest addressing mode the core PMP CSRs
// support for a base/size region: NAPOT for power-of-two aligned
// regions. TOR (top-of-range, encoded against entry i-1's address) is
// left to the caller since it needs neighboring-entry context this
// per-region helper does not have, so only NAPOT is attempted here and
// a zero-size region is treated as OFF. WritePMP shifts the returned
// addr right by 2 itself, so encodeRange returns it unshifted (3.7.1.3,
// RISC-V Privileged Architectures V20211203).
func encodeRange(base, size uint64) (a int, addr uint64) {
	if size == 0 {
		return riscv64.PMP_A_OFF, base
	}

	return riscv64.PMP_A_NAPOT, base | ((size >> 1) - 1)
}
