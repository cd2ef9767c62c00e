// Domain Context Manager SBI error codes
// https://github.com/usbarmory/tamago-dcm
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package sbierr carries the narrow slice of the SBI error enumeration the
// Domain Context Manager returns across its ecall-facing entry points. The
// ecall dispatcher that owns the full enumeration is out of scope for this
// module (see spec §1), so this package exists only to give the DCM a
// concrete, stable return type.
package sbierr

// Code is an SBI status/error code as returned by an SBI call.
type Code int32

// Subset of the SBI error enumeration used by the Domain Context Manager.
const (
	Success Code = 0
	EINVAL  Code = -3
	ENOMEM  Code = -7
)

func (c Code) Error() string {
	switch c {
	case Success:
		return "success"
	case EINVAL:
		return "invalid parameter"
	case ENOMEM:
		return "out of memory"
	default:
		return "unknown SBI error"
	}
}
