// Domain Context Manager
// https://github.com/usbarmory/tamago-dcm
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package dcm

import (
	"errors"
	"fmt"

	"github.com/usbarmory/tamago-dcm/dcm/sbierr"
)

// codedError pairs an internal, descriptive Go error with the SBI status
// code the ecall boundary should surface for it. Internal code stays
// Go-shaped; only the boundary asks for the raw code (§10 AMBIENT STACK).
type codedError struct {
	code sbierr.Code
	msg  string
}

func (e *codedError) Error() string     { return e.msg }
func (e *codedError) Code() sbierr.Code { return e.code }

func newError(code sbierr.Code, format string, args ...interface{}) error {
	return &codedError{code: code, msg: fmt.Sprintf(format, args...)}
}

// Code extracts the SBI status code an ecall dispatcher should return for
// err. nil maps to sbierr.Success; any error not produced by this package
// maps to sbierr.EINVAL, per the propagation policy that nothing inside
// the Domain Context Manager is retried (spec §7).
func Code(err error) sbierr.Code {
	if err == nil {
		return sbierr.Success
	}

	var ce *codedError
	if errors.As(err, &ce) {
		return ce.code
	}

	return sbierr.EINVAL
}
