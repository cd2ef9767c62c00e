// Domain Context Manager diagnostics console
// https://github.com/usbarmory/tamago-dcm
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package console provides the diagnostic output sink consumed by the
// Domain Context Manager for init-time failures and boot tracing. It does
// not implement the SBI debug console extension or any ecall-facing
// console: it is the internal equivalent of the bare print()/println()
// calls scattered through TamaGo's own exception handlers
// (riscv64.DefaultExceptionHandler), given a narrow interface so tests can
// substitute a buffer and boards can wire a real UART.
package console

import (
	"fmt"
	"io"
)

// Writer is the diagnostic sink the Domain Context Manager writes
// init-time failures and boot-chain traces to.
type Writer interface {
	Printf(format string, args ...interface{})
}

// IOWriter adapts any io.Writer (a UART driver, a bytes.Buffer in tests)
// into a Writer.
type IOWriter struct {
	W io.Writer
}

// Printf formats and writes a diagnostic line, ignoring write errors the
// same way TamaGo's print() builtin does on a stuck UART.
func (c *IOWriter) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.W, format, args...)
}

// Discard is a Writer that drops everything, used where no diagnostic sink
// has been wired yet.
var Discard Writer = discard{}

type discard struct{}

func (discard) Printf(string, ...interface{}) {}
