// Domain Context Manager diagnostics console
// https://github.com/usbarmory/tamago-dcm
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package console

import "github.com/usbarmory/tamago-dcm/soc/sifive/uart"

// UART wraps a SiFive UART instance as a diagnostic Writer, for boards that
// route DCM diagnostics to the same serial port as the rest of the boot
// log.
func UART(hw *uart.UART) Writer {
	return &IOWriter{W: hw}
}
