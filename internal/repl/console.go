/*
 * avrdbg - Interactive line reader
 *
 * Copyright 2026, The avrdbg authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package repl

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/peterh/liner"

	"github.com/avrdbg/avrem/internal/disasm"
)

// Run drives an interactive console over s, mirroring
// command/reader/reader.go's ConsoleReader: a liner prompt loop that
// feeds each line to Process until it reports quit or the prompt is
// aborted (Ctrl-D/Ctrl-C at the prompt itself).
//
// A SIGINT delivered while a step command is in flight is handled
// separately (execute.cpp installs/restores its own handler around
// CommandStep::Execute); here a single signal.Notify channel is armed
// for the lifetime of the session and simply sets Session.interrupt,
// which the step-over loop polls -- liner's own SetCtrlCAborts only
// covers Ctrl-C while waiting at the prompt, not mid-step.
func (s *Session) Run(prompt string) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT)
	defer signal.Stop(sigCh)
	go func() {
		for range sigCh {
			s.Interrupt()
		}
	}()

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Fprintln(s.Out, `type "?" for help`)

	for {
		header, _ := disasm.Render(s.Mcu, s.Mcu.PC)
		fmt.Fprintln(s.Out, header.String())

		cmd, err := line.Prompt(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return nil
			}
			return err
		}
		line.AppendHistory(cmd)

		quit, err := s.Process(cmd)
		if err != nil {
			fmt.Fprintln(s.Out, "error:", err)
		}
		if quit {
			return nil
		}
	}
}
