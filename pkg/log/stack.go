// pkg/log/stack.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package log

import (
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

type StackFrame struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Function string `json:"function"`
}

func (f StackFrame) String() string {
	return f.File + ":" + strconv.Itoa(f.Line) + ":" + f.Function
}

// Stack is a list of frames, innermost first. It logs as a list of
// "file:line:function" strings so that the JSON logs stay compact.
type Stack []StackFrame

func (s Stack) LogValue() slog.Value {
	strs := make([]string, len(s))
	for i, f := range s {
		strs[i] = f.String()
	}
	return slog.AnyValue(strs)
}

// Callstack returns the stack of the function that called the logging
// method; fr is reused if it has enough capacity.
func Callstack(fr Stack) Stack {
	var callers [16]uintptr
	n := runtime.Callers(3, callers[:]) // skip up to function that is doing logging
	frames := runtime.CallersFrames(callers[:n])

	fr = fr[:0]
	for {
		frame, more := frames.Next()
		fn := strings.TrimPrefix(frame.Function, "github.com/mmp/chartplot/")
		fn = strings.TrimPrefix(fn, "main.")

		fr = append(fr, StackFrame{
			File:     filepath.Base(frame.File),
			Line:     frame.Line,
			Function: fn,
		})

		// Don't keep going up into go runtime stack frames.
		if !more || frame.Function == "main.main" || strings.HasPrefix(frame.Function, "testing.") {
			break
		}
	}
	return fr
}
