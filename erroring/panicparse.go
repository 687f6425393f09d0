package erroring

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/maruel/panicparse/v2/stack"
)

// PrintTrace uses panicparse to print a readable panic stack, filtered down
// to this module's own frames.
// See https://pkg.go.dev/github.com/maruel/panicparse/v2/stack
func PrintTrace() {
	var stream = bytes.NewReader(debug.Stack())

	var s, suffix, err = stack.ScanSnapshot(stream, os.Stderr, stack.DefaultOpts())
	if err != nil && err != io.EOF {
		panic(err)
	}

	// Group similar goroutine traces into buckets.
	var buckets = s.Aggregate(stack.AnyValue).Buckets

	// Calculate alignment.
	var colLen = 0
	for _, bucket := range buckets {
		for _, line := range filterCalls(bucket.Signature.Stack.Calls) {
			if l := len(formatFilename(line)); l > colLen {
				colLen = l
			}
		}
	}

	for _, bucket := range buckets {
		var extra = ""
		if s := bucket.SleepString(); s != "" {
			extra += " [" + s + "]"
		}
		if bucket.Locked {
			extra += " [locked]"
		}
		if len(bucket.CreatedBy.Calls) != 0 {
			extra += fmt.Sprintf(" [Created by %s.%s @ %s:%d]",
				bucket.CreatedBy.Calls[0].Func.DirName,
				bucket.CreatedBy.Calls[0].Func.Name,
				bucket.CreatedBy.Calls[0].SrcName,
				bucket.CreatedBy.Calls[0].Line,
			)
		}
		fmt.Fprintf(os.Stderr, "%d: %s%s\n", len(bucket.IDs), bucket.State, extra)

		for _, line := range filterCalls(bucket.Signature.Stack.Calls) {
			fmt.Fprintln(os.Stderr, formatCall(line, colLen))
		}
		if bucket.Stack.Elided {
			io.WriteString(os.Stderr, "    (...) (elided)\n")
		}
	}

	// If there was any remaining data in the pipe, dump it now.
	if len(suffix) != 0 {
		os.Stderr.Write(suffix)
	}
	if err == nil {
		io.Copy(os.Stderr, stream)
	}
}

// filterCalls drops every frame above the stdlib panic call and every frame
// that belongs to neither package main nor this module.
func filterCalls(lines []stack.Call) []stack.Call {
	var ret []stack.Call
	var sawStdlibPanic = false
	for _, line := range lines {
		if !sawStdlibPanic {
			if line.Func.DirName == "" && line.SrcName == "panic.go" {
				sawStdlibPanic = true
			}
			continue
		}
		if line.Func.IsPkgMain {
			ret = append(ret, line)
			continue
		}
		if strings.HasPrefix(line.ImportPath, "github.com/hagabaka/rbot-plugins") {
			ret = append(ret, line)
			continue
		}
	}
	return ret
}

func formatCall(line stack.Call, colLen int) string {
	return fmt.Sprintf(
		"    %-*s %s(...)",
		colLen,
		formatFilename(line),
		line.Func.Name,
	)
}

func formatFilename(line stack.Call) string {
	return fmt.Sprintf("%s/%s:%d", line.Func.DirName, line.SrcName, line.Line)
}
