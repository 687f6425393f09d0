package expander_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hagabaka/rbot-plugins/shell/expander"
	"github.com/hagabaka/rbot-plugins/shell/parser"
)

// recordingRun wraps f and records every command it is invoked with, in
// invocation order.
func recordingRun(calls *[]string, f func(string) (string, error)) expander.RunFunc {
	return func(command string) (string, error) {
		*calls = append(*calls, command)
		return f(command)
	}
}

func upper(command string) (string, error) {
	return strings.ToUpper(command), nil
}

func mustParse(tt *testing.T, src string) *parser.Cmd {
	tt.Helper()
	var root, err = parser.NewParser().ParseString(src)
	if err != nil {
		tt.Fatalf("cannot parse %q: %v", src, err)
	}
	return root
}

func TestLiteralOnlyRoundTrip(tt *testing.T) {
	var testCases = []string{
		`just some plain text!`,
		`no markers here, 100% literal`,
		``,
	}
	for _, src := range testCases {
		var calls []string
		var got, err = expander.NewExpander().Expand(mustParse(tt, src), recordingRun(&calls, upper))
		if err != nil {
			tt.Fatalf("expand failed src=%q: %v", src, err)
		}
		if got != src {
			tt.Errorf("want %q back unchanged, got %q", src, got)
		}
		if len(calls) != 0 {
			tt.Errorf("run must not be called for literal-only input %q, got calls %v", src, calls)
		}
	}
}

func TestEscapedMarkers(tt *testing.T) {
	var calls []string
	var got, err = expander.NewExpander().Expand(mustParse(tt, `\$(foo\)`), recordingRun(&calls, upper))
	if err != nil {
		tt.Fatalf("expand failed: %v", err)
	}
	if want := `$(foo)`; got != want {
		tt.Errorf("want %q, got %q", want, got)
	}
	if len(calls) != 0 {
		tt.Errorf("run must not be called, got calls %v", calls)
	}
}

func TestSingleInterpolation(tt *testing.T) {
	var calls []string
	var got, err = expander.NewExpander().Expand(mustParse(tt, `a $(b) c`), recordingRun(&calls, upper))
	if err != nil {
		tt.Fatalf("expand failed: %v", err)
	}
	if want := `a B c`; got != want {
		tt.Errorf("want %q, got %q", want, got)
	}
	if diff := cmp.Diff([]string{`b`}, calls); diff != "" {
		tt.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

// The inner command is fully substituted before the enclosing run call, so
// the outer invocation must observe the inner result already spliced in.
func TestNestedInnermostFirst(tt *testing.T) {
	var calls []string
	var got, err = expander.NewExpander().Expand(mustParse(tt, `$(f $(g))`), recordingRun(&calls, upper))
	if err != nil {
		tt.Fatalf("expand failed: %v", err)
	}
	if want := `F G`; got != want {
		tt.Errorf("want %q, got %q", want, got)
	}
	if diff := cmp.Diff([]string{`g`, `f G`}, calls); diff != "" {
		tt.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestSiblingsLeftToRight(tt *testing.T) {
	var calls []string
	var got, err = expander.NewExpander().Expand(mustParse(tt, `$(a)-$(b)-$(c)`), recordingRun(&calls, upper))
	if err != nil {
		tt.Fatalf("expand failed: %v", err)
	}
	if want := `A-B-C`; got != want {
		tt.Errorf("want %q, got %q", want, got)
	}
	if diff := cmp.Diff([]string{`a`, `b`, `c`}, calls); diff != "" {
		tt.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyInterpolation(tt *testing.T) {
	var calls []string
	var run = recordingRun(&calls, func(string) (string, error) { return `out`, nil })
	var got, err = expander.NewExpander().Expand(mustParse(tt, `$()`), run)
	if err != nil {
		tt.Fatalf("expand failed: %v", err)
	}
	if want := `out`; got != want {
		tt.Errorf("want %q, got %q", want, got)
	}
	if diff := cmp.Diff([]string{``}, calls); diff != "" {
		tt.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestFailFast(tt *testing.T) {
	var sentinel = errors.New("command a is broken")
	var calls []string
	var run = recordingRun(&calls, func(command string) (string, error) {
		if command == `a` {
			return "", sentinel
		}
		return command, nil
	})
	var _, err = expander.NewExpander().Expand(mustParse(tt, `$(a) $(b)`), run)
	if !errors.Is(err, sentinel) {
		tt.Fatalf("want the run error back unmodified, got %v", err)
	}
	if diff := cmp.Diff([]string{`a`}, calls); diff != "" {
		tt.Errorf("run must not be called after a failure (-want +got):\n%s", diff)
	}
}

func TestMaxDepth(tt *testing.T) {
	var calls []string
	var e = expander.NewExpander()
	e.SetMaxDepth(3)
	var _, err = e.Expand(mustParse(tt, `$($($($(x))))`), recordingRun(&calls, upper))
	var depthErr *expander.DepthError
	if !errors.As(err, &depthErr) {
		tt.Fatalf("want a *DepthError, got %v", err)
	}
	if depthErr.Max != 3 {
		tt.Errorf("want Max=3, got %d", depthErr.Max)
	}
	if len(calls) != 0 {
		tt.Errorf("run must not be called once the limit is hit, got calls %v", calls)
	}

	// three levels fit exactly
	calls = nil
	var got, okErr = e.Expand(mustParse(tt, `$($($(x)))`), recordingRun(&calls, upper))
	if okErr != nil {
		tt.Fatalf("expand failed: %v", okErr)
	}
	if want := `X`; got != want {
		tt.Errorf("want %q, got %q", want, got)
	}
}

func TestUnlimitedDepth(tt *testing.T) {
	var depth = expander.DefaultMaxDepth + 7
	var src = strings.Repeat(`$(`, depth) + `x` + strings.Repeat(`)`, depth)

	var _, limitedErr = expander.NewExpander().Expand(mustParse(tt, src), upper)
	var depthErr *expander.DepthError
	if !errors.As(limitedErr, &depthErr) {
		tt.Fatalf("want a *DepthError from the default limit, got %v", limitedErr)
	}

	var e = expander.NewExpander()
	e.SetMaxDepth(0)
	var got, err = e.Expand(mustParse(tt, src), upper)
	if err != nil {
		tt.Fatalf("expand failed with the limit disabled: %v", err)
	}
	if want := `X`; got != want {
		tt.Errorf("want %q, got %q", want, got)
	}
}

func TestExpandString(tt *testing.T) {
	var got, err = expander.ExpandString(`a $(b) c`, upper)
	if err != nil {
		tt.Fatalf("expand failed: %v", err)
	}
	if want := `a B c`; got != want {
		tt.Errorf("want %q, got %q", want, got)
	}

	var _, parseErr = expander.ExpandString(`$(unterminated`, upper)
	var pe *parser.ParseError
	if !errors.As(parseErr, &pe) {
		tt.Fatalf("want the *ParseError back unmodified, got %v", parseErr)
	}
}
