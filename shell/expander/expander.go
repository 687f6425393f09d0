// Package expander walks a parsed command tree and resolves every $(...)
// interpolation through a caller-supplied run function, innermost first.
package expander

import (
	"fmt"
	"os"
	"strings"

	"github.com/hagabaka/rbot-plugins/shell/parser"
)

// RunFunc dispatches one fully substituted command and returns its textual
// result. Its error is returned by Expand unmodified.
type RunFunc func(command string) (string, error)

// DefaultMaxDepth bounds interpolation nesting. The original behavior was
// unbounded; SetMaxDepth(0) restores it.
const DefaultMaxDepth = 100

type DepthError struct {
	Max int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("interpolation nested deeper than %d levels", e.Max)
}

type Expander struct {
	maxDepth int
	debug    bool
}

func NewExpander() *Expander {
	return &Expander{maxDepth: DefaultMaxDepth}
}

// SetMaxDepth sets the nesting limit. Zero disables the limit.
func (e *Expander) SetMaxDepth(n int) {
	e.maxDepth = n
}

func (e *Expander) SetDebug(v bool) {
	e.debug = v
}

// Expand returns root's value: child values concatenated in source order,
// where a literal's value is its decoded text and an interpolation's value
// is run applied to its fully expanded inner command. The first error stops
// the walk; nodes to the right of it are never evaluated and run is never
// called for them.
func (e *Expander) Expand(root *parser.Cmd, run RunFunc) (string, error) {
	return e.expandCmd(root, run, 0)
}

func (e *Expander) expandCmd(cmd *parser.Cmd, run RunFunc, depth int) (string, error) {
	var buf strings.Builder
	for _, item := range cmd.Items {
		var s, err = e.expandNode(item, run, depth)
		if err != nil {
			return "", err
		}
		buf.WriteString(s)
	}
	return buf.String(), nil
}

func (e *Expander) expandNode(node parser.CmdNode, run RunFunc, depth int) (string, error) {
	switch item := node.(type) {
	case parser.Lit:
		return item.Lit, nil
	case parser.Interp:
		if e.maxDepth > 0 && depth >= e.maxDepth {
			return "", &DepthError{Max: e.maxDepth}
		}
		var inner, err = e.expandCmd(item.Cmd, run, depth+1)
		if err != nil {
			return "", err
		}
		if e.debug {
			fmt.Fprintf(os.Stderr, "[debug] run %q (depth %d)\n", inner, depth)
		}
		return run(inner)
	case *parser.Cmd:
		return e.expandCmd(item, run, depth)
	default:
		return "", fmt.Errorf("unsupported node type %T", item)
	}
}

// ExpandString parses src and expands it in one call.
func ExpandString(src string, run RunFunc) (string, error) {
	var p = parser.NewParser()
	var root, parseErr = p.ParseString(src)
	if parseErr != nil {
		return "", parseErr
	}
	return NewExpander().Expand(root, run)
}
