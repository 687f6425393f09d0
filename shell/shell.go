// Package shell is the plugin pipeline around the scanner/parser/expander
// core: it parses an input command, resolves its $(...) interpolations by
// dispatching each one through a Runner, and finally dispatches the fully
// substituted command through the same Runner.
package shell

import (
	"strings"

	"github.com/hagabaka/rbot-plugins/shell/expander"
	"github.com/hagabaka/rbot-plugins/shell/parser"
)

// Runner dispatches one command through the bot's own command machinery and
// returns the textual replies it produced, in order. Zero replies is not an
// error.
type Runner func(command string) ([]string, error)

type Shell struct {
	run      Runner
	join     string
	maxDepth int
	debug    bool
}

func New(run Runner) *Shell {
	return &Shell{
		run:      run,
		join:     DefaultJoin,
		maxDepth: expander.DefaultMaxDepth,
	}
}

func NewFromConfig(run Runner, conf Config) *Shell {
	return &Shell{
		run:      run,
		join:     conf.Join,
		maxDepth: conf.MaxDepth,
		debug:    conf.Debug,
	}
}

// SetJoin sets the separator used to join the replies of one dispatched
// command into the string spliced into the surrounding text.
func (s *Shell) SetJoin(sep string) {
	s.join = sep
}

func (s *Shell) SetMaxDepth(n int) {
	s.maxDepth = n
}

func (s *Shell) SetDebug(v bool) {
	s.debug = v
}

// Run resolves every interpolation in input, dispatches the substituted
// command, and returns its joined replies. A command with no replies yields
// the empty string; suppressing empty output is the caller's business.
// Parse failures and Runner errors are returned as-is.
func (s *Shell) Run(input string) (string, error) {
	var p = parser.NewParser()
	p.SetDebug(s.debug)
	var root, parseErr = p.ParseString(input)
	if parseErr != nil {
		return "", parseErr
	}

	var exp = expander.NewExpander()
	exp.SetMaxDepth(s.maxDepth)
	exp.SetDebug(s.debug)
	var final, expandErr = exp.Expand(root, s.dispatch)
	if expandErr != nil {
		return "", expandErr
	}

	// the substituted outer command goes through the same machinery as
	// every interpolated one
	return s.dispatch(final)
}

func (s *Shell) dispatch(command string) (string, error) {
	var replies, err = s.run(command)
	if err != nil {
		return "", err
	}
	return strings.Join(replies, s.join), nil
}
