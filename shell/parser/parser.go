package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/hagabaka/rbot-plugins/shell/scanner"
)

// ParseError is the single failure signal of the parser. It carries the
// original input so that the caller can report it back to the user verbatim.
type ParseError struct {
	Input string
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %s", e.Input, e.Msg)
}

type CmdParser struct {
	scanner *scanner.CmdScanner

	debug bool
}

func NewParser() *CmdParser {
	return &CmdParser{}
}

func (p *CmdParser) SetDebug(v bool) {
	p.debug = v
}

// Parse builds the node tree for src. Empty input is valid and yields a Cmd
// with no items. On failure no partial tree is returned.
func (p *CmdParser) Parse(src io.Reader) (*Cmd, error) {
	p.scanner = scanner.NewScanner(src)
	p.scanner.SetDebug(p.debug)
	var nodes, err = p.parseCommandNodes(scanner.EOF)
	if err != nil {
		return nil, err
	}
	return &Cmd{Items: nodes}, nil
}

func (p *CmdParser) ParseString(src string) (*Cmd, error) {
	return p.Parse(strings.NewReader(src))
}

func (p *CmdParser) parseCommandNodes(until scanner.CmdTokenType) ([]CmdNode, error) {
	var nodes []CmdNode
	for {
		var t, err = p.scanner.NextToken()
		if err != nil {
			return nil, p.parseError(err.Error())
		}
		if t.Typ == until {
			return nodes, nil
		}
		switch t.Typ {
		case scanner.EOF:
			// we should never see EOF before seeing `until'
			return nil, p.parseError("unclosed interpolation")
		case scanner.TEXT:
			nodes = append(nodes, Lit{Lit: t.Lit})
		case scanner.OPEN:
			var inner, err = p.parseCommandNodes(scanner.CLOSE)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, Interp{Cmd: &Cmd{Items: inner}})
		case scanner.CLOSE:
			return nil, p.parseError("unexpected token " + t.String())
		default:
			return nil, p.parseError("unexpected token " + t.String())
		}
	}
}

func (p *CmdParser) parseError(msg string) *ParseError {
	return &ParseError{
		Input: p.scanner.Source(),
		Msg:   msg,
	}
}
