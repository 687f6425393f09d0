package parser

import (
	"bytes"
	"fmt"
	"strings"
)

// Lit is a decoded literal text node
type Lit struct {
	Lit string
}

// Interp is an interpolation node, holding the command between $( and )
type Interp struct {
	Cmd *Cmd
}

// Cmd is an ordered sequence of Lit and Interp nodes. It is both the root
// of a parsed input and the payload of every Interp.
type Cmd struct {
	Items []CmdNode
}

type CmdNode interface {
	node()
	String() string
}

func (Lit) node()    {}
func (Interp) node() {}
func (*Cmd) node()   {}

// Every dollar is escaped, not only the ones followed by an opening paren,
// so that a literal ending in $ cannot merge with a following literal into
// an accidental marker.
var escaper = strings.NewReplacer(`\`, `\\`, `$`, `\$`, `)`, `\)`)

// String re-escapes the decoded text, so that the reconstructed source
// parses back to the same text.
func (l Lit) String() string {
	return escaper.Replace(l.Lit)
}

func (i Interp) String() string {
	return fmt.Sprintf("$(%s)", i.Cmd)
}

func (c *Cmd) String() string {
	var buf bytes.Buffer
	for _, item := range c.Items {
		buf.WriteString(item.String())
	}
	return buf.String()
}
