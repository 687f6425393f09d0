package scanner

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// The scanner decodes escapes: an escaped marker (or any other escaped
// character) is emitted as a TEXT token holding the bare character, so the
// parser never sees a backslash. Whether adjacent TEXT tokens are merged is
// a decision made by the parser, not the scanner.

type CmdScanner struct {
	src          []rune
	currToken    CmdToken
	currRune     rune
	position     int
	readPosition int

	debug bool
}

type CmdToken struct {
	Typ CmdTokenType
	Lit string
}

func (t CmdToken) String() string {
	return fmt.Sprintf("%s(%q)", t.Typ, t.Lit)
}

func NewScanner(src io.Reader) *CmdScanner {
	var s, err = io.ReadAll(src)
	if err != nil {
		panic(err)
	}
	var scanner = &CmdScanner{
		src: []rune(string(s)),
	}
	scanner.readRune()
	return scanner
}

func (s *CmdScanner) SetDebug(v bool) {
	s.debug = v
}

func (s *CmdScanner) Eof() bool {
	return s.currToken.Typ == EOF
}

func (s *CmdScanner) CurrToken() CmdToken {
	return s.currToken
}

func (s *CmdScanner) Source() string {
	return string(s.src)
}

func (s *CmdScanner) readRune() {
	if s.readPosition >= len(s.src) {
		s.currRune = 0
	} else {
		s.currRune = s.src[s.readPosition]
	}
	s.position = s.readPosition
	s.readPosition += 1
}

// peekRune is needed because the opening marker is two runes long, unlike
// the closing one.
func (s *CmdScanner) peekRune() rune {
	if s.readPosition >= len(s.src) {
		return 0
	}
	return s.src[s.readPosition]
}

func (s *CmdScanner) isText() bool {
	switch s.currRune {
	case '\\', ')', 0:
		return false
	case '$':
		return s.peekRune() != '('
	}
	return true
}

func (s *CmdScanner) readText() CmdToken {
	var position = s.position
	for s.isText() {
		s.readRune()
	}
	return CmdToken{
		Typ: TEXT,
		Lit: string(s.src[position:s.position]),
	}
}

func (s *CmdScanner) PrintCursor(layout string, args ...interface{}) {
	var lines = strings.Split(string(s.src), "\n")
	var b strings.Builder
	var line, column = s.getCurrPosition()

	var ch string
	if s.currRune == 0 {
		ch = "0"
	} else {
		ch = fmt.Sprintf("%q", s.currRune)
	}

	var prefix = fmt.Sprintf(layout, args...)
	b.WriteString(fmt.Sprintf("%s  %s\n", prefix, lines[line]))
	b.WriteString(fmt.Sprintf("%s  %s▲ [%d]=%s token=%s\n", prefix, strings.Repeat(" ", column), s.position, ch, s.currToken))
	fmt.Fprint(os.Stderr, b.String())
}

func (s *CmdScanner) getCurrPosition() (int, int) {
	var line = 0
	var column = 0
	for i := 0; i < s.position && i < len(s.src); i++ {
		if s.src[i] == '\n' {
			line += 1
			column = 0
		} else {
			column += 1
		}
	}
	return line, column
}

func (s *CmdScanner) NextToken() (CmdToken, error) {
	var t, err = s.nextToken()
	s.currToken = t
	if s.debug {
		s.PrintCursor("[debug]")
	}
	return t, err
}

func (s *CmdScanner) nextToken() (CmdToken, error) {
	// NOTE: We don't need to call readRune() in the cases where readText()
	//       is called, because readRune() is already called inside it.
	switch s.currRune {
	case '\\': // escape character
		if s.position >= len(s.src)-1 {
			return CmdToken{
				Typ: ILLEGAL_TOKEN,
				Lit: "\\",
			}, fmt.Errorf("backslash at the end of the source")
		}
		s.readRune() // get the next one

		// an escaped opening marker is one unit, both runes are consumed
		if s.currRune == '$' && s.peekRune() == '(' {
			s.readRune()
			s.readRune()
			return CmdToken{TEXT, "$("}, nil
		}
		var tok = CmdToken{TEXT, fmt.Sprintf("%c", s.currRune)}
		s.readRune()
		return tok, nil
	case '$':
		if s.peekRune() == '(' {
			s.readRune()
			s.readRune()
			return CmdToken{OPEN, "$("}, nil
		}
		// a dollar not followed by ( is plain text
		var tok = s.readText()
		return tok, nil
	case ')':
		var tok = CmdToken{CLOSE, ")"}
		s.readRune()
		return tok, nil
	case 0:
		var tok = CmdToken{EOF, ""}
		s.readRune()
		return tok, nil
	default:
		var tok = s.readText()
		return tok, nil
	}
}
