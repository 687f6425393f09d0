package scanner

type CmdTokenType int

const (
	ILLEGAL_TOKEN CmdTokenType = iota

	TEXT // a run of plain characters, or a single decoded escape

	OPEN  // $(
	CLOSE // )

	EOF
)

func (t CmdTokenType) String() string {
	return map[CmdTokenType]string{
		ILLEGAL_TOKEN: "ILLEGAL_TOKEN",

		TEXT: "TEXT",

		OPEN:  "OPEN",
		CLOSE: "CLOSE",

		EOF: "EOF",
	}[t]
}
