package model

import "fmt"

// Level is the hierarchy depth of a heading.
type Level int

// Heading levels, from the document title down to third-level headings.
const (
	LevelNone Level = iota
	LevelTitle
	LevelH1
	LevelH2
	LevelH3
)

// String returns the output form of the level ("TITLE", "H1", ...).
func (l Level) String() string {
	switch l {
	case LevelTitle:
		return "TITLE"
	case LevelH1:
		return "H1"
	case LevelH2:
		return "H2"
	case LevelH3:
		return "H3"
	default:
		return ""
	}
}

// ParseLevel converts "TITLE", "H1", "H2" or "H3" to a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "TITLE":
		return LevelTitle, nil
	case "H1":
		return LevelH1, nil
	case "H2":
		return LevelH2, nil
	case "H3":
		return LevelH3, nil
	}
	return LevelNone, fmt.Errorf("unknown heading level %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(b []byte) error {
	parsed, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// LevelSource records which rule assigned a candidate's level.
type LevelSource int

const (
	SourceNone LevelSource = iota
	SourceStructural
	SourceContent
	SourcePosition
	SourceScore
	SourceMultimodal
)

// String returns the lowercase name of the source.
func (s LevelSource) String() string {
	switch s {
	case SourceStructural:
		return "structural"
	case SourceContent:
		return "content"
	case SourcePosition:
		return "position"
	case SourceScore:
		return "score"
	case SourceMultimodal:
		return "multimodal"
	default:
		return ""
	}
}
