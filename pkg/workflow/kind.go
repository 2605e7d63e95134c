package workflow

import (
	"errors"
	"strings"

	apperrors "github.com/matzehuels/skillflow/pkg/errors"
)

// ErrUnknownKind is returned when text or a converted integer does not name
// one of the five node kinds.
var ErrUnknownKind = errors.New("unknown node kind")

// Kind is the closed category of a node. It is purely descriptive and has no
// execution semantics.
type Kind uint8

const (
	KindInput Kind = iota
	KindProcess
	KindDecision
	KindData
	KindOutput

	kindCount
)

type kindInfo struct {
	name        string
	label       string
	color       string
	description string
}

// kinds is indexed by Kind and kept in palette order.
var kinds = [kindCount]kindInfo{
	KindInput:    {"input", "Input", "#ff6b6b", "Define input parameters"},
	KindProcess:  {"process", "Process", "#4ecdc4", "Process or transform data"},
	KindDecision: {"decision", "Decision", "#a78bfa", "Conditional branching"},
	KindData:     {"data", "Data", "#ffd93d", "Data storage or retrieval"},
	KindOutput:   {"output", "Output", "#ff8fab", "Define output format"},
}

// Kinds returns all kinds in palette order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind converts a kind name such as "process" into a Kind.
// Matching ignores case and surrounding whitespace.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k := Kind(0); k < kindCount; k++ {
		if kinds[k].name == name {
			return k, nil
		}
	}
	return 0, apperrors.Wrap(apperrors.ErrCodeInvalidKind, ErrUnknownKind, "%q is not one of input, process, decision, data, output", s)
}

// Valid reports whether k is one of the five declared kinds.
func (k Kind) Valid() bool { return k < kindCount }

// String returns the lowercase kind name used in documents.
func (k Kind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return kinds[k].name
}

// Label returns the palette label, e.g. "Decision".
func (k Kind) Label() string {
	if !k.Valid() {
		return ""
	}
	return kinds[k].label
}

// Color returns the hex display color assigned to nodes of this kind.
func (k Kind) Color() string {
	if !k.Valid() {
		return ""
	}
	return kinds[k].color
}

// DefaultDescription returns the description new nodes of this kind start with.
func (k Kind) DefaultDescription() string {
	if !k.Valid() {
		return ""
	}
	return kinds[k].description
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidKind, ErrUnknownKind, "kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
