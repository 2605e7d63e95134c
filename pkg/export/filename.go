package export

import (
	"regexp"
	"strings"
	"unicode"
)

// Artifact name suffixes per format.
const (
	SuffixPNG  = "-workflow.png"
	SuffixJSON = "-skill.json"
	SuffixSVG  = "-workflow.svg"
	SuffixDOT  = "-workflow.dot"
	SuffixYAML = "-skill.yaml"
)

var whitespaceRun = regexp.MustCompile(`[\s\p{Zs}\x{FEFF}]+`)

// FileName builds the artifact name for a project: every whitespace run in
// projectName is replaced by a single "-" and suffix is appended. Path
// separators and control characters also become "-", and leading dots are
// dropped, so any project name yields a plain file name.
//
//	FileName("My Agent Skill", SuffixPNG)    // "My-Agent-Skill-workflow.png"
//	FileName("Input/Output Flow", SuffixJSON) // "Input-Output-Flow-skill.json"
func FileName(projectName, suffix string) string {
	name := whitespaceRun.ReplaceAllString(projectName, "-")
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || unicode.IsControl(r) {
			return '-'
		}
		return r
	}, name)
	return strings.TrimLeft(name, ".") + suffix
}
