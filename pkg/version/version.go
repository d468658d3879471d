// Package version provides lunarity version detection and comparison: a
// Version triple, a participle grammar for the comparator-prefixed
// version-constraint lists that appear in a `pragma lunarity ...;`
// directive, and helpers to detect the pragma(s) in a source file.
package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Version represents a lunarity/semver-style version.
type Version struct {
	Major int
	Minor int
	Patch int
}

// New creates a new Version.
func New(major, minor, patch int) Version {
	return Version{Major: major, Minor: minor, Patch: patch}
}

// String returns the version as "major.minor.patch".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1 if v < other, 0 if equal, 1 if v > other.
func (v Version) Compare(other Version) int {
	if v.Major != other.Major {
		if v.Major < other.Major {
			return -1
		}
		return 1
	}
	if v.Minor != other.Minor {
		if v.Minor < other.Minor {
			return -1
		}
		return 1
	}
	if v.Patch != other.Patch {
		if v.Patch < other.Patch {
			return -1
		}
		return 1
	}
	return 0
}

func (v Version) LessThan(other Version) bool           { return v.Compare(other) < 0 }
func (v Version) LessThanOrEqual(other Version) bool     { return v.Compare(other) <= 0 }
func (v Version) GreaterThan(other Version) bool         { return v.Compare(other) > 0 }
func (v Version) GreaterThanOrEqual(other Version) bool  { return v.Compare(other) >= 0 }
func (v Version) Equal(other Version) bool               { return v.Compare(other) == 0 }
func (v Version) IsZero() bool                           { return v.Major == 0 && v.Minor == 0 && v.Patch == 0 }

// Parse parses a version string like "0.8.20" or "0.8".
func Parse(s string) (Version, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return Version{}, fmt.Errorf("invalid version format: %s", s)
	}

	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return Version{}, fmt.Errorf("invalid major version: %s", parts[0])
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return Version{}, fmt.Errorf("invalid minor version: %s", parts[1])
	}
	patch := 0
	if len(parts) == 3 {
		patch, err = strconv.Atoi(parts[2])
		if err != nil {
			return Version{}, fmt.Errorf("invalid patch version: %s", parts[2])
		}
	}
	return Version{Major: major, Minor: minor, Patch: patch}, nil
}

// MustParse parses a version string and panics on error.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// ---- version-constraint grammar -----------------------------------------
//
// A pragma's raw text can be a single comparator-prefixed version
// (`^0.8.0`, `>=0.4.22`) or a whitespace-separated conjunction of several
// (`>=0.4.0 <0.6.0`), each optionally comma-separated. The teacher's
// regex-only approach only recognized the first comparator in a pragma;
// this grammar recognizes the whole list so a compound range pragma
// resolves to every bound it names, not just the first.

var constraintLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comparator", Pattern: `\^|~|>=|<=|>|<|=`},
	{Name: "Number", Pattern: `\d+(\.\d+){1,2}`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// constraintGrammar is one comparator-prefixed version term.
type constraintGrammar struct {
	Comparator string `parser:"@Comparator?"`
	Number     string `parser:"@Number"`
}

// constraintListGrammar is a whitespace/comma-separated list of terms, the
// full shape a `pragma lunarity ...;` value can take.
type constraintListGrammar struct {
	Terms []*constraintGrammar `parser:"@@ (\",\"? @@)*"`
}

var constraintParser = participle.MustBuild[constraintListGrammar](
	participle.Lexer(constraintLexer),
	participle.Elide("Whitespace"),
)

// Constraint is one parsed comparator/version term from a pragma.
type Constraint struct {
	Comparator string // "", "^", "~", ">=", "<=", ">", "<", "="
	Version    Version
}

// Satisfies reports whether v satisfies this single constraint term.
func (c Constraint) Satisfies(v Version) bool {
	switch c.Comparator {
	case "", "=":
		return v.Equal(c.Version)
	case ">":
		return v.GreaterThan(c.Version)
	case ">=":
		return v.GreaterThanOrEqual(c.Version)
	case "<":
		return v.LessThan(c.Version)
	case "<=":
		return v.LessThanOrEqual(c.Version)
	case "^":
		// caret: same major version, >= the given version
		return v.Major == c.Version.Major && v.GreaterThanOrEqual(c.Version)
	case "~":
		// tilde: same major.minor, >= the given version
		return v.Major == c.Version.Major && v.Minor == c.Version.Minor && v.GreaterThanOrEqual(c.Version)
	default:
		return false
	}
}

// ConstraintList is a conjunction of Constraints — a version satisfies the
// list only if it satisfies every term.
type ConstraintList []Constraint

// Satisfies reports whether v satisfies every term in the list.
func (l ConstraintList) Satisfies(v Version) bool {
	for _, c := range l {
		if !c.Satisfies(v) {
			return false
		}
	}
	return true
}

// ParseConstraints parses a pragma's raw value text (everything after the
// identifier, e.g. ">=0.4.0 <0.6.0") into a ConstraintList.
func ParseConstraints(raw string) (ConstraintList, error) {
	parsed, err := constraintParser.ParseString("", raw)
	if err != nil {
		return nil, fmt.Errorf("invalid version constraint %q: %w", raw, err)
	}

	list := make(ConstraintList, 0, len(parsed.Terms))
	for _, term := range parsed.Terms {
		v, err := Parse(term.Number)
		if err != nil {
			return nil, fmt.Errorf("invalid version constraint %q: %w", raw, err)
		}
		list = append(list, Constraint{Comparator: term.Comparator, Version: v})
	}
	return list, nil
}

// ---- pragma detection ----------------------------------------------------

var pragmaRe = regexp.MustCompile(`pragma\s+lunarity\s+([^;]+);`)

// DetectedVersion is the version info extracted from one pragma directive.
type DetectedVersion struct {
	Raw         string         // raw constraint text, e.g. "^0.8.0"
	Constraints ConstraintList // every comparator/version term in Raw
}

// Detect extracts the first `pragma lunarity ...;` directive's version
// constraints from source.
func Detect(source string) (*DetectedVersion, error) {
	matches := pragmaRe.FindStringSubmatch(source)
	if matches == nil {
		return nil, fmt.Errorf("no pragma lunarity found")
	}
	return detectedFromRaw(strings.TrimSpace(matches[1]))
}

// DetectAll extracts every `pragma lunarity ...;` directive's version
// constraints from source.
func DetectAll(source string) ([]*DetectedVersion, error) {
	allMatches := pragmaRe.FindAllStringSubmatch(source, -1)
	if len(allMatches) == 0 {
		return nil, fmt.Errorf("no pragma lunarity found")
	}

	var results []*DetectedVersion
	for _, matches := range allMatches {
		dv, err := detectedFromRaw(strings.TrimSpace(matches[1]))
		if err != nil {
			continue
		}
		results = append(results, dv)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no valid pragma lunarity found")
	}
	return results, nil
}

func detectedFromRaw(raw string) (*DetectedVersion, error) {
	constraints, err := ParseConstraints(raw)
	if err != nil {
		return nil, err
	}
	return &DetectedVersion{Raw: raw, Constraints: constraints}, nil
}
