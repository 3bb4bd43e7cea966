package version

import (
	"fmt"
	"strings"
)

// Comparison is the outcome of comparing two versions
type Comparison int

const (
	Uncomparable Comparison = iota
	LessThanOther
	Equal
	GreaterThanOther
)

// String returns the string representation of Comparison
func (c Comparison) String() string {
	switch c {
	case LessThanOther:
		return "LessThanOther"
	case Equal:
		return "Equal"
	case GreaterThanOther:
		return "GreaterThanOther"
	default:
		return "Uncomparable"
	}
}

// Conditional records which comparison a pin expressed
type Conditional int

const (
	None Conditional = iota
	LessThan
	GreaterThan
	Equality
	Fuzzy
)

// String returns the string representation of Conditional
func (c Conditional) String() string {
	switch c {
	case LessThan:
		return "LessThan"
	case GreaterThan:
		return "GreaterThan"
	case Equality:
		return "Equality"
	case Fuzzy:
		return "Fuzzy"
	default:
		return "None"
	}
}

// Operator returns the canonical operator text for the conditional
func (c Conditional) Operator() string {
	switch c {
	case LessThan:
		return "<"
	case GreaterThan:
		return ">"
	case Equality:
		return "="
	case Fuzzy:
		return "~"
	default:
		return ""
	}
}

// MaxComponents is the number of numeric components a Version can carry
// (major, minor, patch, revision).
const MaxComponents = 4

// Version is a partially specified numeric version. Only a prefix of the
// components is ever set: once a component is absent, every component after
// it is absent too. Versions are values and compare with ==.
type Version struct {
	// Source is the text the version was parsed from
	Source string
	// PackageName is the package the version belongs to
	PackageName string

	components [MaxComponents]uint64
	precision  int
}

// New creates a Version from up to four leading components.
// It panics if more than MaxComponents are given.
func New(source, packageName string, components ...uint64) Version {
	if len(components) > MaxComponents {
		panic(fmt.Sprintf("version: %d components given, at most %d allowed", len(components), MaxComponents))
	}

	v := Version{
		Source:      source,
		PackageName: packageName,
		precision:   len(components),
	}
	copy(v.components[:], components)
	return v
}

// Precision returns how many leading components are set
func (v Version) Precision() int {
	return v.precision
}

// Component returns the i-th component (0 = major) and whether it is set
func (v Version) Component(i int) (uint64, bool) {
	if i < 0 || i >= v.precision {
		return 0, false
	}
	return v.components[i], true
}

// Major returns the major component and whether it is set
func (v Version) Major() (uint64, bool) { return v.Component(0) }

// Minor returns the minor component and whether it is set
func (v Version) Minor() (uint64, bool) { return v.Component(1) }

// Patch returns the patch component and whether it is set
func (v Version) Patch() (uint64, bool) { return v.Component(2) }

// Revision returns the revision component and whether it is set
func (v Version) Revision() (uint64, bool) { return v.Component(3) }

// Compare compares v against other over their common specified prefix.
//
// A shorter version only constrains the components it names, so 4.3
// compares Equal to 4.3.2.1. If either side specifies nothing the
// result is Uncomparable.
func (v Version) Compare(other Version) Comparison {
	n := min(v.precision, other.precision)
	if n == 0 {
		return Uncomparable
	}

	for i := 0; i < n; i++ {
		switch {
		case v.components[i] < other.components[i]:
			return LessThanOther
		case v.components[i] > other.components[i]:
			return GreaterThanOther
		}
	}
	return Equal
}

// String renders the set components joined by dots
func (v Version) String() string {
	parts := make([]string, v.precision)
	for i := 0; i < v.precision; i++ {
		parts[i] = fmt.Sprintf("%d", v.components[i])
	}
	return strings.Join(parts, ".")
}
