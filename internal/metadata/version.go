package metadata

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a metadata format version (the attachment's "mv" field).
type Version struct {
	Major int
	Minor int
	Patch int
}

var (
	// Current is the newest format version this decoder understands fully.
	Current = Version{Major: 1, Minor: 9, Patch: 0}
	// MinCompatible is the oldest format version whose payload is trusted.
	MinCompatible = Version{Major: 1, Minor: 1, Patch: 0}
)

// VersionFromInts builds a version from the attachment's int array. Missing
// components default to zero.
func VersionFromInts(parts []int) Version {
	var v Version
	if len(parts) > 0 {
		v.Major = parts[0]
	}
	if len(parts) > 1 {
		v.Minor = parts[1]
	}
	if len(parts) > 2 {
		v.Patch = parts[2]
	}
	return v
}

// ParseVersion parses "major.minor.patch"; missing components default to zero.
func ParseVersion(s string) (Version, error) {
	fields := strings.Split(strings.TrimSpace(s), ".")
	if len(fields) == 0 || len(fields) > 3 || fields[0] == "" {
		return Version{}, fmt.Errorf("invalid metadata version %q", s)
	}
	parts := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid metadata version %q", s)
		}
		parts[i] = n
	}
	return VersionFromInts(parts), nil
}

// Ints returns the version as the attachment's int array.
func (v Version) Ints() []int {
	return []int{v.Major, v.Minor, v.Patch}
}

// Less reports whether v precedes other.
func (v Version) Less(other Version) bool {
	if v.Major != other.Major {
		return v.Major < other.Major
	}
	if v.Minor != other.Minor {
		return v.Minor < other.Minor
	}
	return v.Patch < other.Patch
}

// CompatibleWith reports whether a payload written with v can be trusted by
// a reader whose oldest accepted version is oldest. Payloads from more than one
// minor release ahead of Current are rejected as well.
func (v Version) CompatibleWith(oldest Version) bool {
	if v.Major != Current.Major {
		return false
	}
	if v.Less(oldest) {
		return false
	}
	return v.Minor <= Current.Minor+1
}

// IsCompatible is CompatibleWith(MinCompatible).
func (v Version) IsCompatible() bool {
	return v.CompatibleWith(MinCompatible)
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}
