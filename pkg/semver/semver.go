package semver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Version is a node software version. Minima reports versions such as
// "1.0.45" and occasionally a fourth revision component ("1.0.39.2").
type Version struct {
	Major      int
	Minor      int
	Patch      int
	Revision   int
	Prerelease string
}

var versionRegex = regexp.MustCompile(`^v?(\d+)\.(\d+)(?:\.(\d+))?(?:\.(\d+))?(?:-([0-9A-Za-z.-]+))?$`)

// Parse parses a node version string
func Parse(version string) (Version, error) {
	matches := versionRegex.FindStringSubmatch(strings.TrimSpace(version))
	if matches == nil {
		return Version{}, fmt.Errorf("invalid version: %q", version)
	}

	atoi := func(s string) int {
		n, _ := strconv.Atoi(s)
		return n
	}

	return Version{
		Major:      atoi(matches[1]),
		Minor:      atoi(matches[2]),
		Patch:      atoi(matches[3]),
		Revision:   atoi(matches[4]),
		Prerelease: matches[5],
	}, nil
}

// String returns the string representation of the version
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Revision != 0 {
		s += fmt.Sprintf(".%d", v.Revision)
	}
	if v.Prerelease != "" {
		s += "-" + v.Prerelease
	}
	return s
}

// Compare compares two versions
// Returns -1 if v < other, 0 if v == other, 1 if v > other
func (v Version) Compare(other Version) int {
	for _, pair := range [][2]int{
		{v.Major, other.Major},
		{v.Minor, other.Minor},
		{v.Patch, other.Patch},
		{v.Revision, other.Revision},
	} {
		if pair[0] < pair[1] {
			return -1
		}
		if pair[0] > pair[1] {
			return 1
		}
	}

	// No prerelease > prerelease
	switch {
	case v.Prerelease == other.Prerelease:
		return 0
	case v.Prerelease == "":
		return 1
	case other.Prerelease == "":
		return -1
	}
	return strings.Compare(v.Prerelease, other.Prerelease)
}

// AnyCompatible checks if nodeVer is compatible with any of the given versions.
// Compatibility is based on major version only, and nodeVer must not be older
// than the listed version.
func AnyCompatible(compatible []Version, nodeVer Version) bool {
	for _, v := range compatible {
		if v.Major == nodeVer.Major && nodeVer.Compare(v) >= 0 {
			return true
		}
	}
	return false
}
