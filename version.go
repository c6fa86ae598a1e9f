package flowfmt

import (
	"fmt"
	"math"
	"strconv"

	"github.com/wiredump/flowfmt/errors"
)

// Version is a flow format version marker. Early format generations were
// versioned with a (major, minor) pair borrowed from the release number;
// from generation 4 on the format carries a flat integer. Version covers
// both representations as a single comparable value with one total
// ordering: legacy pairs order lexicographically and sort before every flat
// version.
type Version struct {
	flat  bool
	major int
	minor int
	n     int
}

// LegacyVersion returns the (major, minor) pair version used up to format
// (3, 0).
func LegacyVersion(major, minor int) Version {
	return Version{major: major, minor: minor}
}

// FlatVersion returns the flat integer version used from format 4 on.
func FlatVersion(n int) Version {
	return Version{flat: true, n: n}
}

// IsFlat returns true for flat integer versions.
func (v Version) IsFlat() bool {
	return v.flat
}

// Equal returns true if both versions denote the same format generation.
func (v Version) Equal(o Version) bool {
	return v == o
}

// Less returns true if this version denotes an older format generation than
// the given one.
func (v Version) Less(o Version) bool {
	if v.flat != o.flat {
		return !v.flat
	}
	if !v.flat {
		if v.major != o.major {
			return v.major < o.major
		}
		return v.minor < o.minor
	}
	return v.n < o.n
}

func (v Version) String() string {
	if v.flat {
		return strconv.Itoa(v.n)
	}
	return fmt.Sprintf("(%d, %d)", v.major, v.minor)
}

// ExtractVersion returns the version marker of a record in canonical form.
// It fails only if the record carries no marker.
func ExtractVersion(r Record) (Version, error) {
	raw, ok := r["version"]
	if !ok {
		return Version{}, errors.Wrap(errors.ErrInput, "record carries no version marker")
	}
	v, err := ParseVersion(raw)
	if err != nil {
		return Version{}, errors.Wrap(err, "version marker")
	}
	return v, nil
}

// ParseVersion canonicalizes a stored version marker value. A marker that is
// not a flat integer is normalized to a (major, minor) pair; any finer
// grained marker is truncated to its first two components.
func ParseVersion(marker interface{}) (Version, error) {
	if n, ok := AsInt(marker); ok {
		return FlatVersion(n), nil
	}
	parts, ok := marker.([]interface{})
	if !ok || len(parts) < 2 {
		return Version{}, errors.Wrapf(errors.ErrInput, "malformed value %v", marker)
	}
	major, ok := AsInt(parts[0])
	if !ok {
		return Version{}, errors.Wrapf(errors.ErrInput, "malformed value %v", marker)
	}
	minor, ok := AsInt(parts[1])
	if !ok {
		return Version{}, errors.Wrapf(errors.ErrInput, "malformed value %v", marker)
	}
	return LegacyVersion(major, minor), nil
}

// AsInt coerces the representations different deserializers produce for
// integer fields. Fractional floats do not coerce.
func AsInt(v interface{}) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int8:
		return int(t), true
	case int16:
		return int(t), true
	case int32:
		return int(t), true
	case int64:
		return int(t), true
	case uint:
		return int(t), true
	case uint8:
		return int(t), true
	case uint16:
		return int(t), true
	case uint32:
		return int(t), true
	case uint64:
		return int(t), true
	case float32:
		if float64(t) == math.Trunc(float64(t)) {
			return int(t), true
		}
	case float64:
		if t == math.Trunc(t) {
			return int(t), true
		}
	}
	return 0, false
}
