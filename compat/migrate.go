package compat

import (
	"github.com/wiredump/flowfmt"
	"github.com/wiredump/flowfmt/errors"
)

// FlowFormatVersion is the flow format version this release reads and
// writes. Records at older versions are migrated up to it, records at newer
// versions are rejected with ErrUpgradeRequired.
var FlowFormatVersion = flowfmt.FlatVersion(10)

// Migrator upgrades flow records to a target flow format version. It owns
// the connection identity cache for one migration session: migrate all
// records of one capture file with a single Migrator so that retroactively
// assigned connection identifiers stay stable within that file.
//
// A Migrator is safe for concurrent use by a batch driver that spreads
// records over goroutines.
type Migrator struct {
	target flowfmt.Version
	reg    *register
	ids    *IdentityCache
}

// NewMigrator returns a migrator targeting the current flow format version.
func NewMigrator() *Migrator {
	return NewMigratorTo(FlowFormatVersion)
}

// NewMigratorTo returns a migrator targeting the given flow format version.
func NewMigratorTo(target flowfmt.Version) *Migrator {
	return &Migrator{
		target: target,
		reg:    reg,
		ids:    NewIdentityCache(),
	}
}

// Migrate upgrades a single record to the migrator's target version by
// applying one converter per version step. A record already at the target
// version is returned as is, without any conversion applied. The input
// record is never modified.
func (m *Migrator) Migrate(data flowfmt.Record) (flowfmt.Record, error) {
	for steps := 0; ; steps++ {
		version, err := flowfmt.ExtractVersion(data)
		if err != nil {
			return nil, err
		}
		if version.Equal(m.target) {
			return data, nil
		}
		conv, ok := m.reg.Lookup(version)
		if !ok {
			if version.IsFlat() && m.target.Less(version) {
				return nil, errors.Wrapf(errors.ErrUpgradeRequired, "flow format version %s, please update this tool", version)
			}
			return nil, errors.Wrapf(errors.ErrUnsupportedVersion, "flow format version %s", version)
		}
		// The chain is strictly increasing, so a correct register is
		// exhausted before the step counter reaches its size.
		if steps >= m.reg.Len() {
			return nil, errors.Wrapf(errors.ErrState, "converter chain does not advance past version %s", version)
		}
		next, err := conv(m, data)
		if err != nil {
			return nil, errors.Wrapf(err, "convert from version %s", version)
		}
		data = next
	}
}
