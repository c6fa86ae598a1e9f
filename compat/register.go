package compat

import (
	"github.com/wiredump/flowfmt"
	"github.com/wiredump/flowfmt/errors"
)

// converter advances a record from one flow format version to the next one.
// Converters must not modify their input record.
type converter func(m *Migrator, data flowfmt.Record) (flowfmt.Record, error)

func newRegister() *register {
	return &register{
		converters: make(map[flowfmt.Version]converter),
	}
}

// register maps a source version to the converter producing the next
// version. The chain is strictly linear: exactly one converter per source
// version, no branching and no skipping. Versions absent from the register
// and different from the target are unreachable.
type register struct {
	converters map[flowfmt.Version]converter
}

func (r *register) MustRegister(from flowfmt.Version, fn converter) {
	if err := r.Register(from, fn); err != nil {
		panic(err)
	}
}

func (r *register) Register(from flowfmt.Version, fn converter) error {
	if _, ok := r.converters[from]; ok {
		return errors.Wrapf(errors.ErrState, "already registered: %s", from)
	}
	r.converters[from] = fn
	return nil
}

func (r *register) Lookup(from flowfmt.Version) (converter, bool) {
	fn, ok := r.converters[from]
	return fn, ok
}

func (r *register) Len() int {
	return len(r.converters)
}

// reg is the converter chain shared by all migrators. The register is
// declared as a separate type so that the chain logic can be tested without
// worrying about the global state.
var reg = newCompatRegister()

func newCompatRegister() *register {
	r := newRegister()
	r.MustRegister(flowfmt.LegacyVersion(0, 11), convert011to012)
	r.MustRegister(flowfmt.LegacyVersion(0, 12), convert012to013)
	r.MustRegister(flowfmt.LegacyVersion(0, 13), convert013to014)
	r.MustRegister(flowfmt.LegacyVersion(0, 14), convert014to015)
	r.MustRegister(flowfmt.LegacyVersion(0, 15), convert015to016)
	r.MustRegister(flowfmt.LegacyVersion(0, 16), convert016to017)
	r.MustRegister(flowfmt.LegacyVersion(0, 17), convert017to018)
	r.MustRegister(flowfmt.LegacyVersion(0, 18), convert018to019)
	r.MustRegister(flowfmt.LegacyVersion(0, 19), convert019to100)
	r.MustRegister(flowfmt.LegacyVersion(1, 0), convert100to200)
	r.MustRegister(flowfmt.LegacyVersion(2, 0), convert200to300)
	r.MustRegister(flowfmt.LegacyVersion(3, 0), convert300to4)
	r.MustRegister(flowfmt.FlatVersion(4), convert4to5)
	r.MustRegister(flowfmt.FlatVersion(5), convert5to6)
	r.MustRegister(flowfmt.FlatVersion(6), convert6to7)
	r.MustRegister(flowfmt.FlatVersion(7), convert7to8)
	r.MustRegister(flowfmt.FlatVersion(8), convert8to9)
	r.MustRegister(flowfmt.FlatVersion(9), convert9to10)
	return r
}
