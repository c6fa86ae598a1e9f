package flowfmt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wiredump/flowfmt/errors"
)

func TestParseVersion(t *testing.T) {
	cases := map[string]struct {
		marker  interface{}
		want    Version
		wantErr *errors.Error
	}{
		"flat int": {
			marker: 4,
			want:   FlatVersion(4),
		},
		"flat int64": {
			marker: int64(10),
			want:   FlatVersion(10),
		},
		"flat whole float": {
			marker: float64(7),
			want:   FlatVersion(7),
		},
		"legacy pair": {
			marker: []interface{}{0, 11},
			want:   LegacyVersion(0, 11),
		},
		"legacy pair of floats": {
			marker: []interface{}{float64(0), float64(19)},
			want:   LegacyVersion(0, 19),
		},
		"finer marker truncated": {
			marker: []interface{}{1, 0, 0},
			want:   LegacyVersion(1, 0),
		},
		"text is not a version": {
			marker:  "4",
			wantErr: errors.ErrInput,
		},
		"fractional float is not a version": {
			marker:  4.5,
			wantErr: errors.ErrInput,
		},
		"single component is not a version": {
			marker:  []interface{}{1},
			wantErr: errors.ErrInput,
		},
		"non numeric components are not a version": {
			marker:  []interface{}{"0", "11"},
			wantErr: errors.ErrInput,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			v, err := ParseVersion(tc.marker)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "unexpected error: %v", err)
				return
			}
			require.NoError(t, err)
			require.True(t, tc.want.Equal(v), "want %s, got %s", tc.want, v)
		})
	}
}

func TestExtractVersion(t *testing.T) {
	v, err := ExtractVersion(Record{"version": []interface{}{0, 14}})
	require.NoError(t, err)
	require.Equal(t, LegacyVersion(0, 14), v)

	_, err = ExtractVersion(Record{})
	require.True(t, errors.ErrInput.Is(err), "unexpected error: %v", err)
}

func TestVersionOrdering(t *testing.T) {
	cases := map[string]struct {
		older, newer Version
	}{
		"legacy minor":            {LegacyVersion(0, 11), LegacyVersion(0, 12)},
		"legacy major":            {LegacyVersion(0, 19), LegacyVersion(1, 0)},
		"legacy before any flat":  {LegacyVersion(3, 0), FlatVersion(4)},
		"high legacy before flat": {LegacyVersion(99, 0), FlatVersion(4)},
		"flat":                    {FlatVersion(4), FlatVersion(10)},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			require.True(t, tc.older.Less(tc.newer))
			require.False(t, tc.newer.Less(tc.older))
			require.False(t, tc.older.Equal(tc.newer))
		})
	}

	v := FlatVersion(10)
	require.False(t, v.Less(v))
	require.True(t, v.Equal(v))
}

func TestVersionString(t *testing.T) {
	require.Equal(t, "(0, 11)", LegacyVersion(0, 11).String())
	require.Equal(t, "10", FlatVersion(10).String())
}
