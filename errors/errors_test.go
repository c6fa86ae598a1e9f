package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterRejectsDuplicateCodes(t *testing.T) {
	require.Panics(t, func() {
		Register(2, "duplicate of unsupported version")
	})
}

func TestIsMatchesThroughWrapping(t *testing.T) {
	err := Wrap(ErrUnsupportedVersion, "flow format version (0, 10)")
	err = Wrap(err, "reading flow")

	require.True(t, ErrUnsupportedVersion.Is(err))
	require.False(t, ErrUpgradeRequired.Is(err))
}

func TestIsNil(t *testing.T) {
	var kind *Error
	require.True(t, kind.Is(nil))
	require.False(t, ErrField.Is(nil))
}

func TestWrapNilIsNil(t *testing.T) {
	require.Nil(t, Wrap(nil, "no failure here"))
	require.Nil(t, Wrapf(nil, "no failure %s", "either"))
}

func TestWrapMessageChain(t *testing.T) {
	err := Wrapf(ErrField, "missing %q", "httpversion")
	err = Wrap(err, "request")

	require.Equal(t, `request: missing "httpversion": missing or malformed field`, err.Error())
}

func TestNewKeepsRootCause(t *testing.T) {
	err := ErrUpgradeRequired.Newf("flow format version %d", 11)
	require.True(t, ErrUpgradeRequired.Is(err))
	require.Equal(t, "flow format version 11: flow format version newer than supported", err.Error())
}

func TestWrapAttachesStackTraceOnce(t *testing.T) {
	err := Wrap(ErrState, "first")
	st := stackTrace(err)
	require.NotNil(t, st)

	// Wrapping again must not shadow the original trace.
	outer := Wrap(err, "second")
	require.Equal(t, fmt.Sprintf("%v", st), fmt.Sprintf("%v", stackTrace(outer)))
}

func TestRecover(t *testing.T) {
	var err error
	func() {
		defer Recover(&err)
		panic("oh no")
	}()
	require.True(t, ErrPanic.Is(err))
}
