/*
Package errors implements the error kinds shared by this repository.

The idea is to reuse as many errors from this package as possible and define
custom package errors only when absolutely necessary. Every failure surfaced
to a caller should wrap one of the registered root errors, so that callers
can classify failures with ErrXyz.Is(err) without parsing messages. The code
assigned at registration is a stable identifier for a kind of failure, which
allows to distinguish types of errors on the caller side and act
accordingly.

There is also support for stacktraces. Please ensure you create the error
using ErrXyz.New("...") or errors.Wrap(err, "...") at the point of creation
to ensure we attach a stacktrace. If you wrap multiple times, we only record
the first wrap with the stacktrace.
*/
package errors
