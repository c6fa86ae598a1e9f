/*

Package compat upgrades persisted flow records written by older releases to
the current flow format version.

The flow format version is decoupled from the release cycle: every change to
the record schema gets a new flow format version number, and for every
version the package registers exactly one converter that advances a record
one step. Migration is the repeated application of converters until the
record reaches the target version. Records with a version that is unknown
are rejected as unsupported; records with a version newer than the target
are rejected with a distinct error so that the caller can suggest upgrading
the tool instead of reporting corruption.

A Migrator is one migration session. It owns the connection identity cache
used by the retroactive identifier backfill, so identifiers are stable
across all records migrated by one Migrator and fresh for the next.

*/

package compat
