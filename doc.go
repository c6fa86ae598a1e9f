/*

Package flowfmt defines the flow record data model shared by the packages of
this repository: the Record mapping produced by the deserializer, the flow
format Version marker with its parsing and ordering rules, and the text
normalization pass that bridges the byte-string-keyed and text-keyed record
eras. Look into the compat package for the migration of records between
format versions.

*/

package flowfmt
