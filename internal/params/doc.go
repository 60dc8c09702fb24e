// Package params provides the WOCE/exchange parameter name registry.
//
// A Registry is built once from Tables supplied by a loader (the embedded CUE
// tables or the SQLite store) and is read-only afterwards, apart from session
// aliases added through AddAlias. Lookups accept composite keys:
//
//	"CTDPRS [DBAR]"        name + unit
//	"EXPOCODE"             unitless name
//	"CTDSAL_FLAG_W"        flag column of CTDSAL
//	"CTDTMP_ALT_2 [ITS-90]" second alternate CTDTMP
//	Key{Name: "C14ERR", Unit: "/MILLE"} error column of DELC14
//
// Resolution runs in a fixed order: alias substitution, error-column
// substitution, base lookup, then alt-depth, flag, error and alias tagging.
// The result is a View, an immutable value that carries the base Record and
// its modifiers and knows how to format values in the fixed-width exchange
// convention (Strfex) and derive CF/netCDF attributes (NCAttrs).
//
// View equality only considers the resolved name, unit and alt depth. Flag,
// error and alias tags never affect identity or ordering.
package params
