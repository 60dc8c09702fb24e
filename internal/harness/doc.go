// Package harness runs registry conformance scenarios.
//
// A scenario is a YAML file naming a table source, a list of session aliases
// to register up front, and a sequence of steps. Each step exercises one
// registry operation and may carry an expectation:
//
//	name: ctd_lookup
//	description: CTD pressure resolves through its alias
//	steps:
//	  - op: lookup
//	    key: CTDPRS [DBARS]
//	    expect:
//	      output:
//	        parameter: CTDPRS [DBAR]
//	        alias: CTDPRS [DBARS]
//	  - op: strfex
//	    key: CTDPRS [DBAR]
//	    value: 1024
//	    expect:
//	      output:
//	        text: "   1024.0"
//
// Supported ops are lookup, contains, strfex, attrs and add_alias. Output
// expectations are subset matches over the step's rendered output; error
// expectations name the failure kind (not_found, parse, invalid_key,
// duplicate_alias, invalid_alias_target, invalid_modifier, format).
//
// Every run records a trace of step outputs. RunWithGolden compares that
// trace with testdata/golden/<name>.golden.
package harness
