// Package store keeps the parameter tables in SQLite.
//
// The layout follows the historic parameter database:
//   - ex_params: name-level fields (rank, dtype, flag definition, scope)
//   - ex_units: every unit spelling in use, '' for unitless
//   - whp_names: one row per (whp_name, whp_unit) key
//   - whp_alias: alternate keys and their canonical targets
//   - cf_names, cf_aliases: the CF standard name table
//   - config: table versions and the id of the last seed
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Seed replaces all tables in one transaction; LoadTables reads them back
// into params.Tables in rank order.
package store
