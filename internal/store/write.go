package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cchdo/params/internal/params"
)

// Config keys written by Seed.
const (
	ConfigCFVersion = "cf_standard_name_table_version"
	ConfigLoadID    = "load_id"
)

// ErrUnknownConfigKey is returned by SetConfig for keys that were never seeded.
var ErrUnknownConfigKey = errors.New("config keys can only be updated, not added")

// ErrConflictingParam is returned by Seed when records sharing a whp_name
// disagree on a name-level field (rank, dtype, flag_w, scope, whp_number,
// description).
var ErrConflictingParam = errors.New("conflicting name-level parameter fields")

// Seed replaces the contents of every registry table with t.
// The whole replacement runs in one transaction; on error the previous
// contents are kept.
func (s *Store) Seed(ctx context.Context, t *params.Tables, loadID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: begin: %w", err)
	}
	defer tx.Rollback()

	// children first so foreign keys hold while clearing
	for i := len(tableNames) - 1; i >= 0; i-- {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+tableNames[i]); err != nil {
			return fmt.Errorf("seed: clear %s: %w", tableNames[i], err)
		}
	}

	if err := writeUnits(ctx, tx, t.Params); err != nil {
		return err
	}
	if err := writeParams(ctx, tx, t.Params); err != nil {
		return err
	}
	if err := writeCFNames(ctx, tx, t); err != nil {
		return err
	}
	if err := writeNames(ctx, tx, t.Params); err != nil {
		return err
	}
	if err := writeAliases(ctx, tx, t.Aliases); err != nil {
		return err
	}

	config := map[string]string{
		ConfigCFVersion: t.CFVersion,
		ConfigLoadID:    loadID,
	}
	for key, value := range config {
		if _, err := tx.ExecContext(ctx, `INSERT INTO config (key, value) VALUES (?, ?)`, key, value); err != nil {
			return fmt.Errorf("seed: config %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit: %w", err)
	}

	s.log.Info().
		Int("params", len(t.Params)).
		Int("aliases", len(t.Aliases)).
		Int("cf_names", len(t.CFNames)).
		Str("load_id", loadID).
		Msg("seeded parameter tables")
	return nil
}

// SetConfig updates an existing config value.
func (s *Store) SetConfig(ctx context.Context, key, value string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE config SET value = ? WHERE key = ?`, value, key)
	if err != nil {
		return fmt.Errorf("set config %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set config %s: %w", key, err)
	}
	if n == 0 {
		return fmt.Errorf("set config %s: %w", key, ErrUnknownConfigKey)
	}
	return nil
}

func writeUnits(ctx context.Context, tx *sql.Tx, records []params.Record) error {
	// '' is the unitless row so whp_names can always reference ex_units
	units := []string{""}
	seen := map[string]bool{"": true}
	for i := range records {
		if unit := records[i].Unit; !seen[unit] {
			seen[unit] = true
			units = append(units, unit)
		}
	}

	for _, unit := range units {
		if _, err := tx.ExecContext(ctx, `INSERT INTO ex_units (whp_unit) VALUES (?)`, unit); err != nil {
			return fmt.Errorf("seed: unit %q: %w", unit, err)
		}
	}
	return nil
}

func writeParams(ctx context.Context, tx *sql.Tx, records []params.Record) error {
	byName := make(map[string]*params.Record, len(records))
	var order []string

	for i := range records {
		rec := &records[i]
		prev, ok := byName[rec.Name]
		if !ok {
			byName[rec.Name] = rec
			order = append(order, rec.Name)
			continue
		}
		if !sameNameFields(prev, rec) {
			return fmt.Errorf("seed: %s and %s: %w", prev.ODVKey(), rec.ODVKey(), ErrConflictingParam)
		}
	}

	for _, name := range order {
		rec := byName[name]
		_, err := tx.ExecContext(ctx, `
			INSERT INTO ex_params
			(whp_name, whp_number, description, scope, dtype, flag, rank)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			rec.Name,
			nullInt(rec.WHPNumber),
			nullString(rec.Description),
			string(rec.Scope),
			string(rec.Dtype),
			flagOrNone(rec.FlagW),
			rec.Rank,
		)
		if err != nil {
			return fmt.Errorf("seed: param %s: %w", name, err)
		}
	}
	return nil
}

func sameNameFields(a, b *params.Record) bool {
	sameNumber := (a.WHPNumber == nil) == (b.WHPNumber == nil) &&
		(a.WHPNumber == nil || *a.WHPNumber == *b.WHPNumber)
	return sameNumber &&
		a.Rank == b.Rank &&
		a.Dtype == b.Dtype &&
		a.Scope == b.Scope &&
		flagOrNone(a.FlagW) == flagOrNone(b.FlagW) &&
		a.Description == b.Description
}

func flagOrNone(flag string) string {
	if flag == "" {
		return params.FlagNone
	}
	return flag
}

func writeCFNames(ctx context.Context, tx *sql.Tx, t *params.Tables) error {
	for _, rec := range t.CFNames {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO cf_names
			(standard_name, canonical_units, grib, amip, description)
			VALUES (?, ?, ?, ?, ?)
		`,
			rec.Name,
			nullString(rec.CanonicalUnits),
			nullString(rec.GRIB),
			nullString(rec.AMIP),
			nullString(rec.Description),
		)
		if err != nil {
			return fmt.Errorf("seed: cf name %s: %w", rec.Name, err)
		}
	}

	for alias, canonical := range t.CFAliases {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO cf_aliases (alias, standard_name) VALUES (?, ?)
		`, alias, canonical)
		if err != nil {
			return fmt.Errorf("seed: cf alias %s: %w", alias, err)
		}
	}
	return nil
}

func writeNames(ctx context.Context, tx *sql.Tx, records []params.Record) error {
	for i := range records {
		rec := &records[i]
		_, err := tx.ExecContext(ctx, `
			INSERT INTO whp_names
			(whp_name, whp_unit, standard_name, nc_name, nc_group,
			 numeric_min, numeric_max, error_name,
			 analytical_temperature_name, analytical_temperature_units,
			 field_width, numeric_precision, cf_unit, reference_scale,
			 note, warning, in_erddap,
			 radiation_wavelength, scattering_angle, excitation_wavelength, emission_wavelength)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			rec.Name,
			rec.Unit,
			nullString(rec.CFName),
			nullString(rec.NCName),
			nullString(rec.NCGroup),
			nullFloat(rec.NumericMin),
			nullFloat(rec.NumericMax),
			nullString(rec.ErrorName),
			nullString(rec.AnalyticalTemperatureName),
			nullString(rec.AnalyticalTemperatureUnits),
			rec.FieldWidth,
			nullInt(rec.NumericPrecision),
			nullString(rec.CFUnit),
			nullString(rec.ReferenceScale),
			nullString(rec.Note),
			nullString(rec.Warning),
			rec.InERDDAP,
			nullFloat(rec.RadiationWavelength),
			nullFloat(rec.ScatteringAngle),
			nullFloat(rec.ExcitationWavelength),
			nullFloat(rec.EmissionWavelength),
		)
		if err != nil {
			return fmt.Errorf("seed: %s: %w", rec.ODVKey(), err)
		}
	}
	return nil
}

func writeAliases(ctx context.Context, tx *sql.Tx, aliases []params.AliasEntry) error {
	for _, a := range aliases {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO whp_alias (old_name, old_unit, whp_name, whp_unit)
			VALUES (?, ?, ?, ?)
		`, a.Alias.Name, a.Alias.Unit, a.Canonical.Name, a.Canonical.Unit)
		if err != nil {
			return fmt.Errorf("seed: alias %s: %w", a.Alias, err)
		}
	}
	return nil
}
