package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cchdo/params/internal/params"
)

// ErrEmpty is returned by LoadTables when the database was never seeded.
var ErrEmpty = errors.New("parameter database is empty")

// LoadTables reads the registry tables back into params.Tables.
// Parameters are returned in rank order, ties broken by name and unit.
func (s *Store) LoadTables(ctx context.Context) (*params.Tables, error) {
	records, err := s.readNames(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmpty
	}

	aliases, err := s.readAliases(ctx)
	if err != nil {
		return nil, err
	}

	cfNames, err := s.readCFNames(ctx)
	if err != nil {
		return nil, err
	}

	cfAliases, err := s.readCFAliases(ctx)
	if err != nil {
		return nil, err
	}

	config, err := s.Config(ctx)
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Int("params", len(records)).
		Int("aliases", len(aliases)).
		Int("cf_names", len(cfNames)).
		Msg("loaded parameter tables from sqlite")

	return &params.Tables{
		Params:    records,
		Aliases:   aliases,
		CFNames:   cfNames,
		CFAliases: cfAliases,
		CFVersion: config[ConfigCFVersion],
	}, nil
}

// Config returns every config key/value pair.
func (s *Store) Config(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM config ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("query config: %w", err)
	}
	defer rows.Close()

	config := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan config: %w", err)
		}
		config[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate config: %w", err)
	}
	return config, nil
}

func (s *Store) readNames(ctx context.Context) ([]params.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT n.whp_name, n.whp_unit, n.standard_name, n.nc_name, n.nc_group,
		       n.numeric_min, n.numeric_max, n.error_name,
		       n.analytical_temperature_name, n.analytical_temperature_units,
		       n.field_width, n.numeric_precision, n.cf_unit, n.reference_scale,
		       n.note, n.warning, n.in_erddap,
		       n.radiation_wavelength, n.scattering_angle,
		       n.excitation_wavelength, n.emission_wavelength,
		       p.whp_number, p.description, p.scope, p.dtype, p.flag, p.rank
		FROM whp_names n
		JOIN ex_params p ON p.whp_name = n.whp_name
		ORDER BY p.rank ASC, n.whp_name COLLATE BINARY ASC, n.whp_unit COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query whp_names: %w", err)
	}
	defer rows.Close()

	var records []params.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate whp_names: %w", err)
	}
	return records, nil
}

func scanRecord(rows *sql.Rows) (params.Record, error) {
	var (
		rec                                         params.Record
		cfName, ncName, ncGroup, errorName          sql.NullString
		atName, atUnits, cfUnit, refScale           sql.NullString
		note, warning, description                  sql.NullString
		numMin, numMax                              sql.NullFloat64
		radiation, scattering, excitation, emission sql.NullFloat64
		precision, whpNumber                        sql.NullInt64
		scope, dtype                                string
	)

	err := rows.Scan(
		&rec.Name, &rec.Unit, &cfName, &ncName, &ncGroup,
		&numMin, &numMax, &errorName,
		&atName, &atUnits,
		&rec.FieldWidth, &precision, &cfUnit, &refScale,
		&note, &warning, &rec.InERDDAP,
		&radiation, &scattering,
		&excitation, &emission,
		&whpNumber, &description, &scope, &dtype, &rec.FlagW, &rec.Rank,
	)
	if err != nil {
		return rec, fmt.Errorf("scan whp_names: %w", err)
	}

	rec.CFName = unmarshalString(cfName)
	rec.NCName = unmarshalString(ncName)
	rec.NCGroup = unmarshalString(ncGroup)
	rec.ErrorName = unmarshalString(errorName)
	rec.AnalyticalTemperatureName = unmarshalString(atName)
	rec.AnalyticalTemperatureUnits = unmarshalString(atUnits)
	rec.CFUnit = unmarshalString(cfUnit)
	rec.ReferenceScale = unmarshalString(refScale)
	rec.Note = unmarshalString(note)
	rec.Warning = unmarshalString(warning)
	rec.Description = unmarshalString(description)
	rec.NumericMin = unmarshalFloat(numMin)
	rec.NumericMax = unmarshalFloat(numMax)
	rec.RadiationWavelength = unmarshalFloat(radiation)
	rec.ScatteringAngle = unmarshalFloat(scattering)
	rec.ExcitationWavelength = unmarshalFloat(excitation)
	rec.EmissionWavelength = unmarshalFloat(emission)
	rec.NumericPrecision = unmarshalInt(precision)
	rec.WHPNumber = unmarshalInt(whpNumber)
	rec.Scope = params.Scope(scope)
	rec.Dtype = params.Dtype(dtype)

	return rec, nil
}

func (s *Store) readAliases(ctx context.Context) ([]params.AliasEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT old_name, old_unit, whp_name, whp_unit
		FROM whp_alias
		ORDER BY old_name COLLATE BINARY ASC, old_unit COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query whp_alias: %w", err)
	}
	defer rows.Close()

	var aliases []params.AliasEntry
	for rows.Next() {
		var a params.AliasEntry
		if err := rows.Scan(&a.Alias.Name, &a.Alias.Unit, &a.Canonical.Name, &a.Canonical.Unit); err != nil {
			return nil, fmt.Errorf("scan whp_alias: %w", err)
		}
		aliases = append(aliases, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate whp_alias: %w", err)
	}
	return aliases, nil
}

func (s *Store) readCFNames(ctx context.Context) ([]params.CFRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT standard_name, canonical_units, grib, amip, description
		FROM cf_names
		ORDER BY standard_name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query cf_names: %w", err)
	}
	defer rows.Close()

	var records []params.CFRecord
	for rows.Next() {
		var (
			rec                            params.CFRecord
			units, grib, amip, description sql.NullString
		)
		if err := rows.Scan(&rec.Name, &units, &grib, &amip, &description); err != nil {
			return nil, fmt.Errorf("scan cf_names: %w", err)
		}
		rec.CanonicalUnits = unmarshalString(units)
		rec.GRIB = unmarshalString(grib)
		rec.AMIP = unmarshalString(amip)
		rec.Description = unmarshalString(description)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cf_names: %w", err)
	}
	return records, nil
}

func (s *Store) readCFAliases(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT alias, standard_name FROM cf_aliases`)
	if err != nil {
		return nil, fmt.Errorf("query cf_aliases: %w", err)
	}
	defer rows.Close()

	aliases := make(map[string]string)
	for rows.Next() {
		var alias, canonical string
		if err := rows.Scan(&alias, &canonical); err != nil {
			return nil, fmt.Errorf("scan cf_aliases: %w", err)
		}
		aliases[alias] = canonical
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cf_aliases: %w", err)
	}
	return aliases, nil
}
