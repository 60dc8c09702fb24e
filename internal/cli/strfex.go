package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cchdo/params/internal/params"
)

// StrfexOptions holds flags for the strfex command.
type StrfexOptions struct {
	*RootOptions
	Flag      bool
	Precision int // negative means the record's own precision
	Hint      string
}

// StrfexResult is one formatted value.
type StrfexResult struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Text  string `json:"text"`
}

// NewStrfexCommand creates the strfex command.
func NewStrfexCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StrfexOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "strfex <key> <value>",
		Short: "Format a value for a WHP exchange file",
		Long: `Format a value the way it appears in a WHP exchange file.

The value is parsed by the parameter's dtype. "nan" is the fill value.
Flag keys (NAME_FLAG_W) and --flag format a WOCE flag. With --hint date or
--hint time a string parameter takes a YYYYMMDD / YYYY-MM-DD date or an
HHMM / HH:MM time.

Example:
  cchdo-params strfex "CTDTMP [ITS-90]" 12.34567
  cchdo-params strfex DATE 2016-02-08 --hint date`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStrfex(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Flag, "flag", false, "format the value as a WOCE flag")
	cmd.Flags().IntVarP(&opts.Precision, "precision", "p", -1, "override numeric precision")
	cmd.Flags().StringVar(&opts.Hint, "hint", "", "date or time")

	return cmd
}

func runStrfex(opts *StrfexOptions, key, raw string, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)

	hint, err := params.ParseHint(opts.Hint)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeFormatFailed, err.Error(), err)
	}

	snap, err := opts.loadSnapshot(cmd, formatter)
	if err != nil {
		return err
	}

	v, err := snap.Registry.Lookup(key)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeLookupFailed, err.Error(), err)
	}

	fmtOpts := params.FormatOptions{Flag: opts.Flag || v.IsFlag(), Hint: hint}
	if opts.Precision >= 0 {
		fmtOpts.Precision = params.Precision(opts.Precision)
	}

	value, err := parseValue(raw, v, fmtOpts)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeFormatFailed, err.Error(), err)
	}

	text, err := v.Strfex(value, fmtOpts)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeFormatFailed, err.Error(), err)
	}

	result := StrfexResult{Key: v.FullName(), Value: raw, Text: text}
	return formatter.SuccessWithLoadID(result, text+"\n", snap.ID.String())
}

// parseValue converts command line text into the Go value Strfex expects.
func parseValue(raw string, v params.View, opts params.FormatOptions) (any, error) {
	switch {
	case opts.Flag, v.Dtype() == params.DtypeDecimal:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", params.ErrFormat, raw)
		}
		return f, nil
	case v.Dtype() == params.DtypeInteger:
		s := strings.TrimSpace(raw)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", params.ErrFormat, raw)
		}
		return f, nil
	case opts.Hint == params.HintDate:
		return parseTime(raw, "20060102", "2006-01-02")
	case opts.Hint == params.HintTime:
		return parseTime(raw, "1504", "15:04")
	}
	return raw, nil
}

func parseTime(raw string, layouts ...string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q does not match %s", params.ErrFormat, raw, strings.Join(layouts, " or "))
}
