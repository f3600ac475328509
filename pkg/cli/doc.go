/*
Package cli provides output formatting and signal helpers for the meter
command.

Command results are rendered as a Table and written with a Formatter
chosen by the --format flag:

	format, err := cli.ParseFormat(flags.format)
	if err != nil {
		return err
	}
	return cli.NewFormatter(format).FormatTo(os.Stdout, cli.SummaryTable(tracker.Summary("")))

Text output is column-aligned, CSV output writes the header row first and
JSON output encodes the table's structured Data.

Costs are shown rounded to costs.DisplayPlaces; the underlying amounts are
never rounded.
*/
package cli
