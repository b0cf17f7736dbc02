package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
)

// UTF8BOM is written ahead of the CSV so spreadsheet applications pick UTF-8.
var UTF8BOM = []byte{0xEF, 0xBB, 0xBF}

// Header is the first CSV line.
var Header = []string{"Parameter", "Value"}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// WriteCSV writes rows as two-column CSV (label, value) prefixed with a BOM.
func WriteCSV(w io.Writer, rows []Row) error {
	if _, err := w.Write(UTF8BOM); err != nil {
		return fmt.Errorf("failed to write byte order mark: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write([]string{row.Label, row.Value}); err != nil {
			return fmt.Errorf("failed to write csv row %q: %w", row.Label, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	return nil
}

// FileName is the download name for a station export.
func FileName(wmo string) string {
	return "ashrae_station_" + unsafeFileChars.ReplaceAllString(wmo, "_") + "_data.csv"
}
