package exporter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"followdeck/internal/model"
)

// Format selects the export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/followdeck-export-<list>-YYYY-MM-DD.<ext>
func DefaultExportPath(listID string, format Format) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("followdeck-export-%s-%s.%s", listID, time.Now().Format("2006-01-02"), format)
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportJSON encodes a list's accounts as indented JSON.
func ExportJSON(accounts []model.Account) ([]byte, error) {
	if accounts == nil {
		accounts = []model.Account{}
	}
	return json.MarshalIndent(accounts, "", "  ")
}

var csvHeader = []string{"id", "displayName", "handle", "lastCheckedDate", "addedDate", "amount", "favorite", "deleted"}

// ExportCSV encodes a list's accounts as CSV with a header row.
func ExportCSV(accounts []model.Account) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, a := range accounts {
		row := []string{
			a.ID,
			a.DisplayName,
			a.Handle,
			a.LastCheckedDate,
			a.AddedDate,
			a.Amount,
			fmt.Sprintf("%t", a.Favorite),
			fmt.Sprintf("%t", a.Deleted),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Export encodes accounts in the given format.
func Export(accounts []model.Account, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return ExportJSON(accounts)
	case FormatCSV:
		return ExportCSV(accounts)
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}
