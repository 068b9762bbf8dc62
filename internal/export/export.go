// Package export writes a lead batch to CSV or XLSX for the external
// presentation/export collaborator.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/leadscout/internal/model"
)

var header = []string{
	"id", "name", "address", "phone", "email", "website", "owner",
	"lat", "lng", "distance_km", "rating", "review_count",
	"source", "maps_url", "last_updated",
}

// WriteFile writes leads to path, choosing the format by extension
// (.csv or .xlsx).
func WriteFile(path string, leads []model.Lead) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Create(path)
		if err != nil {
			return eris.Wrap(err, "export: create file")
		}
		defer f.Close()
		return WriteCSV(f, leads)
	case ".xlsx":
		return WriteXLSX(path, leads)
	default:
		return eris.Errorf("export: unsupported extension %q", filepath.Ext(path))
	}
}

// WriteCSV writes leads as CSV rows.
func WriteCSV(w io.Writer, leads []model.Lead) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	for _, lead := range leads {
		if err := cw.Write(row(lead)); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush")
}

// WriteXLSX writes leads to a single-sheet workbook.
func WriteXLSX(path string, leads []model.Lead) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Leads")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	hr := sheet.AddRow()
	for _, h := range header {
		hr.AddCell().Value = h
	}

	for _, lead := range leads {
		r := sheet.AddRow()
		for _, cell := range row(lead) {
			r.AddCell().Value = cell
		}
	}

	return eris.Wrap(f.Save(path), "export: save xlsx")
}

func row(l model.Lead) []string {
	return []string{
		l.ID,
		l.Name,
		l.Address,
		strOrEmpty(l.Phone),
		strOrEmpty(l.Email),
		strOrEmpty(l.Website),
		strOrEmpty(l.Owner),
		formatFloat(l.Lat),
		formatFloat(l.Lng),
		floatOrEmpty(l.DistanceKm),
		floatOrEmpty(l.Rating),
		intOrEmpty(l.ReviewCount),
		l.Source,
		l.MapsURL,
		l.LastUpdated.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func floatOrEmpty(p *float64) string {
	if p == nil {
		return ""
	}
	return formatFloat(*p)
}

func intOrEmpty(p *int) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%d", *p)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
