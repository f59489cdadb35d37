// Package export renders planning results as CSV, XLSX workbooks or PDF load labels.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/guttosm/loadplan-service/internal/domain/model"
)

// Format is an export file format.
type Format string

const (
	// FormatCSV is a flat shipment table.
	FormatCSV Format = "csv"
	// FormatXLSX is a workbook with a shipment sheet and a summary sheet.
	FormatXLSX Format = "xlsx"
	// FormatPDF is a summary page followed by one QR coded label per shipment.
	FormatPDF Format = "pdf"
)

// ErrUnsupportedFormat is returned for formats other than csv, xlsx and pdf.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat parses a case insensitive format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX, FormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Filename returns the download name for a plan.
func (f Format) Filename(planID string) string {
	if len(planID) > 8 {
		planID = planID[:8]
	}
	return fmt.Sprintf("loadplan-%s.%s", planID, f)
}

// Document is the input of every exporter.
type Document struct {
	// Reference is a free text order or delivery reference printed on the export
	Reference string
	Result    model.PlanResult
	// Items are the item types of the request in index order
	Items       []model.Item
	GeneratedAt time.Time
}

// Row is one line of the shipment table: one item type in one shipment.
type Row struct {
	Shipment    int
	ContainerID int
	Container   string
	Layout      model.LayoutKind
	Item        string
	Quantity    int
	Capacity    int
	Weight      float64
}

var header = []string{"Shipment", "Container ID", "Container", "Layout", "Item", "Quantity", "Capacity", "Weight (kg)"}

// Rows flattens the shipments of a document. Shipments are numbered from 1.
func Rows(doc Document) []Row {
	rows := make([]Row, 0, len(doc.Result.Shipments))
	for i, s := range doc.Result.Shipments {
		base := Row{
			Shipment:    i + 1,
			ContainerID: s.Container.ID,
			Container:   containerLabel(s.Container),
		}
		if s.Layout != nil {
			base.Layout = s.Layout.Kind()
			base.Capacity = s.Layout.Units()
		}

		if len(s.ItemQuantities) == 0 {
			row := base
			row.Quantity = s.Quantity
			if item, ok := itemAt(doc.Items, 0); ok {
				row.Item = item.Label()
				row.Weight = float64(s.Quantity) * item.UnitWeight
			}
			rows = append(rows, row)
			continue
		}

		for idx, n := range s.ItemQuantities {
			if n == 0 {
				continue
			}
			row := base
			row.Quantity = n
			row.Item = fmt.Sprintf("item %d", idx+1)
			if item, ok := itemAt(doc.Items, idx); ok {
				row.Item = item.Label()
				row.Weight = float64(n) * item.UnitWeight
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func (r Row) strings() []string {
	weight := ""
	if r.Weight > 0 {
		weight = fmt.Sprintf("%.2f", r.Weight)
	}
	return []string{
		fmt.Sprint(r.Shipment),
		fmt.Sprint(r.ContainerID),
		r.Container,
		string(r.Layout),
		r.Item,
		fmt.Sprint(r.Quantity),
		fmt.Sprint(r.Capacity),
		weight,
	}
}

// Write renders doc in the given format.
func Write(w io.Writer, format Format, doc Document) error {
	if doc.GeneratedAt.IsZero() {
		doc.GeneratedAt = time.Now().UTC()
	}
	switch format {
	case FormatCSV:
		return WriteCSV(w, doc)
	case FormatXLSX:
		return WriteXLSX(w, doc)
	case FormatPDF:
		return WritePDF(w, doc)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func itemAt(items []model.Item, i int) (model.Item, bool) {
	if i < 0 || i >= len(items) {
		return model.Item{}, false
	}
	return items[i], true
}

func containerLabel(c model.Container) string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("%.0f x %.0f x %.0f", c.InnerWidth, c.InnerDepth, c.InnerHeight)
}
