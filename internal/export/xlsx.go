package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	shipmentSheet = "Shipments"
	summarySheet  = "Summary"
)

// WriteXLSX writes a workbook with the shipment table and a plan summary.
func WriteXLSX(w io.Writer, doc Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), shipmentSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	rows := [][]interface{}{toCells(header)}
	for _, r := range Rows(doc) {
		var weight interface{}
		if r.Weight > 0 {
			weight = r.Weight
		}
		rows = append(rows, []interface{}{
			r.Shipment, r.ContainerID, r.Container, string(r.Layout), r.Item, r.Quantity, r.Capacity, weight,
		})
	}
	if err := setRows(f, shipmentSheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(shipmentSheet, "A1", "H1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetColWidth(shipmentSheet, "C", "E", 24); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	res := doc.Result
	summary := [][]interface{}{
		{"Plan ID", res.PlanID},
		{"Reference", doc.Reference},
		{"Mode", string(res.Mode)},
		{"Requested", res.Requested},
		{"Shipped", res.Shipped},
		{"Leftover", res.Leftover},
		{"Shipments", len(res.Shipments)},
		{"Generated", doc.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
	}
	if err := setRows(f, summarySheet, summary); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(summary)), bold); err != nil {
		return fmt.Errorf("style summary: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func setRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		for j, cell := range row {
			if cell == nil {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("cell reference: %w", err)
			}
			if err := f.SetCellValue(sheet, ref, cell); err != nil {
				return fmt.Errorf("set %s!%s: %w", sheet, ref, err)
			}
		}
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
