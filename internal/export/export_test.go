package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/guttosm/loadplan-service/internal/domain/model"
)

func palletBox() model.Container {
	return model.Container{ID: 1, Name: "Pallet box", InnerWidth: 600, InnerDepth: 400, InnerHeight: 200}
}

func halfBox() model.Container {
	return model.Container{ID: 2, InnerWidth: 300, InnerDepth: 400, InnerHeight: 200}
}

func singleItemDoc() Document {
	return Document{
		Reference: "PO-4711",
		Items:     []model.Item{{SKU: "CARTON-60", Width: 60, Depth: 40, Height: 20, UnitWeight: 0.5}},
		Result: model.PlanResult{
			PlanID:    "3f1c0d3e-6a43-4c84-9d6b-9d0c4b1e2a10",
			Mode:      model.ModeStandard,
			Requested: 1500,
			Shipped:   1500,
			Shipments: []model.Shipment{
				{Container: palletBox(), Layout: &model.Plan{ContainerID: 1, Capacity: 1000}, Quantity: 1000},
				{Container: halfBox(), Layout: &model.Plan{ContainerID: 2, Capacity: 500}, Quantity: 500},
			},
		},
		GeneratedAt: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}
}

func multiItemDoc() Document {
	return Document{
		Items: []model.Item{{Name: "Crate"}, {SKU: "TIN"}},
		Result: model.PlanResult{
			PlanID: "multi",
			Mode:   model.ModeMulti,
			Shipments: []model.Shipment{
				{Container: palletBox(), Layout: &model.ExtendedPlan{ContainerID: 1, TotalCapacity: 3}, Quantity: 3, ItemQuantities: []int{1, 2}},
				{Container: palletBox(), Layout: &model.ExtendedPlan{ContainerID: 1, TotalCapacity: 2}, Quantity: 2, ItemQuantities: []int{0, 2}},
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{input: "csv", expected: FormatCSV},
		{input: " XLSX ", expected: FormatXLSX},
		{input: "Pdf", expected: FormatPDF},
		{input: "json", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnsupportedFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f)
		})
	}
}

func TestFormat_Metadata(t *testing.T) {
	assert.Equal(t, "text/csv", FormatCSV.ContentType())
	assert.Equal(t, "application/pdf", FormatPDF.ContentType())
	assert.Equal(t, "loadplan-3f1c0d3e.xlsx", FormatXLSX.Filename("3f1c0d3e-6a43"))
	assert.Equal(t, "loadplan-x.csv", FormatCSV.Filename("x"))
}

func TestRows(t *testing.T) {
	tests := []struct {
		name     string
		doc      Document
		expected []Row
	}{
		{
			name: "single item",
			doc:  singleItemDoc(),
			expected: []Row{
				{Shipment: 1, ContainerID: 1, Container: "Pallet box", Layout: model.LayoutStandard, Item: "CARTON-60", Quantity: 1000, Capacity: 1000, Weight: 500},
				{Shipment: 2, ContainerID: 2, Container: "300 x 400 x 200", Layout: model.LayoutStandard, Item: "CARTON-60", Quantity: 500, Capacity: 500, Weight: 250},
			},
		},
		{
			name: "multi item skips empty counts",
			doc:  multiItemDoc(),
			expected: []Row{
				{Shipment: 1, ContainerID: 1, Container: "Pallet box", Layout: model.LayoutExtended, Item: "Crate", Quantity: 1, Capacity: 3},
				{Shipment: 1, ContainerID: 1, Container: "Pallet box", Layout: model.LayoutExtended, Item: "TIN", Quantity: 2, Capacity: 3},
				{Shipment: 2, ContainerID: 1, Container: "Pallet box", Layout: model.LayoutExtended, Item: "TIN", Quantity: 2, Capacity: 2},
			},
		},
		{
			name:     "no shipments",
			doc:      Document{},
			expected: []Row{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Rows(tt.doc))
		})
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, singleItemDoc()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, header, records[0])
	assert.Equal(t, []string{"1", "1", "Pallet box", "standard", "CARTON-60", "1000", "1000", "500.00"}, records[1])
	assert.Equal(t, "500", records[2][5])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, multiItemDoc()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{shipmentSheet, summarySheet}, f.GetSheetList())

	rows, err := f.GetRows(shipmentSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, header[:7], rows[0][:7])
	assert.Equal(t, []string{"1", "1", "Pallet box", "extended", "TIN", "2", "3"}, rows[2])

	planID, err := f.GetCellValue(summarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "multi", planID)
	shipments, err := f.GetCellValue(summarySheet, "B7")
	require.NoError(t, err)
	assert.Equal(t, "2", shipments)
}

func TestWritePDF(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
	}{
		{name: "labels", doc: singleItemDoc()},
		{name: "multi item labels", doc: multiItemDoc()},
		{name: "summary only", doc: Document{Result: model.PlanResult{PlanID: "empty", Leftover: 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, FormatPDF, tt.doc))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
		})
	}
}

func TestCollectLabels(t *testing.T) {
	labels := CollectLabels(multiItemDoc())
	require.Len(t, labels, 2)

	assert.Equal(t, LabelInfo{
		PlanID:      "multi",
		Shipment:    1,
		Of:          2,
		ContainerID: 1,
		Container:   "Pallet box",
		Quantity:    3,
		Items:       map[string]int{"Crate": 1, "TIN": 2},
	}, labels[0])
	assert.Equal(t, map[string]int{"TIN": 2}, labels[1].Items)
}

func TestWrite_UnsupportedFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, Format("docx"), singleItemDoc())
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}
