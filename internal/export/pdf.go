package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into the QR code of a shipment label.
type LabelInfo struct {
	PlanID      string         `json:"plan_id"`
	Reference   string         `json:"reference,omitempty"`
	Shipment    int            `json:"shipment"`
	Of          int            `json:"of"`
	ContainerID int            `json:"container_id"`
	Container   string         `json:"container"`
	Quantity    int            `json:"quantity"`
	Items       map[string]int `json:"items"`
}

// Label layout for A4 sheets of 2 x 7 labels (99.1 x 38.1 mm).
const (
	labelMarginTop  = 15.1
	labelMarginLeft = 4.65
	labelGapX       = 2.5
	labelWidth      = 99.1
	labelHeight     = 38.1
	labelCols       = 2
	labelRows       = 7
	labelsPerPage   = labelCols * labelRows
	qrSize          = 32.0
	labelPadding    = 3.0

	pageMargin = 15.0
	pageWidth  = 210.0
)

// CollectLabels returns one label per shipment.
func CollectLabels(doc Document) []LabelInfo {
	shipments := doc.Result.Shipments
	labels := make([]LabelInfo, 0, len(shipments))
	byShipment := make(map[int]map[string]int, len(shipments))
	for _, r := range Rows(doc) {
		if byShipment[r.Shipment] == nil {
			byShipment[r.Shipment] = make(map[string]int)
		}
		byShipment[r.Shipment][r.Item] += r.Quantity
	}
	for i, s := range shipments {
		labels = append(labels, LabelInfo{
			PlanID:      doc.Result.PlanID,
			Reference:   doc.Reference,
			Shipment:    i + 1,
			Of:          len(shipments),
			ContainerID: s.Container.ID,
			Container:   containerLabel(s.Container),
			Quantity:    s.Quantity,
			Items:       byShipment[i+1],
		})
	}
	return labels
}

// WritePDF writes a summary page followed by the shipment labels.
func WritePDF(w io.Writer, doc Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)

	pdf.AddPage()
	renderSummary(pdf, doc)

	for i, label := range CollectLabels(doc) {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}
		pos := i % labelsPerPage
		x := labelMarginLeft + float64(pos%labelCols)*(labelWidth+labelGapX)
		y := labelMarginTop + float64(pos/labelCols)*labelHeight
		if err := renderLabel(pdf, x, y, i, label); err != nil {
			return fmt.Errorf("render label %d: %w", label.Shipment, err)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func renderSummary(pdf *fpdf.Fpdf, doc Document) {
	res := doc.Result
	width := pageWidth - 2*pageMargin

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(pageMargin, pageMargin)
	pdf.CellFormat(width, 10, "Load plan", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	lines := []string{
		fmt.Sprintf("Plan: %s", res.PlanID),
		fmt.Sprintf("Mode: %s", res.Mode),
		fmt.Sprintf("Units: %d requested, %d shipped, %d left over", res.Requested, res.Shipped, res.Leftover),
		fmt.Sprintf("Shipments: %d", len(res.Shipments)),
		fmt.Sprintf("Generated: %s", doc.GeneratedAt.Format("2006-01-02 15:04 MST")),
	}
	if doc.Reference != "" {
		lines = append([]string{"Reference: " + doc.Reference}, lines...)
	}
	for _, line := range lines {
		pdf.SetX(pageMargin)
		pdf.CellFormat(width, 6, line, "", 1, "L", false, 0, "")
	}

	pdf.Ln(4)
	cols := []float64{18, 52, 22, 50, 20, 18}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.SetX(pageMargin)
	for i, h := range []string{"Shipment", "Container", "Layout", "Item", "Quantity", "Capacity"} {
		pdf.CellFormat(cols[i], 6, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, r := range Rows(doc) {
		if pdf.GetY() > 297-pageMargin-6 {
			pdf.AddPage()
			pdf.SetY(pageMargin)
		}
		pdf.SetX(pageMargin)
		for i, v := range []string{
			fmt.Sprint(r.Shipment), truncate(pdf, r.Container, cols[1]), string(r.Layout),
			truncate(pdf, r.Item, cols[3]), fmt.Sprint(r.Quantity), fmt.Sprint(r.Capacity),
		} {
			pdf.CellFormat(cols[i], 6, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func renderLabel(pdf *fpdf.Fpdf, x, y float64, n int, info LabelInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshal label info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d", n)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions(imgName, x+labelWidth-qrSize-labelPadding, y+(labelHeight-qrSize)/2, qrSize, qrSize, false, opts, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 5, fmt.Sprintf("Shipment %d / %d", info.Shipment, info.Of), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(textX, y+labelPadding+6)
	pdf.CellFormat(textW, 4, truncate(pdf, info.Container, textW), "", 1, "L", false, 0, "")

	lineY := y + labelPadding + 11
	for _, line := range itemLines(info.Items) {
		if lineY > y+labelHeight-labelPadding-7 {
			break
		}
		pdf.SetXY(textX, lineY)
		pdf.CellFormat(textW, 3.5, truncate(pdf, line, textW), "", 1, "L", false, 0, "")
		lineY += 3.5
	}

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelHeight-labelPadding-3)
	footer := info.PlanID
	if info.Reference != "" {
		footer = info.Reference
	}
	pdf.CellFormat(textW, 3, truncate(pdf, footer, textW), "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	return nil
}

func itemLines(items map[string]int) []string {
	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	sort.Strings(names)
	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = fmt.Sprintf("%d x %s", items[name], name)
	}
	return lines
}

func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}
