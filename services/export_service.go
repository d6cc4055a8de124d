package services

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// ExportContentType is the MIME type of rendered exports.
const ExportContentType = "application/pdf"

// ExportService turns aggregated survey results into a PDF document. It is
// stateless and works purely on the aggregate views, so rendering never holds
// a store transaction open.
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// Filename is the suggested attachment name for a survey's export.
func (s *ExportService) Filename(surveyTitle string) string {
	return surveyTitle + "_results.pdf"
}

// RenderPDF produces the results document: the survey title followed by one
// table per question.
func (s *ExportService) RenderPDF(surveyTitle string, views []AggregateView) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 12, surveyTitle, "", 1, "L", false, 0, "")
	pdf.Ln(6)

	for _, view := range views {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 8, view.QuestionText, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("%d response(s)", view.TotalResponses), "", 1, "L", false, 0, "")
		pdf.Ln(2)

		switch {
		case view.Choices != nil:
			renderChoiceTable(pdf, view)
		case view.ScaleValues != nil:
			renderScaleTable(pdf, view)
		default:
			renderTextTable(pdf, view)
		}
		pdf.Ln(8)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func tableHeader(pdf *gofpdf.Fpdf, widths []float64, labels []string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(128, 128, 128)
	pdf.SetTextColor(255, 255, 255)
	for i, label := range labels {
		pdf.CellFormat(widths[i], 8, label, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetFillColor(245, 245, 220)
	pdf.SetTextColor(0, 0, 0)
}

func renderChoiceTable(pdf *gofpdf.Fpdf, view AggregateView) {
	widths := []float64{100, 40, 40}
	tableHeader(pdf, widths, []string{"Choice", "Count", "Percentage"})
	for _, c := range view.Choices {
		pdf.CellFormat(widths[0], 7, c.ChoiceText, "1", 0, "L", true, 0, "")
		pdf.CellFormat(widths[1], 7, fmt.Sprintf("%d", c.Count), "1", 0, "C", true, 0, "")
		pdf.CellFormat(widths[2], 7, fmt.Sprintf("%.1f%%", c.Percentage), "1", 0, "C", true, 0, "")
		pdf.Ln(-1)
	}
}

func renderScaleTable(pdf *gofpdf.Fpdf, view AggregateView) {
	counts := make(map[int]int, len(view.ScaleValues))
	for _, v := range view.ScaleValues {
		counts[v]++
	}
	widths := []float64{60, 60}
	tableHeader(pdf, widths, []string{"Value", "Count"})
	for v := ScaleMin; v <= ScaleMax; v++ {
		if counts[v] == 0 {
			continue
		}
		pdf.CellFormat(widths[0], 7, fmt.Sprintf("%d", v), "1", 0, "C", true, 0, "")
		pdf.CellFormat(widths[1], 7, fmt.Sprintf("%d", counts[v]), "1", 0, "C", true, 0, "")
		pdf.Ln(-1)
	}
}

func renderTextTable(pdf *gofpdf.Fpdf, view AggregateView) {
	widths := []float64{90, 50, 40}
	tableHeader(pdf, widths, []string{"Answer", "Date", "User"})
	for _, e := range view.TextEntries {
		pdf.CellFormat(widths[0], 7, e.Text, "1", 0, "L", true, 0, "")
		pdf.CellFormat(widths[1], 7, e.SubmittedAt.Format("2006-01-02 15:04:05"), "1", 0, "C", true, 0, "")
		pdf.CellFormat(widths[2], 7, e.Respondent, "1", 0, "C", true, 0, "")
		pdf.Ln(-1)
	}
}
