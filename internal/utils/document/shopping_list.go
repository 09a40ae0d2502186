package document

import (
	"Foodgram-Backend/domain"
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
)

// RenderShoppingList lays out aggregated shopping-list rows as a PDF document.
// It is a pure function of its inputs: rows in, bytes out.
func RenderShoppingList(items []domain.ShoppingListItem, username string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 25)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()

	// Header band
	pdf.SetFillColor(74, 144, 217)
	pdf.Rect(0, 0, pageWidth, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetY(8)
	pdf.CellFormat(0, 12, "Shopping List", "", 1, "C", false, 0, "")

	// Date and user
	pdf.SetTextColor(102, 102, 102)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetY(36)
	pdf.CellFormat(0, 5, fmt.Sprintf("Date: %s", time.Now().Format("02.01.2006")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("User: %s", username), "", 1, "L", false, 0, "")

	pdf.SetDrawColor(224, 224, 224)
	pdf.SetLineWidth(0.3)
	pdf.Line(15, 50, pageWidth-15, 50)
	pdf.SetY(55)

	for i, item := range items {
		if i%2 == 1 {
			pdf.SetFillColor(245, 245, 245)
			pdf.Rect(15, pdf.GetY(), pageWidth-30, 9, "F")
		}

		pdf.SetX(17)
		pdf.SetTextColor(74, 144, 217)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(10, 9, fmt.Sprintf("%d.", i+1), "", 0, "L", false, 0, "")

		pdf.SetTextColor(51, 51, 51)
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(pageWidth-92, 9, capitalize(item.Name), "", 0, "L", false, 0, "")

		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(50, 9, fmt.Sprintf("%d %s", item.TotalAmount, item.MeasurementUnit), "", 1, "R", false, 0, "")
	}

	pdf.SetDrawColor(74, 144, 217)
	pdf.SetLineWidth(0.6)
	pdf.Line(15, pdf.GetY()+2, pageWidth-15, pdf.GetY()+2)

	pdf.SetY(pdf.GetY() + 6)
	pdf.SetTextColor(51, 51, 51)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, fmt.Sprintf("Total items: %d", len(items)), "", 1, "L", false, 0, "")

	pdf.SetTextColor(153, 153, 153)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetY(-15)
	pdf.CellFormat(0, 5, "Foodgram - your grocery assistant", "", 0, "C", false, 0, "")

	var buffer bytes.Buffer
	if err := pdf.Output(&buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	// Ingredient names are frequently non-ASCII, so the first rune must
	// be decoded rather than sliced as a byte.
	r, size := utf8.DecodeRuneInString(s)
	return strings.ToUpper(string(r)) + s[size:]
}
