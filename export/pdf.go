// Package export renders read-only report artifacts over the stores. It owns
// no state of its own.
package export

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // Decode checks must cover every upload format.
	_ "image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"retinascope/models"
)

// AnnotationReport Render the one-image annotation report. The embedded
// image is best-effort: when blob is missing or does not decode, the picture
// is skipped and the text continues.
func AnnotationReport(img models.Image, anns []models.Annotation, blob io.Reader) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Annotation Report", "", 1, "C", false, 0, "")

	embedImage(pdf, img.Filename, blob)

	pdf.Ln(60)
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 10, fmt.Sprintf("Patient: %s  (ID: %s)", img.PatientName, img.PatientID), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 10, fmt.Sprintf("Image file: %s", img.Filename), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 10, fmt.Sprintf("Uploaded: %s", img.UploadedAt.Format("2006-01-02 15:04:05")), "", 1, "", false, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, "Annotations:", "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	if len(anns) == 0 {
		pdf.CellFormat(0, 8, "Aucune annotation.", "", 1, "", false, 0, "")
	}
	for _, a := range anns {
		user := "-"
		if a.CreatedBy != nil {
			user = *a.CreatedBy
		}
		line := fmt.Sprintf("- %s | Stage: %s | User: %s | Date: %s",
			capitalize(a.Type), a.Severity, user, a.CreatedAt.Format("2006-01-02 15:04"))
		pdf.CellFormat(0, 8, line, "", 1, "", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// embedImage Place the uploaded image on the page. The blob is re-encoded to
// PNG after a decode check so a corrupt upload can never poison the document.
func embedImage(pdf *gofpdf.Fpdf, name string, blob io.Reader) {
	if blob == nil {
		return
	}
	src, _, err := image.Decode(blob)
	if err != nil {
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		return
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, &buf)
	pdf.ImageOptions(name, 10, 30, 120, 0, false, opts, 0, "")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
