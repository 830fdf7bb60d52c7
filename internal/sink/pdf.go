package sink

import (
    "fmt"
    "time"

    "github.com/jung-kurt/gofpdf"

    "github.com/hyperifyio/emailextract/internal/aggregate"
    "github.com/hyperifyio/emailextract/internal/source"
)

// Report carries the header shown above the address list in a PDF.
type Report struct {
    Source      string
    RunID       string
    GeneratedAt time.Time
}

// WritePDF renders the addresses as a single-column list, each one a mailto
// link, under a short header naming the source.
func WritePDF(path string, emails *aggregate.Set, r Report) error {
    pdf := gofpdf.New("P", "mm", "A4", "")
    pdf.SetTitle("Extracted email addresses", true)
    pdf.SetFont("Helvetica", "B", 14)
    pdf.AddPage()
    pdf.CellFormat(0, 8, "Extracted email addresses", "", 1, "L", false, 0, "")

    pdf.SetFont("Helvetica", "", 9)
    // gofpdf core fonts are cp1252; the source string may contain anything.
    tr := pdf.UnicodeTranslatorFromDescriptor("")
    pdf.CellFormat(0, 5, tr("Source: "+r.Source), "", 1, "L", false, 0, "")
    if r.RunID != "" {
        pdf.CellFormat(0, 5, "Run: "+r.RunID, "", 1, "L", false, 0, "")
    }
    if !r.GeneratedAt.IsZero() {
        pdf.CellFormat(0, 5, "Generated: "+r.GeneratedAt.UTC().Format(time.RFC3339), "", 1, "L", false, 0, "")
    }
    pdf.CellFormat(0, 5, fmt.Sprintf("Addresses: %d", emails.Len()), "", 1, "L", false, 0, "")
    pdf.Ln(4)

    pdf.SetFont("Helvetica", "", 11)
    for _, e := range emails.Items() {
        pdf.WriteLinkString(6, e, "mailto:"+e)
        pdf.Ln(6)
    }

    if err := pdf.OutputFileAndClose(path); err != nil {
        return fmt.Errorf("%w: %w", source.ErrWriteFailed, err)
    }
    return nil
}
