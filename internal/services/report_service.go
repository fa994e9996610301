package services

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/catalogbench/backend/internal/config"
	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// ReportService renders comparisons as printable PDF reports.
type ReportService struct {
	cfg     *config.Config
	archive *S3Service // nil when archiving is disabled
}

func NewReportService(cfg *config.Config, archive *S3Service) *ReportService {
	return &ReportService{cfg: cfg, archive: archive}
}

// ShareURL links back to the search page with the benchmark re-run.
func (s *ReportService) ShareURL(cmp *Comparison) string {
	q := url.Values{}
	q.Set("q", cmp.Keyword)
	q.Set("benchmark", "true")
	q.Set("strategy", cmp.Strategy)
	return strings.TrimRight(s.cfg.FrontendURL, "/") + "/search?" + q.Encode()
}

// RenderPDF builds an A4 report with the timings, the access paths and a QR
// code pointing at ShareURL.
func (s *ReportService) RenderPDF(cmp *Comparison, stats *CatalogStats) ([]byte, error) {
	shareURL := s.ShareURL(cmp)
	png, err := qrcode.Encode(shareURL, qrcode.Medium, 512)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, "Index Benchmark Report")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 11)
	rows := [][2]string{
		{"Keyword", cmp.Keyword},
		{"Field", cmp.Field},
		{"Strategy", cmp.Strategy},
		{"Matches", fmt.Sprintf("%d", cmp.Matches)},
		{"Indexed path", fmt.Sprintf("%.3f ms", cmp.FastTimeMs)},
		{"Unindexed path", fmt.Sprintf("%.3f ms", cmp.SlowTimeMs)},
		{"Factor", fmt.Sprintf("%.2fx", cmp.DiffFactor)},
		{"Run at", cmp.RanAt.Format("2006-01-02 15:04:05 MST")},
	}
	if cmp.TestIDUsed != nil {
		rows = append(rows, [2]string{"Benchmark order", fmt.Sprintf("%d", *cmp.TestIDUsed)})
	}
	if stats != nil {
		rows = append(rows, [2]string{"Catalog", fmt.Sprintf("%d artists, %d albums, %d tracks", stats.Artists, stats.Albums, stats.Tracks)})
	}
	for _, r := range rows {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(50, 8, r[0], "1", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 8, r[1], "1", 1, "L", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, fmt.Sprintf("Indexed: %s\nUnindexed: %s", cmp.Explanation.Fast, cmp.Explanation.Slow), "", "L", false)

	if cmp.Plans != nil {
		pdf.Ln(4)
		pdf.SetFont("Courier", "", 8)
		pdf.MultiCell(0, 4, "Indexed plan:\n"+strings.Join(cmp.Plans.Fast, "\n"), "", "L", false)
		pdf.MultiCell(0, 4, "Unindexed plan:\n"+strings.Join(cmp.Plans.Slow, "\n"), "", "L", false)
	}

	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptionsReader("qr", opt, bytes.NewReader(png))
	x := (210.0 - 60.0) / 2.0 // A4 width 210mm, QR size 60mm
	y := pdf.GetY() + 8
	pdf.ImageOptions("qr", x, y, 60, 60, false, opt, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// ArchivedReportLink points at a stored report.
type ArchivedReportLink struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Archive renders the report, uploads it and returns a presigned link.
func (s *ReportService) Archive(ctx context.Context, cmp *Comparison, stats *CatalogStats) (*ArchivedReportLink, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	data, err := s.RenderPDF(cmp, stats)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("%s-%s-%s.pdf", cmp.RanAt.Format("20060102T150405Z"), cmp.Strategy, sanitizeKeyPart(cmp.Keyword))
	key, err := s.archive.UploadReport(ctx, name, data, "application/pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to upload report: %w", err)
	}
	link, err := s.archive.PresignReport(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to presign report: %w", err)
	}
	return &ArchivedReportLink{Key: key, URL: link}, nil
}

func (s *ReportService) ListArchived(ctx context.Context) ([]ArchivedReport, error) {
	return s.archive.ListReports(ctx, 100)
}

func sanitizeKeyPart(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
		if b.Len() >= 64 {
			break
		}
	}
	if b.Len() == 0 {
		return "report"
	}
	return b.String()
}
