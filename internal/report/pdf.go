package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/signintech/gopdf"

	"medmind/internal/snapshot"
)

// Probed when no explicit font path is configured. DejaVuSans keeps the
// widest glyph coverage of the commonly installed TTFs.
var defaultFontPaths = []string{
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

func (s *Service) renderPDF(snap snapshot.Snapshot, path string) error {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	if err := s.loadFont(&pdf); err != nil {
		return err
	}

	if err := pdf.SetFont("Report", "", 18); err != nil {
		return err
	}
	pdf.Cell(nil, "MedMind AI - Medical Assessment Report")
	pdf.Br(28)

	if err := pdf.SetFont("Report", "", 13); err != nil {
		return err
	}
	pdf.Cell(nil, "Patient Information")
	pdf.Br(18)

	if err := pdf.SetFont("Report", "", 11); err != nil {
		return err
	}
	info := []string{
		fmt.Sprintf("Name: %s", snap.PatientName),
		fmt.Sprintf("Age: %d years", snap.Age),
		fmt.Sprintf("Gender: %s", snap.Gender),
		fmt.Sprintf("Language: %s", snap.Language),
		fmt.Sprintf("Assessment Date: %s", time.Now().Format("January 2, 2006")),
	}
	for _, line := range info {
		pdf.Cell(nil, line)
		pdf.Br(14)
	}
	pdf.Br(8)

	if err := pdf.SetFont("Report", "", 13); err != nil {
		return err
	}
	pdf.Cell(nil, "Medical Assessment Results")
	pdf.Br(18)

	if err := pdf.SetFont("Report", "", 10); err != nil {
		return err
	}
	diagnosis := strings.TrimSpace(snap.Diagnosis)
	if diagnosis == "" {
		diagnosis = "Assessment: Please complete your medical evaluation for detailed results."
	}
	for _, line := range strings.Split(diagnosis, "\n") {
		line = sanitizeLine(line)
		if line == "" {
			pdf.Br(8)
			continue
		}
		wrapped, err := pdf.SplitText(line, 500)
		if err != nil {
			wrapped = []string{line}
		}
		for _, w := range wrapped {
			pdf.Cell(nil, w)
			pdf.Br(12)
		}
	}
	pdf.Br(16)

	if err := pdf.SetFont("Report", "", 11); err != nil {
		return err
	}
	pdf.Cell(nil, "IMPORTANT MEDICAL DISCLAIMER")
	pdf.Br(14)
	if err := pdf.SetFont("Report", "", 9); err != nil {
		return err
	}
	for _, line := range strings.Split(strings.TrimSpace(disclaimerText), "\n") {
		pdf.Cell(nil, line)
		pdf.Br(11)
	}

	if err := pdf.WritePdf(path); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func (s *Service) loadFont(pdf *gopdf.GoPdf) error {
	paths := defaultFontPaths
	if strings.TrimSpace(s.fontPath) != "" {
		paths = []string{s.fontPath}
	}
	var lastErr error
	for _, p := range paths {
		if err := pdf.AddTTFFont("Report", p); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}
	return fmt.Errorf("load report font: %w", lastErr)
}

// sanitizeLine strips markdown decoration and substitutes runes the PDF font
// setup cannot be trusted to carry; encoding issues must not abort a report.
func sanitizeLine(line string) string {
	line = strings.ReplaceAll(line, "**", "")
	var b strings.Builder
	b.Grow(len(line))
	for _, r := range line {
		switch {
		case r == '•':
			b.WriteString("-")
		case r < 0x2000:
			b.WriteRune(r)
		default:
			// Emoji and other symbols are dropped rather than fatal.
		}
	}
	return strings.TrimSpace(b.String())
}
