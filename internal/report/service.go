// Package report turns a stored session snapshot into a downloadable
// document. The primary renderer produces a PDF; on any failure it degrades
// to a structured plain-text file. Only when both fail does the caller see an
// error.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"medmind/internal/snapshot"
)

const (
	FormatPDF  = "pdf"
	FormatText = "text"
)

// Service renders assessment reports into outputDir.
type Service struct {
	outputDir string
	fontPath  string
}

// NewService creates the renderer. fontPath may be empty; the PDF renderer
// then probes a few common DejaVuSans locations and falls back to text
// rendering when none exists.
func NewService(outputDir, fontPath string) (*Service, error) {
	if strings.TrimSpace(outputDir) == "" {
		outputDir = os.TempDir()
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}
	return &Service{outputDir: outputDir, fontPath: fontPath}, nil
}

// Render produces a report file for the snapshot and returns its path and
// format.
func (s *Service) Render(snap snapshot.Snapshot) (path, format string, err error) {
	name := fmt.Sprintf("medmind_report_%s", uuid.NewString())

	pdfPath := filepath.Join(s.outputDir, name+".pdf")
	if pdfErr := s.renderPDF(snap, pdfPath); pdfErr == nil {
		return pdfPath, FormatPDF, nil
	}

	txtPath := filepath.Join(s.outputDir, name+".txt")
	if txtErr := renderText(snap, txtPath); txtErr != nil {
		return "", "", fmt.Errorf("render report: %w", txtErr)
	}
	return txtPath, FormatText, nil
}

func renderText(snap snapshot.Snapshot, path string) error {
	now := time.Now()
	diagnosis := snap.Diagnosis
	if strings.TrimSpace(diagnosis) == "" {
		diagnosis = "Please complete your medical assessment in the chat for detailed results."
	}

	var b strings.Builder
	b.WriteString("MEDMIND AI - MEDICAL ASSESSMENT REPORT\n")
	b.WriteString("====================================\n\n")
	b.WriteString("PATIENT INFORMATION:\n")
	b.WriteString("-------------------\n")
	fmt.Fprintf(&b, "Name: %s\n", snap.PatientName)
	fmt.Fprintf(&b, "Age: %d years\n", snap.Age)
	fmt.Fprintf(&b, "Gender: %s\n", snap.Gender)
	fmt.Fprintf(&b, "Language: %s\n", snap.Language)
	fmt.Fprintf(&b, "Assessment Date: %s\n", now.Format("January 2, 2006"))
	fmt.Fprintf(&b, "Report Generated: %s\n\n", now.Format("January 2, 2006 at 3:04 PM"))
	b.WriteString("MEDICAL ASSESSMENT RESULTS:\n")
	b.WriteString("--------------------------\n")
	b.WriteString(diagnosis)
	b.WriteString("\n\n")
	b.WriteString("IMPORTANT MEDICAL DISCLAIMER:\n")
	b.WriteString("----------------------------\n")
	b.WriteString(disclaimerText)
	fmt.Fprintf(&b, "\nReport ID: TXT-%s\n", now.Format("20060102150405"))

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write text report: %w", err)
	}
	return nil
}

const disclaimerText = `This report is generated by MedMind AI for educational purposes only.
It is NOT a substitute for professional medical advice, diagnosis, or treatment.
Always consult with qualified healthcare professionals for medical concerns.
In case of medical emergency, contact your local emergency services immediately.
`
