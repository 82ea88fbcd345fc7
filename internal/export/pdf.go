package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
	"github.com/go-pdf/fpdf"

	"github.com/muurk/techguide/internal/logging"
	"github.com/muurk/techguide/internal/manualapi"
	"github.com/muurk/techguide/internal/version"
)

const (
	pageMargin   = 15.0 // mm
	titleSize    = 16.0
	bodySize     = 10.0
	lineHeight   = 5.0
	ctxCheckStep = 200
)

// boxDrawing replaces glyphs missing from the core PDF fonts.
var boxDrawing = strings.NewReplacer("─", "-", "━", "-", "│", "|", "→", "->", "✓", "v", "✗", "x")

// SanitizeFilename replaces every rune that is not an ASCII letter or digit
// with an underscore. An empty name becomes "manual".
func SanitizeFilename(device string) string {
	var b strings.Builder
	for _, r := range device {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "manual"
	}
	return b.String()
}

// Filename returns "<sanitized device>.pdf".
func Filename(device string) string {
	return SanitizeFilename(device) + ".pdf"
}

// Job is a captured manual ready to be written.
type Job struct {
	// Title is printed at the top of the first page (the device name).
	Title string

	// Lines are the captured content lines; ANSI styling is stripped.
	Lines []string

	// Path is the destination file.
	Path string
}

// NewJob creates a job writing <dir>/<sanitized device>.pdf.
func NewJob(device, dir string, lines []string) *Job {
	return &Job{
		Title: device,
		Lines: lines,
		Path:  filepath.Join(dir, Filename(device)),
	}
}

// Write typesets the job and writes the PDF atomically. It returns the page
// count. Failures are export errors.
func (j *Job) Write(ctx context.Context) (int, error) {
	pages, err := j.write(ctx)
	logging.LogExport(j.Path, pages, err)
	return pages, err
}

func (j *Job) write(ctx context.Context) (int, error) {
	if len(j.Lines) == 0 {
		return 0, manualapi.NewExportError("no results to export", ErrNothingToExport)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	clean := func(s string) string { return tr(boxDrawing.Replace(ansi.Strip(s))) }

	pdf.SetTitle(j.Title, true)
	pdf.SetCreator("techguide "+version.Version, true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pageMargin + 3)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("%s - page %d/{nb}", clean(j.Title), pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.MultiCell(0, 8, clean(j.Title), "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Courier", "", bodySize)
	for i, line := range j.Lines {
		if i%ctxCheckStep == 0 {
			if err := ctx.Err(); err != nil {
				return 0, manualapi.NewExportError("export cancelled", err)
			}
		}
		text := strings.TrimRight(clean(line), " ")
		if text == "" {
			pdf.Ln(lineHeight)
			continue
		}
		pdf.MultiCell(0, lineHeight, text, "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return 0, manualapi.NewExportError("typesetting failed", err)
	}

	if err := os.MkdirAll(filepath.Dir(j.Path), 0o755); err != nil {
		return 0, manualapi.NewExportError("creating export directory", err)
	}

	tmpPath := j.Path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return 0, manualapi.NewExportError("creating output file", err)
	}
	if err := pdf.Output(f); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return 0, manualapi.NewExportError("writing pdf", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return 0, manualapi.NewExportError("writing pdf", err)
	}
	if err := os.Rename(tmpPath, j.Path); err != nil {
		_ = os.Remove(tmpPath)
		return 0, manualapi.NewExportError("saving pdf", err)
	}

	return pdf.PageCount(), nil
}
