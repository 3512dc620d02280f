package acquire

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// nativeText validates the document with pdfcpu, then reads the text of each page
// row by row, one output line per row.
func (e *Extractor) nativeText(ctx context.Context, path string) (text string, pages int, warnings []string, err error) {
	pages, err = validatePDF(path)
	if err != nil {
		return "", 0, nil, err
	}
	if e.cfg.MaxPages > 0 && pages > e.cfg.MaxPages {
		warnings = append(warnings, fmt.Sprintf("only the first %d of %d pages were read", e.cfg.MaxPages, pages))
		pages = e.cfg.MaxPages
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", 0, warnings, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()
	if n := r.NumPage(); n < pages {
		pages = n
	}

	var b strings.Builder
	for pageNr := 1; pageNr <= pages; pageNr++ {
		if err := ctx.Err(); err != nil {
			return "", 0, warnings, err
		}
		pageText, err := pageRows(r, pageNr)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("page %d: %v", pageNr, err))
			continue
		}
		if pageText == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(pageText)
	}
	return b.String(), pages, warnings, nil
}

func validatePDF(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	pctx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("pdfcpu read: %w", err)
	}
	return pctx.PageCount, nil
}

// pageRows returns the text of one page, top row first. The reader panics on some
// malformed content streams; that is reported as a page error.
func pageRows(r *pdf.Reader, pageNr int) (text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("malformed page content: %v", p)
		}
	}()

	page := r.Page(pageNr)
	if page.V.IsNull() {
		return "", nil
	}
	rows, err := page.GetTextByRow()
	if err != nil {
		return "", err
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Position > rows[j].Position })

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, joinRow(row.Content))
	}
	return cleanLines(strings.Join(lines, "\n")), nil
}

// joinRow concatenates the text runs of a row from left to right. Separate runs are
// separate words or cells, so they are joined with a space.
func joinRow(runs pdf.TextHorizontal) string {
	sorted := make([]pdf.Text, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	parts := make([]string, 0, len(sorted))
	for _, t := range sorted {
		parts = append(parts, t.S)
	}
	return strings.Join(parts, " ")
}

// cleanLines collapses blank runs inside lines and drops empty lines.
func cleanLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		l = strings.Join(strings.Fields(l), " ")
		if l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
