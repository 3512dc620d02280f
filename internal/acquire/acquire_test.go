package acquire

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/maritime-tracker/constants"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// buildTextPDF creates a one-page PDF with proper xref offsets, one text line per entry,
// each placed on its own baseline.
func buildTextPDF(lines ...string) []byte {
	var stream strings.Builder
	stream.WriteString("BT\n/F1 12 Tf\n")
	for i, l := range lines {
		stream.WriteString("1 0 0 1 72 " + strconv.Itoa(720-14*i) + " Tm\n")
		l = strings.ReplaceAll(l, `\`, `\\`)
		l = strings.ReplaceAll(l, "(", `\(`)
		l = strings.ReplaceAll(l, ")", `\)`)
		stream.WriteString("(" + l + ") Tj\n")
	}
	stream.WriteString("ET")

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, 6)

	offsets[1] = b.Len()
	b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	offsets[2] = b.Len()
	b.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	offsets[3] = b.Len()
	b.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>\nendobj\n")
	offsets[4] = b.Len()
	b.WriteString("4 0 obj\n<< /Length " + strconv.Itoa(stream.Len()) + " >>\nstream\n")
	b.WriteString(stream.String())
	b.WriteString("\nendstream\nendobj\n")
	offsets[5] = b.Len()
	b.WriteString("5 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n")

	xref := b.Len()
	b.WriteString("xref\n0 6\n0000000000 65535 f \n")
	for i := 1; i <= 5; i++ {
		b.WriteString(padOffset(offsets[i]) + " 00000 n \n")
	}
	b.WriteString("trailer\n<< /Size 6 /Root 1 0 R >>\nstartxref\n" + strconv.Itoa(xref) + "\n%%EOF\n")
	return []byte(b.String())
}

func padOffset(n int) string {
	s := strconv.Itoa(n)
	return strings.Repeat("0", 10-len(s)) + s
}

type fakeRunner struct {
	stdout, stderr []byte
	err            error
	name           string
	args           []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.name, f.args = name, args
	return f.stdout, f.stderr, f.err
}

func TestExtract_PDFKeepsLines(t *testing.T) {
	path := writeFile(t, "report.pdf", buildTextPDF("Vessel Name: MAERSK GIRONDE", "Port: Colonel Island"))

	res, err := NewExtractor(Config{}, nil).Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, constants.PDF, res.SourceKind)
	assert.Equal(t, MethodNative, res.Method)
	assert.Equal(t, 1, res.Pages)
	assert.Equal(t, "Vessel Name: MAERSK GIRONDE\nPort: Colonel Island", res.Text)
}

func TestExtract_PDFWithoutText(t *testing.T) {
	path := writeFile(t, "blank.pdf", buildTextPDF())

	_, err := NewExtractor(Config{}, nil).Extract(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmpty))
	assert.Equal(t, "No text could be extracted from PDF or PDF is empty.", err.Error())
}

func TestExtract_CorruptPDF(t *testing.T) {
	path := writeFile(t, "broken.pdf", []byte("not a pdf at all"))

	_, err := NewExtractor(Config{}, nil).Extract(context.Background(), path)
	require.Error(t, err)
	ae, ok := AsAcquisitionError(err)
	require.True(t, ok)
	assert.Equal(t, ReasonUnreadable, ae.Reason)
	assert.True(t, strings.HasPrefix(ae.Message, "Error reading PDF: "))
}

func TestExtract_Pdftotext(t *testing.T) {
	path := writeFile(t, "report.pdf", []byte("%PDF-1.4"))
	e := NewExtractor(Config{PDFEngine: EnginePdftotext, Pdftotext: "/opt/poppler/pdftotext", MaxPages: 3}, nil)
	fr := &fakeRunner{stdout: []byte("Vessel Name:   ALPHA\fBerth: 2\f")}
	e.runner = fr

	res, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/poppler/pdftotext", fr.name)
	assert.Contains(t, fr.args, "-l")
	assert.Equal(t, path, fr.args[len(fr.args)-2])
	assert.Equal(t, MethodPdftotext, res.Method)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, "Vessel Name: ALPHA\nBerth: 2", res.Text)
}

func TestExtract_PdftotextFailure(t *testing.T) {
	path := writeFile(t, "report.pdf", []byte("%PDF-1.4"))
	e := NewExtractor(Config{PDFEngine: EnginePdftotext}, nil)
	e.runner = &fakeRunner{stderr: []byte("Syntax Error"), err: errors.New("exit status 1")}

	res, err := e.Extract(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnreadable))
	assert.Equal(t, []string{"Syntax Error"}, res.Warnings)
}

func TestExtract_PlainText(t *testing.T) {
	tests := []struct {
		name string
		kind constants.SourceKind
	}{
		{"ops.txt", constants.TEXT},
		{"ops.CSV", constants.CSV},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Vessel Name:\tALPHA  \r\nDate: 3/5/2025\r\n\r\n\r\n\r\nBerth: 1")...)
			path := writeFile(t, tt.name, data)

			res, err := NewExtractor(Config{}, nil).Extract(context.Background(), path)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, res.SourceKind)
			assert.Equal(t, MethodPlain, res.Method)
			assert.Equal(t, "Vessel Name: ALPHA\nDate: 3/5/2025\n\nBerth: 1", res.Text)
		})
	}
}

func TestExtract_InvalidUTF8Warns(t *testing.T) {
	path := writeFile(t, "ops.txt", []byte("Port: Savannah \xff"))
	res, err := NewExtractor(Config{}, nil).Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, res.Warnings, 1)
	assert.Equal(t, "Port: Savannah �", res.Text)
}

func TestExtract_EmptyPlainFiles(t *testing.T) {
	e := NewExtractor(Config{}, nil)

	_, err := e.Extract(context.Background(), writeFile(t, "a.csv", []byte("  \n\t ")))
	require.ErrorIs(t, err, ErrEmpty)
	assert.Equal(t, "CSV file is empty or contains only whitespace.", err.Error())

	_, err = e.Extract(context.Background(), writeFile(t, "a.txt", nil))
	require.ErrorIs(t, err, ErrEmpty)
	assert.Equal(t, "TXT file is empty or contains only whitespace.", err.Error())
}

func TestExtract_Unsupported(t *testing.T) {
	_, err := NewExtractor(Config{}, nil).Extract(context.Background(), writeFile(t, "scan.jpg", []byte{1}))
	require.ErrorIs(t, err, ErrUnsupported)
	assert.Equal(t, "Unsupported file type. Please use PDF, CSV, or TXT files.", err.Error())
}

func TestExtract_Missing(t *testing.T) {
	_, err := NewExtractor(Config{}, nil).Extract(context.Background(), filepath.Join(t.TempDir(), "gone.txt"))
	require.ErrorIs(t, err, ErrUnreadable)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExtract_TooLarge(t *testing.T) {
	path := writeFile(t, "big.txt", []byte(strings.Repeat("x", 64)))

	_, err := NewExtractor(Config{MaxFileSize: 32}, nil).Extract(context.Background(), path)
	require.ErrorIs(t, err, ErrTooLarge)

	_, err = NewExtractor(Config{MaxFileSize: -1}, nil).Extract(context.Background(), path)
	require.NoError(t, err)
}

func TestPreview(t *testing.T) {
	short := strings.Repeat("a", PreviewLimit)
	assert.Equal(t, short, Preview(short))

	long := strings.Repeat("é", PreviewLimit+5)
	got := Preview(long)
	assert.Equal(t, strings.Repeat("é", PreviewLimit)+"...", got)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "a b\nc\n\nd", Normalize("  a\t\tb  \r\nc\r\r\r\rd \n"))
}
