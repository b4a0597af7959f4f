package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDetectType(t *testing.T) {
	tests := []struct {
		name     string
		mime     string
		fileName string
		data     []byte
		want     string
	}{
		{name: "csv mime", mime: "text/csv; charset=utf-8", fileName: "a.bin", want: MimeCSV},
		{name: "excel csv mime", mime: "application/vnd.ms-excel", fileName: "a.csv", want: MimeCSV},
		{name: "pdf mime", mime: "application/pdf", fileName: "a", want: MimePDF},
		{name: "octet csv ext", mime: "application/octet-stream", fileName: "people.CSV", want: MimeCSV},
		{name: "octet pdf magic", mime: "application/octet-stream", fileName: "upload", data: []byte("%PDF-1.7"), want: MimePDF},
		{name: "docx", mime: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", fileName: "a.docx", want: "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectType(tt.mime, tt.fileName, tt.data); got != tt.want {
				t.Fatalf("DetectType = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadCSV(t *testing.T) {
	ing := New(nil)
	tbl, kind, err := ing.Read(context.Background(), []byte("Age,Gender\n30,Male\n"), "text/csv", "a.csv")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if kind != MimeCSV || tbl.Len() != 1 {
		t.Fatalf("kind=%s rows=%d", kind, tbl.Len())
	}
}

func TestReadErrorsAreDistinct(t *testing.T) {
	ing := New(nil)
	ctx := context.Background()

	if _, _, err := ing.Read(ctx, []byte("x"), "image/png", "a.png"); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("png: expected ErrUnsupportedType, got %v", err)
	}
	if _, _, err := ing.Read(ctx, []byte(""), "text/csv", "a.csv"); !errors.Is(err, ErrNoTables) {
		t.Fatalf("empty csv: expected ErrNoTables, got %v", err)
	}
	_, _, err := ing.Read(ctx, []byte("%PDF-1.4 not really a pdf"), "application/pdf", "a.pdf")
	if !errors.Is(err, ErrMalformedDocument) {
		t.Fatalf("broken pdf: expected ErrMalformedDocument, got %v", err)
	}
	if errors.Is(err, ErrDependencyMissing) || errors.Is(err, ErrNoTables) {
		t.Fatalf("broken pdf matched another class: %v", err)
	}
	if _, _, err := ing.Read(ctx, []byte("Age,Age,Gender\n,30,Male\n"), "text/csv", "a.csv"); !errors.Is(err, ErrMalformedDocument) {
		t.Fatalf("duplicate header: expected ErrMalformedDocument, got %v", err)
	}
}

func TestTabulaWithoutJavaIsDependencyMissing(t *testing.T) {
	t.Setenv("PATH", "")
	ing := New(TabulaExtractor{JarPath: filepath.Join(t.TempDir(), "tabula.jar")})

	_, _, err := ing.Read(context.Background(), []byte("%PDF-1.4"), "application/pdf", "a.pdf")
	if !errors.Is(err, ErrDependencyMissing) {
		t.Fatalf("expected ErrDependencyMissing, got %v", err)
	}
	var depErr *DependencyError
	if !errors.As(err, &depErr) || !strings.Contains(depErr.Remediation, "Java") {
		t.Fatalf("expected remediation text, got %#v", err)
	}
}

func TestBuildTableClustersCellsAndSkipsRepeatedHeaders(t *testing.T) {
	word := func(x float64, s string) textRun {
		return textRun{X: x, W: float64(len(s)) * 5, FontSize: 10, S: s}
	}
	header := []textRun{word(10, "Age"), word(80, "Job"), word(98, "Title"), word(200, "Industry")}
	lines := [][]textRun{
		{word(10, "Employees")},
		header,
		{word(10, "30"), word(80, "Data"), word(104, "Analyst"), word(200, "Technology")},
		header,
		{word(10, "41"), word(80, "Engineer"), word(200, "Finance")},
		{word(10, "Page"), word(35, "2")},
	}

	tbl, err := buildTable(lines)
	if err != nil {
		t.Fatalf("buildTable: %v", err)
	}
	if want := []string{"Age", "Job Title", "Industry"}; !reflect.DeepEqual(tbl.Columns, want) {
		t.Fatalf("columns = %v, want %v", tbl.Columns, want)
	}
	want := [][]string{
		{"30", "Data Analyst", "Technology"},
		{"41", "Engineer", "Finance"},
	}
	if !reflect.DeepEqual(tbl.Rows, want) {
		t.Fatalf("rows = %v, want %v", tbl.Rows, want)
	}
}

func TestBuildTableWithoutHeaderIsNoTables(t *testing.T) {
	lines := [][]textRun{{{X: 10, W: 40, FontSize: 10, S: "Just a paragraph"}}}
	if _, err := buildTable(lines); !errors.Is(err, ErrNoTables) {
		t.Fatalf("expected ErrNoTables, got %v", err)
	}
}

func TestNativeExtractorReadsPDFTable(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "roster.pdf"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	tbl, kind, err := New(nil).Read(context.Background(), data, "application/octet-stream", "roster.pdf")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if kind != MimePDF {
		t.Fatalf("kind = %s", kind)
	}
	wantCols := []string{"Age", "Gender", "Education Level", "Job Title", "Years of Experience", "Industry", "Location", "Company Size"}
	if !reflect.DeepEqual(tbl.Columns, wantCols) {
		t.Fatalf("columns = %q", tbl.Columns)
	}
	wantRows := [][]string{
		{"30", "Male", "Bachelor's", "Data Analyst", "5", "Technology", "Lagos", "Medium (51-250)"},
		{"45", "Female", "PhD", "Research Lead", "20", "Healthcare", "Abuja", "Large (251+)"},
	}
	if !reflect.DeepEqual(tbl.Rows, wantRows) {
		t.Fatalf("rows = %q", tbl.Rows)
	}
}
