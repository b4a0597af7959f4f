package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"salary-backend/internal/dataset"
)

// TabulaExtractor shells out to tabula-java, which needs a Java runtime.
type TabulaExtractor struct {
	JarPath string
	// Java is the java executable; empty means look it up on PATH.
	Java string
}

func (TabulaExtractor) Name() string { return "tabula" }

// Check verifies the Java runtime and jar are available.
func (e TabulaExtractor) Check() (string, error) {
	java := e.Java
	if java == "" {
		java = "java"
	}
	path, err := exec.LookPath(java)
	if err != nil {
		return "", &DependencyError{Dependency: "Java Runtime Environment", Remediation: javaRemediation, Err: err}
	}
	if strings.TrimSpace(e.JarPath) == "" {
		return "", &DependencyError{Dependency: "tabula-java", Remediation: javaRemediation, Err: errors.New("TABULA_JAR is not set")}
	}
	if _, err := os.Stat(e.JarPath); err != nil {
		return "", &DependencyError{Dependency: "tabula-java", Remediation: javaRemediation, Err: err}
	}
	return path, nil
}

// Extract runs tabula over all pages and parses its CSV output.
func (e TabulaExtractor) Extract(ctx context.Context, data []byte) (*dataset.Table, error) {
	java, err := e.Check()
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "batch-*.pdf")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, java, "-jar", e.JarPath, "--pages", "all", "--format", "CSV", tmp.Name())
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		msg := strings.TrimSpace(stderr.String())
		if strings.Contains(strings.ToLower(msg), "java") && strings.Contains(strings.ToLower(msg), "version") {
			return nil, &DependencyError{Dependency: "Java Runtime Environment", Remediation: javaRemediation, Err: errors.New(msg)}
		}
		return nil, fmt.Errorf("%w: tabula: %v: %s", ErrMalformedDocument, err, msg)
	}

	if strings.TrimSpace(stdout.String()) == "" {
		return nil, ErrNoTables
	}
	t, err := dataset.ReadCSV(&stdout)
	if err != nil {
		return nil, fmt.Errorf("%w: tabula output: %v", ErrMalformedDocument, err)
	}
	return dropRepeatedHeaders(t), nil
}

func dropRepeatedHeaders(t *dataset.Table) *dataset.Table {
	rows := t.Rows[:0]
	for _, row := range t.Rows {
		if !equalCells(row, t.Columns) {
			rows = append(rows, row)
		}
	}
	t.Rows = rows
	return t
}
