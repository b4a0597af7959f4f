package ingest

import "errors"

var (
	// ErrDependencyMissing means the PDF extraction runtime is unavailable.
	// Errors wrapping it carry installation instructions.
	ErrDependencyMissing = errors.New("pdf extraction dependency missing")

	// ErrNoTables means the document parsed but held no table.
	ErrNoTables = errors.New("no tables found in document")

	// ErrMalformedDocument means the payload could not be parsed.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrUnsupportedType means the upload is neither CSV nor PDF.
	ErrUnsupportedType = errors.New("unsupported file type")
)

// DependencyError describes a missing runtime and how to install it.
type DependencyError struct {
	Dependency  string
	Remediation string
	Err         error
}

func (e *DependencyError) Error() string {
	msg := e.Dependency + " is required for PDF processing"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DependencyError) Is(target error) bool {
	return target == ErrDependencyMissing
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

const javaRemediation = "Install a Java runtime (Windows/Mac: https://java.com, Linux: sudo apt install default-jre) and set TABULA_JAR to the tabula-java jar, or set PDF_EXTRACTOR=native. CSV uploads keep working in the meantime."
