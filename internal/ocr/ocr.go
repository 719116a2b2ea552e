package ocr

import (
	"context"
	"fmt"
)

// Extractor is the text-extraction collaborator. It is invoked
// synchronously per document, as a single best-effort attempt with no
// retry; the result is stored verbatim and never parsed structurally.
type Extractor interface {
	// Extract produces plain text from the given file bytes.
	Extract(ctx context.Context, fileBytes []byte, contentType string) (string, error)
}

// StubExtractor stands in for a real OCR engine in environments where
// one is not deployed. It does not read the file content; it reports the
// byte count so extraction runs remain visibly simulated.
type StubExtractor struct{}

func (StubExtractor) Extract(_ context.Context, fileBytes []byte, contentType string) (string, error) {
	return fmt.Sprintf("[SIMULATED EXTRACTION]\n%d bytes of %s were received. Deploy a real OCR engine to extract document text.", len(fileBytes), contentType), nil
}
