package ingestion

import "errors"

var (
	// ErrStoreRequired is returned when a tiered store is not provided.
	ErrStoreRequired = errors.New("tiered store required")

	// ErrDocumentRepositoryRequired is returned when a document repository is not provided.
	ErrDocumentRepositoryRequired = errors.New("document repository required")

	// ErrGatewayRequired is returned when an embedding gateway is not provided.
	ErrGatewayRequired = errors.New("embedding gateway required")

	// ErrClassifierRequired is returned when a classifier is not provided.
	ErrClassifierRequired = errors.New("classifier required")

	// ErrExtractorRequired is returned when a text extractor is not provided.
	ErrExtractorRequired = errors.New("text extractor required")
)
