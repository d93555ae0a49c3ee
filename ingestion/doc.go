// Package ingestion wires extraction, classification, chunking, embedding,
// and storage into the document ingestion pipeline.
package ingestion
