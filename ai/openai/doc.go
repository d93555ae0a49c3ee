// Package openai implements the ai interfaces against OpenAI-compatible
// HTTP APIs (OpenAI, Ollama, LocalAI, vLLM). Embeddings use the embeddings
// endpoint; entity extraction prompts a chat model for strict JSON output.
package openai
