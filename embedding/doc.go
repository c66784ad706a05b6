// Package embedding turns text into fixed-length vectors. A Model may be a
// local feature-hashing model or a remote provider (Ollama, OpenAI,
// Hugging Face inference).
package embedding
