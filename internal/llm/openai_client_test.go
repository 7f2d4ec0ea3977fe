// ABOUTME: Tests for OpenAI client construction and prompt assembly
// ABOUTME: API-dependent calls are not exercised here
package llm

import (
	"strings"
	"testing"
)

func TestNewOpenAIClient_RequiresAPIKey(t *testing.T) {
	if _, err := NewOpenAIClient(""); err == nil {
		t.Error("expected error for empty API key")
	}
}

func TestNewOpenAIClientWithConfig_FillsDefaults(t *testing.T) {
	client, err := NewOpenAIClientWithConfig(&ClientConfig{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewOpenAIClientWithConfig() error = %v", err)
	}
	if client.chatModel != DefaultChatModel {
		t.Errorf("chatModel = %q, want %q", client.chatModel, DefaultChatModel)
	}
	if client.embeddingModel != DefaultEmbeddingModel {
		t.Errorf("embeddingModel = %q, want %q", client.embeddingModel, DefaultEmbeddingModel)
	}
}

func TestBuildAnswerPrompt_WithContext(t *testing.T) {
	prompt := buildAnswerPrompt("What is Go?", "Go is a programming language.")
	if !strings.Contains(prompt, "Go is a programming language.") {
		t.Error("prompt missing context text")
	}
	if !strings.Contains(prompt, "Question: What is Go?") {
		t.Error("prompt missing question")
	}
}

func TestBuildAnswerPrompt_EmptyContext(t *testing.T) {
	prompt := buildAnswerPrompt("What is Go?", "")
	if !strings.Contains(prompt, "No knowledge base context") {
		t.Errorf("prompt should flag missing context, got %q", prompt)
	}
	if !strings.Contains(prompt, "Question: What is Go?") {
		t.Error("prompt missing question")
	}
}
