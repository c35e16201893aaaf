// Package openaicompat adapts any OpenAI-compatible chat completion API to
// the ADK model.LLM interface, including tool calling.
package openaicompat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
	"strings"
	"time"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

// Config selects the endpoint, credential and model name.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// ChatModel adapts an OpenAI-compatible endpoint to model.LLM.
type ChatModel struct {
	config Config
	client *http.Client
}

func NewModel(cfg Config) *ChatModel {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	return &ChatModel{
		config: cfg,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

func (m *ChatModel) Name() string {
	return m.config.Model
}

// GenerateContent adapts ADK requests to the chat completions wire format.
// Streaming is not implemented; the single response is yielded once.
func (m *ChatModel) GenerateContent(ctx context.Context, req *model.LLMRequest, stream bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		resp, err := m.generate(ctx, req)
		yield(resp, err)
	}
}

type chatMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content,omitempty"`
	ToolCalls  []chatToolCall `json:"tool_calls,omitempty"`
	Name       string         `json:"name,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
}

type chatToolCall struct {
	ID       string             `json:"id"`
	Type     string             `json:"type"`
	Function chatToolCallDetail `json:"function"`
}

type chatToolCallDetail struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type chatToolDef struct {
	Type     string          `json:"type"`
	Function chatToolDefFunc `json:"function"`
}

type chatToolDefFunc struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Parameters  any    `json:"parameters,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role      string         `json:"role"`
			Content   string         `json:"content"`
			ToolCalls []chatToolCall `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
	Error any `json:"error"`
}

func (m *ChatModel) generate(ctx context.Context, req *model.LLMRequest) (*model.LLMResponse, error) {
	messages := m.convertMessages(req.Contents)
	tools := m.convertTools(req)

	payload := map[string]any{
		"model":    m.config.Model,
		"messages": messages,
	}
	if req.Config != nil && req.Config.Temperature != nil {
		payload["temperature"] = float64(*req.Config.Temperature)
	}
	if len(tools) > 0 {
		payload["tools"] = tools
		payload["tool_choice"] = "auto"
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+m.config.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode chat response: %v", err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("chat api error: %v", result.Error)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("chat api error: empty choices")
	}

	choice := result.Choices[0].Message
	parts := make([]*genai.Part, 0, 1+len(choice.ToolCalls))
	if strings.TrimSpace(choice.Content) != "" {
		parts = append(parts, genai.NewPartFromText(choice.Content))
	}
	for _, tc := range choice.ToolCalls {
		args := map[string]any{}
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				args = map[string]any{"_raw": tc.Function.Arguments}
			}
		}
		parts = append(parts, &genai.Part{
			FunctionCall: &genai.FunctionCall{
				ID:   tc.ID,
				Name: tc.Function.Name,
				Args: args,
			},
		})
	}

	return &model.LLMResponse{
		Content: &genai.Content{
			Role:  genai.RoleModel,
			Parts: parts,
		},
	}, nil
}

func (m *ChatModel) convertMessages(contents []*genai.Content) []chatMessage {
	messages := make([]chatMessage, 0, len(contents))
	for _, content := range contents {
		if content == nil {
			continue
		}

		role := roleForContent(content.Role)
		text, toolCalls, toolMessages := extractContentMessages(content)
		messages = append(messages, toolMessages...)
		if text != "" || len(toolCalls) > 0 {
			messages = append(messages, chatMessage{
				Role:      role,
				Content:   text,
				ToolCalls: toolCalls,
			})
		}
	}
	return messages
}

func roleForContent(role string) string {
	if role == "model" {
		return "assistant"
	}
	return "user"
}

func extractContentMessages(content *genai.Content) (string, []chatToolCall, []chatMessage) {
	var toolCalls []chatToolCall
	var toolMessages []chatMessage
	var textBuilder strings.Builder

	for _, part := range content.Parts {
		if part == nil {
			continue
		}
		if msg, ok := buildToolResponseMessage(part); ok {
			toolMessages = append(toolMessages, msg)
			continue
		}
		if call, ok := buildToolCall(part); ok {
			toolCalls = append(toolCalls, call)
			continue
		}
		appendText(&textBuilder, part.Text)
	}

	return strings.TrimSpace(textBuilder.String()), toolCalls, toolMessages
}

func buildToolResponseMessage(part *genai.Part) (chatMessage, bool) {
	if part.FunctionResponse == nil {
		return chatMessage{}, false
	}
	payload, _ := json.Marshal(part.FunctionResponse.Response)
	return chatMessage{
		Role:       "tool",
		ToolCallID: part.FunctionResponse.ID,
		Content:    string(payload),
		Name:       part.FunctionResponse.Name,
	}, true
}

func buildToolCall(part *genai.Part) (chatToolCall, bool) {
	if part.FunctionCall == nil {
		return chatToolCall{}, false
	}
	args, _ := json.Marshal(part.FunctionCall.Args)
	return chatToolCall{
		ID:   part.FunctionCall.ID,
		Type: "function",
		Function: chatToolCallDetail{
			Name:      part.FunctionCall.Name,
			Arguments: string(args),
		},
	}, true
}

func appendText(builder *strings.Builder, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	if builder.Len() > 0 {
		builder.WriteString("\n")
	}
	builder.WriteString(text)
}

func (m *ChatModel) convertTools(req *model.LLMRequest) []chatToolDef {
	if req == nil || req.Config == nil || len(req.Config.Tools) == 0 {
		return nil
	}

	var tools []chatToolDef
	for _, gt := range req.Config.Tools {
		if gt == nil || gt.FunctionDeclarations == nil {
			continue
		}
		for _, decl := range gt.FunctionDeclarations {
			if decl == nil || decl.Name == "" {
				continue
			}
			var params any
			switch {
			case decl.ParametersJsonSchema != nil:
				params = decl.ParametersJsonSchema
			case decl.Parameters != nil:
				params = decl.Parameters
			}
			tools = append(tools, chatToolDef{
				Type: "function",
				Function: chatToolDefFunc{
					Name:        decl.Name,
					Description: decl.Description,
					Parameters:  params,
				},
			})
		}
	}

	return tools
}
