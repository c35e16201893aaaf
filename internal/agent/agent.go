// Package agent hosts an optional tool-calling research agent that drives
// the full lead pipeline from a natural language brief.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	adkagent "google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"

	"roofleads_backend/platform/ai/openaicompat"
	"roofleads_backend/platform/logger"
)

const appName = "lead_researcher"

const systemPrompt = `You are a roofing lead generation expert for Lone Ranger Roofing.

## YOU CAN ANSWER TWO TYPES OF QUERIES:

### 1. STRATEGY QUESTIONS (no leads needed)
If asked "who can help find leads?" or "how do I get referrals?" etc:
- Explain lead generation strategies for roofers
- Key referral sources: home inspectors, realtors, insurance adjusters, property managers
- Storm chasing: monitor weather, contact homeowners in affected areas
- Property data: target older homes (pre-2005) likely needing roof replacement

### 2. LEAD SEARCHES (find actual contacts)
If asked to "find" or "get" leads:

For MIDDLEMEN (inspectors, realtors, contractors):
1. Use find_businesses to plan searches, then research each query
2. Extract: name, phone, address, website
3. Every lead MUST have a phone number

For STORM/HOMEOWNER leads:
1. get_nws_alerts(state) for affected areas
2. find_open_dataset + query_socrata for properties
3. skip_trace for owner phones

## LEAD DATA REQUIRED:
- name, phone (REQUIRED), type ("middleman"|"homeowner"|"storm")
- address, email, website (if available)

## SCORING:
Phone: 40 | Email: 10 | Address: 10 | Website: 10 | Licensed: 15 | Reviews: 15
Qualified if >= 50

## CRITICAL FOR LEAD SEARCHES:
- Return the requested number of leads
- Every lead needs a phone number
- Use real URLs only`

// Researcher wraps the ADK agent, runner and session service.
type Researcher struct {
	agent          adkagent.Agent
	runner         *runner.Runner
	sessionService session.Service
	log            *logger.Logger
}

// Config selects the chat model backing the agent.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewResearcher builds the agent with all research tools attached.
func NewResearcher(cfg Config, deps *ToolDependencies, log *logger.Logger) (*Researcher, error) {
	chatModel := openaicompat.NewModel(openaicompat.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	})

	tools, err := buildTools(deps)
	if err != nil {
		return nil, fmt.Errorf("failed to build tools: %w", err)
	}

	adkAgent, err := llmagent.New(llmagent.Config{
		Name:        "LeadResearcher",
		Model:       chatModel,
		Description: "Roofing lead generation researcher that finds, scores and exports referral and homeowner leads using weather, open data and skip trace tools.",
		Instruction: systemPrompt,
		Tools:       tools,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ADK agent: %w", err)
	}

	sessionService := session.InMemoryService()

	r, err := runner.New(runner.Config{
		AppName:        appName,
		Agent:          adkAgent,
		SessionService: sessionService,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ADK runner: %w", err)
	}

	return &Researcher{
		agent:          adkAgent,
		runner:         r,
		sessionService: sessionService,
		log:            log,
	}, nil
}

// Ask runs one research query through the agent and returns the final text.
// Each call gets a fresh session; the tool API is the stateful surface, the
// agent is not.
func (r *Researcher) Ask(ctx context.Context, query string) (string, error) {
	userID := "researcher"
	sessionID := uuid.New().String()

	if _, err := r.sessionService.Create(ctx, &session.CreateRequest{
		AppName:   appName,
		UserID:    userID,
		SessionID: sessionID,
	}); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	defer func() {
		if err := r.sessionService.Delete(ctx, &session.DeleteRequest{
			AppName:   appName,
			UserID:    userID,
			SessionID: sessionID,
		}); err != nil {
			r.log.Warn("failed to delete agent session", "session_id", sessionID, "error", err)
		}
	}()

	userMessage := &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{Text: query},
		},
	}

	var output strings.Builder
	runConfig := adkagent.RunConfig{
		StreamingMode: adkagent.StreamingModeNone,
	}

	for event, err := range r.runner.Run(ctx, userID, sessionID, userMessage, runConfig) {
		if err != nil {
			return "", fmt.Errorf("agent run failed: %w", err)
		}
		if event.Content != nil {
			for _, part := range event.Content.Parts {
				output.WriteString(part.Text)
			}
		}
	}

	return output.String(), nil
}
