// skillz/llm_processor.go
package skillz

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/pranav244872/skillgap/logger"
)

// parseFailureMessage is reported when the response could not be handled at all.
const parseFailureMessage = "Failed to parse Lightning AI response"

////////////////////////////////////////////////////////////////////////

// skillGapPrompt is the user message content: the two documents as a JSON object.
type skillGapPrompt struct {
	JobDescription string `json:"job_description"`
	ResumeText     string `json:"resume_text"`
}

////////////////////////////////////////////////////////////////////////
// Struct and Constructor
////////////////////////////////////////////////////////////////////////

// LLMProcessor implements the Processor interface on top of an LLMClient.
// It holds no mutable state, so one instance serves concurrent requests.
type LLMProcessor struct {
	llmClient  LLMClient
	strategies []Strategy
}

// NewLLMProcessor creates a new LLMProcessor using the provided LLMClient (real or mock).
// Without explicit strategies the DefaultStrategies cascade is used.
func NewLLMProcessor(llmClient LLMClient, strategies ...Strategy) Processor {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &LLMProcessor{
		llmClient:  llmClient,
		strategies: strategies,
	}
}

////////////////////////////////////////////////////////////////////////
// Public Methods (Interface Implementation)
////////////////////////////////////////////////////////////////////////

// AnalyzeSkillGap orchestrates one extraction:
// 1. Build the prompt from the two documents
// 2. Call the inference endpoint once
// 3. Recover skill lists from whatever came back
func (p *LLMProcessor) AnalyzeSkillGap(ctx context.Context, resumeText, jobDescription string) Result {
	log := slog.With(
		"component", "skillz",
		"operation", "analyze_skill_gap",
		logger.RequestIDAttr, logger.GetRequestID(ctx),
	)

	// 1. Build the prompt.
	promptBytes, err := json.Marshal(skillGapPrompt{
		JobDescription: jobDescription,
		ResumeText:     resumeText,
	})
	if err != nil {
		log.ErrorContext(ctx, "failed to marshal prompt", "error", err)
		return failure(fmt.Sprintf("failed to build prompt: %v", err))
	}

	// 2. Call the LLM.
	log.InfoContext(ctx, "calling Lightning AI",
		"resume_length", len(resumeText),
		"job_description_length", len(jobDescription))
	start := time.Now()

	body, err := p.llmClient.CallLLM(ctx, string(promptBytes))
	if err != nil {
		log.ErrorContext(ctx, "Lightning AI call failed",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds())
		return failure(err.Error())
	}
	log.InfoContext(ctx, "received Lightning AI response",
		"duration_ms", time.Since(start).Milliseconds(),
		"response_length", len(body))

	// 3. Parse.
	result := parseResponse(ctx, log, p.strategies, body)
	if result.Success {
		log.InfoContext(ctx, "skill gap extraction completed",
			"missing_skills_count", len(result.MissingSkills),
			"existing_skills_count", len(result.ExistingSkills))
	}
	return result
}

// ParseResponse runs envelope unwrapping and the default cascade over a raw
// response body without calling the endpoint. Used to replay captured responses.
func ParseResponse(ctx context.Context, body string) Result {
	log := slog.With("component", "skillz", "operation", "parse_response")
	return parseResponse(ctx, log, DefaultStrategies(), body)
}

////////////////////////////////////////////////////////////////////////
// Private Helper Methods
////////////////////////////////////////////////////////////////////////

func parseResponse(ctx context.Context, log *slog.Logger, strategies []Strategy, body string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			log.ErrorContext(ctx, "response parsing panicked", "panic", r)
			result = failure(parseFailureMessage)
		}
	}()

	payload := unwrapEnvelope(body)
	found := runCascade(ctx, log, strategies, payload)

	return Result{
		Success:        true,
		MissingSkills:  FilterSkills(found.Missing),
		ExistingSkills: FilterSkills(found.Existing),
		AnalysisText:   payload,
	}
}
