// skillz/processor.go
package skillz

import (
	"context"
)

////////////////////////////////////////////////////////////////////////
// Interface Definition
////////////////////////////////////////////////////////////////////////

// Processor is the public contract for skill-gap analysis.
// Handlers depend on this interface so tests can swap in a fake.
type Processor interface {
	// AnalyzeSkillGap compares a resume against a job description and returns
	// the skills the candidate is missing. It never returns a Go error: failures
	// are reported through Result.Success and Result.Error.
	AnalyzeSkillGap(ctx context.Context, resumeText, jobDescription string) Result
}

////////////////////////////////////////////////////////////////////////
// Result
////////////////////////////////////////////////////////////////////////

// Result is the outcome of one extraction.
// Success=false always comes with empty skill lists and a non-empty Error.
// Success=true with empty lists is a valid outcome.
type Result struct {
	Success        bool     `json:"success"`
	MissingSkills  []string `json:"missingSkills"`
	ExistingSkills []string `json:"existingSkills"`
	AnalysisText   string   `json:"analysisText"`
	Error          string   `json:"error,omitempty"`
}

// failure builds the structured failure result.
func failure(message string) Result {
	return Result{
		Success:        false,
		MissingSkills:  []string{},
		ExistingSkills: []string{},
		Error:          message,
	}
}
