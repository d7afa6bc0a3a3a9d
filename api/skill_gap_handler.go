// api/skill_gap_handler.go
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// minInputLength is the shortest trimmed resume or job description accepted.
const minInputLength = 10

// Represents the JSON request body for this endpoint.
type skillGapRequest struct {
	ResumeText     string `json:"resumeText" binding:"required"`
	JobDescription string `json:"jobDescription" binding:"required"`
}

// analyzeSkillGap handles POST /api/skill-gap.
// Input problems are rejected with 400 before the extractor runs; an
// extraction failure is reported with 500 and the extractor's message.
func (server *Server) analyzeSkillGap(ctx *gin.Context) {
	// 1. Bind and validate the body. A non-string field fails binding.
	var req skillGapRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	resumeText := strings.TrimSpace(req.ResumeText)
	jobDescription := strings.TrimSpace(req.JobDescription)

	if err := validateDocument("resumeText", resumeText); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	if err := validateDocument("jobDescription", jobDescription); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	// 2. Run the extraction.
	result := server.processor.AnalyzeSkillGap(ctx.Request.Context(), resumeText, jobDescription)
	if !result.Success {
		ctx.JSON(http.StatusInternalServerError, errorResponse(errors.New(result.Error)))
		return
	}

	// 3. Send the response.
	ctx.JSON(http.StatusOK, result)
}

func validateDocument(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required", field)
	}
	if len([]rune(value)) < minInputLength {
		return fmt.Errorf("%s must be at least %d characters", field, minInputLength)
	}
	return nil
}
