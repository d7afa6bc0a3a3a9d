package skillz_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pranav244872/skillgap/skillz"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	method        string
	authorization string
	contentType   string
	messages      []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
}

func newLightningServer(t *testing.T, status int, body string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			captured.method = r.Method
			captured.authorization = r.Header.Get("Authorization")
			captured.contentType = r.Header.Get("Content-Type")
			var req struct {
				Messages []struct {
					Role    string `json:"role"`
					Content string `json:"content"`
				} `json:"messages"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
				captured.messages = req.Messages
			}
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLightningClient_CallLLM(t *testing.T) {
	var captured capturedRequest
	srv := newLightningServer(t, http.StatusOK, `{"content": "ok"}`, &captured)

	client := skillz.NewLightningClient(srv.URL, "test-token", srv.Client())
	got, err := client.CallLLM(context.Background(), "the prompt")

	require.NoError(t, err)
	require.Equal(t, `{"content": "ok"}`, got)
	require.Equal(t, http.MethodPost, captured.method)
	require.Equal(t, "Bearer test-token", captured.authorization)
	require.Equal(t, "application/json", captured.contentType)
	require.Len(t, captured.messages, 1)
	require.Equal(t, "user", captured.messages[0].Role)
	require.Equal(t, "the prompt", captured.messages[0].Content)
}

func TestLightningClient_NonSuccessStatus(t *testing.T) {
	srv := newLightningServer(t, http.StatusServiceUnavailable, "overloaded", nil)

	client := skillz.NewLightningClient(srv.URL, "test-token", srv.Client())
	_, err := client.CallLLM(context.Background(), "the prompt")

	require.EqualError(t, err, "Lightning AI API error: 503 Service Unavailable")
	require.ErrorIs(t, err, skillz.ErrTransport)

	var statusErr *skillz.StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
}

func TestLightningClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := skillz.NewLightningClient(url, "test-token", nil)
	_, err := client.CallLLM(context.Background(), "the prompt")

	require.Error(t, err)
	require.ErrorIs(t, err, skillz.ErrTransport)
	require.Contains(t, err.Error(), "Lightning AI request failed")
}

func TestLightningClient_CanceledContext(t *testing.T) {
	srv := newLightningServer(t, http.StatusOK, `{}`, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := skillz.NewLightningClient(srv.URL, "test-token", srv.Client())
	_, err := client.CallLLM(ctx, "the prompt")

	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, err, skillz.ErrTransport)
}

func TestLLMProcessor_EndToEnd(t *testing.T) {
	t.Run("503 from the endpoint", func(t *testing.T) {
		srv := newLightningServer(t, http.StatusServiceUnavailable, "", nil)
		p := skillz.NewLLMProcessor(skillz.NewLightningClient(srv.URL, "test-token", srv.Client()))

		got := p.AnalyzeSkillGap(context.Background(), "resume text here", "job description here")

		require.Equal(t, skillz.Result{
			Success:        false,
			MissingSkills:  []string{},
			ExistingSkills: []string{},
			Error:          "Lightning AI API error: 503 Service Unavailable",
		}, got)
	})

	t.Run("chat completion envelope", func(t *testing.T) {
		var captured capturedRequest
		body := `{"choices":[{"message":{"role":"assistant","content":"{\"missing_skills\":{\"critical\":[\"AWS\"],\"nice_to_have\":[\"Terraform\"]}}"}}]}`
		srv := newLightningServer(t, http.StatusOK, body, &captured)
		p := skillz.NewLLMProcessor(skillz.NewLightningClient(srv.URL, "test-token", srv.Client()))

		got := p.AnalyzeSkillGap(context.Background(), "my resume text", "the job description")

		require.True(t, got.Success)
		require.Equal(t, []string{"AWS", "Terraform"}, got.MissingSkills)

		require.Len(t, captured.messages, 1)
		var prompt map[string]string
		require.NoError(t, json.Unmarshal([]byte(captured.messages[0].Content), &prompt))
		require.Equal(t, "my resume text", prompt["resume_text"])
		require.Equal(t, "the job description", prompt["job_description"])
	})
}
