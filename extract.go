package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/pranav244872/skillgap/config"
	"github.com/pranav244872/skillgap/logger"
	"github.com/pranav244872/skillgap/skillz"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [response-file]",
	Short: "Extract missing skills from a saved model response or a live call",
	Long: "Without --live, reads a raw inference response body from a file (or stdin when no file is given) " +
		"and prints the extracted skill-gap result as JSON. With --live, sends --resume and --job to the " +
		"configured Lightning AI endpoint instead.",
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

var (
	extractLive       bool
	extractResumeFile string
	extractJobFile    string
	extractLogLevel   string
)

func init() {
	extractCmd.Flags().BoolVar(&extractLive, "live", false, "Call the configured endpoint instead of parsing a saved response")
	extractCmd.Flags().StringVar(&extractResumeFile, "resume", "", "Path to resume text file (required with --live)")
	extractCmd.Flags().StringVar(&extractJobFile, "job", "", "Path to job description text file (required with --live)")
	extractCmd.Flags().StringVar(&extractLogLevel, "log-level", "warn", "Log level written to stderr")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	// Logs go to stderr so stdout stays valid JSON
	slog.SetDefault(slog.New(logger.NewColoredHandler(os.Stderr, &slog.HandlerOptions{
		Level: logger.ParseLevel(extractLogLevel),
	})))

	var (
		result skillz.Result
		err    error
	)
	if extractLive {
		result, err = extractLiveResult(cmd.Context())
	} else {
		result, err = extractSavedResult(cmd.Context(), cmd.InOrStdin(), args)
	}
	if err != nil {
		return err
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(jsonBytes))

	if !result.Success {
		return errors.New(result.Error)
	}
	return nil
}

func extractSavedResult(ctx context.Context, stdin io.Reader, args []string) (skillz.Result, error) {
	var (
		body []byte
		err  error
	)
	if len(args) == 1 {
		body, err = os.ReadFile(args[0])
	} else {
		body, err = io.ReadAll(stdin)
	}
	if err != nil {
		return skillz.Result{}, fmt.Errorf("failed to read response: %w", err)
	}
	return skillz.ParseResponse(ctx, string(body)), nil
}

func extractLiveResult(ctx context.Context) (skillz.Result, error) {
	if extractResumeFile == "" || extractJobFile == "" {
		return skillz.Result{}, errors.New("--resume and --job are required with --live")
	}

	resumeText, err := readTrimmed(extractResumeFile)
	if err != nil {
		return skillz.Result{}, err
	}
	jobDescription, err := readTrimmed(extractJobFile)
	if err != nil {
		return skillz.Result{}, err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return skillz.Result{}, fmt.Errorf("could not load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return skillz.Result{}, fmt.Errorf("invalid configuration: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.HTTPClientTimeout}
	processor := skillz.NewLLMProcessor(skillz.NewLightningClient(cfg.LightningAPIURL, cfg.LightningAPIToken, httpClient))
	return processor.AnalyzeSkillGap(ctx, resumeText, jobDescription), nil
}

func readTrimmed(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return strings.TrimSpace(string(content)), nil
}
