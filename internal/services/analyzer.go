package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/codecritic/codecritic/internal/config"
	"github.com/codecritic/codecritic/pkg/logger"
)

// NoIssuesFound is returned when the linter exits clean with no output.
const NoIssuesFound = "No issues found."

// Analyzer runs an external linter against submitted source code.
// Run never returns an error: every failure mode degrades to a
// human-readable diagnostic string.
type Analyzer struct {
	cfg *config.AnalyzerConfig
}

func NewAnalyzer(cfg *config.AnalyzerConfig) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Run writes the code to a temp file, invokes the linter with a bounded
// wait, and returns its findings. The temp file is removed on every exit
// path. Spawns one process per call; holds no state.
func (a *Analyzer) Run(ctx context.Context, code string) string {
	tmp, err := os.CreateTemp("", "codecritic-*.py")
	if err != nil {
		return fmt.Sprintf("Error running static analysis: %v", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(code); err != nil {
		tmp.Close()
		return fmt.Sprintf("Error running static analysis: %v", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Sprintf("Error running static analysis: %v", err)
	}

	timeout := time.Duration(a.cfg.TimeoutSeconds) * time.Second
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, a.cfg.Command, tmpPath,
		fmt.Sprintf("--max-line-length=%d", a.cfg.MaxLineLength))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if runCtx.Err() == context.DeadlineExceeded {
		logger.Warn().Str("command", a.cfg.Command).Msg("static analysis timed out")
		return "Analysis timed out. Try a smaller file."
	}

	if runErr != nil && errors.Is(runErr, exec.ErrNotFound) {
		return fmt.Sprintf("%s is not installed. Run: pip install %s", a.cfg.Command, a.cfg.Command)
	}

	out := strings.TrimSpace(stdout.String())
	if out != "" {
		// Linters exit nonzero when they find issues; the findings are
		// the result, not a failure.
		return out
	}

	if runErr == nil {
		return NoIssuesFound
	}

	detail := strings.TrimSpace(stderr.String())
	if detail == "" {
		detail = runErr.Error()
	}
	logger.Error().Str("command", a.cfg.Command).Str("stderr", detail).Msg("static analysis failed")
	return fmt.Sprintf("Error running static analysis: %s", detail)
}
