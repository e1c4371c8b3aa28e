package contract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// errorLinePattern matches one compiler diagnostic line, e.g.
// "src/app.ts(12,5): error TS2322: Type 'string' is not assignable ...".
var errorLinePattern = regexp.MustCompile(`\berror TS\d+:`)

// Project marker files checked by ResolveRoot, in priority order.
var projectMarkers = []string{"tsconfig.json", "package.json"}

// LocalTypeChecker implements the TypeChecker interface by executing the
// project's compiler toolchain installed on the machine.
type LocalTypeChecker struct {
	CheckArgs   []string      // Compiler invocation, e.g. ["npx", "tsc", "--noEmit"]
	TestArgs    []string      // Test runner invocation, e.g. ["npx", "jest", "--silent"]
	Timeout     time.Duration // Upper bound for one compile check
	TestTimeout time.Duration // Upper bound for one test run
}

var _ TypeChecker = &LocalTypeChecker{} // Compile-time check

// NewLocalTypeChecker creates a local checker with default invocations.
// Callers may override the fields once the validated config is available.
func NewLocalTypeChecker() *LocalTypeChecker {
	return &LocalTypeChecker{
		CheckArgs:   []string{"npx", "tsc", "--noEmit"},
		TestArgs:    []string{"npx", "jest", "--silent"},
		Timeout:     DefaultCheckTimeout,
		TestTimeout: 5 * time.Minute,
	}
}

// ApplyConfig overrides the checker invocations from the validated config.
func (c *LocalTypeChecker) ApplyConfig(cfg *Config) {
	if len(cfg.CheckCommand) > 0 {
		c.CheckArgs = cfg.CheckCommand
	}
	if len(cfg.TestCommand) > 0 {
		c.TestArgs = cfg.TestCommand
	}
	if cfg.CheckTimeout > 0 {
		c.Timeout = cfg.CheckTimeout
	}
}

// ResolveRoot implements the TypeChecker interface. It walks up from the
// context path until a directory carrying a project marker file is found.
func (c *LocalTypeChecker) ResolveRoot(_ context.Context, contextPath string) (string, error) {
	dir, err := filepath.Abs(contextPath)
	if err != nil {
		return "", err
	}
	for {
		for _, marker := range projectMarkers {
			info, statErr := os.Stat(filepath.Join(dir, marker))
			if statErr == nil && !info.IsDir() {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no tsconfig.json or package.json found in %q or any parent. Verify the path points into a TypeScript project", contextPath)
		}
		dir = parent
	}
}

// Check implements the TypeChecker interface. A compiler run that produces
// diagnostics is a normal outcome; only a run that could not complete at all
// returns a non-nil error.
func (c *LocalTypeChecker) Check(ctx context.Context, projectPath string) ([]string, error) {
	checkCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	cmd := exec.CommandContext(checkCtx, c.CheckArgs[0], c.CheckArgs[1:]...)
	cmd.Dir = projectPath
	out, err := cmd.CombinedOutput()

	if checkCtx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("compiler check timed out after %s", c.Timeout)
	}

	diags := parseErrorLines(out)
	if err == nil {
		return diags, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// Non-zero exit is how the compiler reports errors. If nothing was
		// parseable the run is still a failure and must surface as one.
		if len(diags) == 0 {
			detail := strings.TrimSpace(string(out))
			if detail == "" {
				detail = exitErr.String()
			}
			diags = append(diags, fmt.Sprintf("compiler exited abnormally: %s", firstLine(detail)))
		}
		return diags, nil
	}
	return nil, fmt.Errorf("compiler check failed to start: %w. Ensure the toolchain is installed and available on your PATH", err)
}

// RunTests implements the TypeChecker interface.
func (c *LocalTypeChecker) RunTests(ctx context.Context, projectPath string, scope string) error {
	testCtx, cancel := context.WithTimeout(ctx, c.TestTimeout)
	defer cancel()

	args := c.TestArgs[1:]
	if scope != "" {
		args = append(append([]string{}, args...), scope)
	}
	cmd := exec.CommandContext(testCtx, c.TestArgs[0], args...)
	cmd.Dir = projectPath
	out, err := cmd.CombinedOutput()

	if testCtx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("test run timed out after %s", c.TestTimeout)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("test run failed: %s", firstLine(strings.TrimSpace(string(out))))
		}
		return fmt.Errorf("test run failed to start: %w", err)
	}
	return nil
}

// parseErrorLines extracts compiler diagnostic lines from raw output.
func parseErrorLines(out []byte) []string {
	var diags []string
	for _, line := range strings.Split(string(out), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if errorLinePattern.MatchString(trimmed) {
			diags = append(diags, trimmed)
		}
	}
	return diags
}

// firstLine bounds multi-line process output to its first line for messages.
func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
