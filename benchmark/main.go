// Package main provides a performance benchmarking tool for the typesweep CLI.
// It measures analysis times across synthetic TypeScript projects of different
// sizes, running each test multiple times, treating the first successful
// parallel run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - typesweep binary installed and available in PATH
//
// Usage: go run benchmark/main.go [project-base-dir]
//
//	project-base-dir: Directory where synthetic projects are generated
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (serial average, cold run and average of warm runs).
type BenchmarkResult struct {
	Project    string
	Command    string
	SerialTime string
	ColdTime   string
	WarmTime   string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	ProjectBase  string
	Timeout      time.Duration
	Workers      int
	SerialRuns   int
	ParallelRuns int
	Sizes        []ProjectSize
}

// ProjectSize describes one synthetic project to generate and benchmark.
type ProjectSize struct {
	Name    string
	Modules int
	Files   int
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [project-base-dir]\n", os.Args[0])
		os.Exit(1)
	}
	projectBase := os.Args[1]

	config := BenchmarkConfig{
		ProjectBase:  projectBase,
		Timeout:      5 * time.Minute,
		Workers:      8,
		SerialRuns:   3,
		ParallelRuns: 4,
		Sizes: []ProjectSize{
			{Name: "small", Modules: 4, Files: 10},
			{Name: "medium", Modules: 10, Files: 25},
			{Name: "large", Modules: 20, Files: 50},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	if err := ensureProjects(config); err != nil {
		fmt.Printf("Failed to generate projects: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the typesweep binary is available
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("typesweep"); err != nil {
		return fmt.Errorf("typesweep binary not found in PATH")
	}

	if err := os.MkdirAll(config.ProjectBase, 0o755); err != nil {
		return fmt.Errorf("cannot create project base %s: %w", config.ProjectBase, err)
	}

	return nil
}

// ensureProjects generates any synthetic project that does not exist yet
func ensureProjects(config BenchmarkConfig) error {
	for _, size := range config.Sizes {
		root := filepath.Join(config.ProjectBase, size.Name)
		if _, err := os.Stat(root); err == nil {
			fmt.Printf("Reusing existing project %s\n", size.Name)
			continue
		}
		fmt.Printf("Generating project %s (%d files)\n", size.Name, size.Modules*size.Files)
		if err := generateProject(root, size); err != nil {
			return err
		}
	}
	return nil
}

// generateProject writes a synthetic TypeScript project with a known mix of
// loose 'any' usage spread across modules
func generateProject(root string, size ProjectSize) error {
	marker := map[string]string{
		"package.json":  "{\n  \"name\": \"typesweep-bench\",\n  \"private\": true\n}\n",
		"tsconfig.json": "{\n  \"compilerOptions\": { \"strict\": true }\n}\n",
	}
	for rel, content := range marker {
		if err := os.MkdirAll(root, 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(root, rel), []byte(content), 0o644); err != nil {
			return err
		}
	}

	for m := 0; m < size.Modules; m++ {
		dir := filepath.Join(root, "src", fmt.Sprintf("module%03d", m))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		for f := 0; f < size.Files; f++ {
			path := filepath.Join(dir, fmt.Sprintf("service%03d.ts", f))
			if err := os.WriteFile(path, []byte(serviceSource(m, f)), 0o644); err != nil {
				return err
			}
		}
	}
	return nil
}

// serviceSource renders one synthetic service file with six 'any' occurrences
func serviceSource(module, file int) string {
	name := fmt.Sprintf("Records%dx%d", module, file)
	return fmt.Sprintf(`import { get } from "../transport";

export async function load%s(query: any) {
  const rows: any[] = await get("/records", query);
  const summary: Record<string, any> = {};
  try {
    return { rows, summary };
  } catch (err: any) {
    console.error(err);
    return { rows: [], summary };
  }
}

export function pick%s(value: any): string {
  const slice = value as any;
  return String(slice);
}

export function clean%s(value: unknown): string {
  return JSON.stringify(value);
}
`, name, name, name)
}

// runBenchmarks executes all benchmark tests across configured project sizes
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d projects, %v timeout, %d workers, serial: %d runs, parallel: %d runs\n",
		len(config.Sizes), config.Timeout, config.Workers, config.SerialRuns, config.ParallelRuns)

	for _, size := range config.Sizes {
		fmt.Printf("Benchmarking %s\n", size.Name)

		projectPath := filepath.Join(config.ProjectBase, size.Name)

		for _, command := range []string{"discover", "classify", "target"} {
			result := runBenchmarkSuite(config, size.Name, projectPath, command)
			results = append(results, result)
		}
	}

	return results
}

// runBenchmarkSuite runs both serial and parallel benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, project, projectPath, command string) BenchmarkResult {
	fmt.Printf("Running %s analysis on %s\n", command, project)

	// Helper to run a benchmark phase
	runPhase := func(workers, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, projectPath, command, workers, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: Serial runs with a single worker
	_, serialAvg := runPhase(1, config.SerialRuns, "Serial")

	// Phase 2: Parallel runs with the configured worker count
	coldTime, warmAvg := runPhase(config.Workers, config.ParallelRuns, "Parallel")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  Serial average: %s, Cold time: %s, Warm average: %s\n", serialAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Project:    project,
		Command:    command,
		SerialTime: serialAvg,
		ColdTime:   coldTimeStr,
		WarmTime:   warmAvg,
	}
}

// runBenchmark executes a typesweep command multiple times with the specified worker count and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, projectPath, command string, workers, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{command, ".", "--history-backend", "none", "--workers", strconv.Itoa(workers)}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("typesweep", args...)
		cmd.Dir = projectPath

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, command) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)

	var completionPhrase string
	switch command {
	case "discover":
		completionPhrase = "Discovery completed in"
	case "classify":
		completionPhrase = "Classification completed in"
	case "target":
		completionPhrase = "Target analysis completed in"
	default:
		completionPhrase = "completed in"
	}

	return strings.Contains(outputStr, completionPhrase) &&
		strings.Contains(outputStr, "workers")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/typesweep_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"project", "cmd", "serial_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Project, result.Command, result.SerialTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "discover", "Discovery:")
	printCommandSummary(results, "classify", "Classification:")
	printCommandSummary(results, "target", "Target Analysis:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-12s: Serial: %s, Cold: %s, Warm: %s\n", result.Project, result.SerialTime, result.ColdTime, result.WarmTime)
		}
	}
}
