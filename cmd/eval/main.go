// ABOUTME: Command-line evaluation runner for the golden query set
// ABOUTME: Scores the classifier and retrieval stages and writes JSON results
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/policyatlas/policyatlas/benchmarks/golden"
)

func main() {
	// Command-line flags
	casesPath := flag.String("cases", "", "Path to a JSON file of golden cases (default: built-in set)")
	outputPath := flag.String("output", "eval_results.json", "Output path for JSON results")
	threshold := flag.Float64("threshold", 1.0, "Minimum accuracy before exiting non-zero")
	verbose := flag.Bool("verbose", false, "Print every case, not just failures")
	flag.Parse()

	cases := golden.DefaultCases()
	if *casesPath != "" {
		data, err := os.ReadFile(*casesPath)
		if err != nil {
			log.Fatalf("Failed to read cases file: %v", err)
		}
		cases = nil
		if err := json.Unmarshal(data, &cases); err != nil {
			log.Fatalf("Failed to parse cases file: %v", err)
		}
	}

	fmt.Println("========================================")
	fmt.Println("PolicyAtlas Golden Query Evaluation")
	fmt.Println("========================================")
	fmt.Println()

	runner := golden.NewRunner()
	summary := runner.RunAll(cases)

	for _, result := range summary.Results {
		if result.Passed {
			if *verbose {
				fmt.Printf("  PASS %-24s %s\n", result.ID, result.Message)
			}
			continue
		}
		fmt.Printf("  FAIL %-24s %s\n       %s\n", result.ID, result.Message, result.Detail)
	}

	fmt.Println()
	fmt.Printf("Passed %d/%d (accuracy %.1f%%)\n", summary.Passed, summary.Total, summary.Accuracy*100)

	jsonData, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal results: %v", err)
	}
	if err := os.WriteFile(*outputPath, jsonData, 0o644); err != nil {
		log.Fatalf("Failed to write results: %v", err)
	}
	fmt.Printf("Results written to %s\n", *outputPath)

	if summary.Accuracy < *threshold {
		os.Exit(1)
	}
}
