// Command smoke posts a sample generation request against a running
// instance and prints the run summary. Useful as a deployment check.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

type runSummary struct {
	Violations  int     `json:"violations"`
	SoftScore   float64 `json:"softScore"`
	Generations int     `json:"generations"`
	DurationMS  int64   `json:"durationMs"`
	StopReason  string  `json:"stopReason"`
}

type generateResponse struct {
	Data struct {
		RunID   string     `json:"runId"`
		Seed    int64      `json:"seed"`
		Summary runSummary `json:"summary"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	var (
		base        string
		payloadPath string
		timeout     time.Duration
	)
	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&payloadPath, "payload", "", "Path to a JSON generation payload (defaults to a built-in sample)")
	flag.DurationVar(&timeout, "timeout", 3*time.Minute, "Request timeout")
	flag.Parse()

	payload := []byte(samplePayload)
	if payloadPath != "" {
		data, err := os.ReadFile(payloadPath)
		if err != nil {
			log.Fatalf("read payload: %v", err)
		}
		payload = data
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(base+"/api/v1/timetable/generate", "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("generate request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("read response: %v", err)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		log.Fatalf("decode response (status %d): %v", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		log.Fatalf("generation failed (%s): %s", parsed.Error.Code, parsed.Error.Message)
	}

	fmt.Printf("run %s (seed %d)\n", parsed.Data.RunID, parsed.Data.Seed)
	fmt.Printf("  violations: %d\n", parsed.Data.Summary.Violations)
	fmt.Printf("  soft score: %.2f\n", parsed.Data.Summary.SoftScore)
	fmt.Printf("  generations: %d\n", parsed.Data.Summary.Generations)
	fmt.Printf("  duration: %dms\n", parsed.Data.Summary.DurationMS)
	fmt.Printf("  stop reason: %s\n", parsed.Data.Summary.StopReason)

	if parsed.Data.Summary.Violations > 0 {
		fmt.Println("warning: best schedule still carries hard violations")
		os.Exit(2)
	}
}

const samplePayload = `{
  "grid": {"days": 5, "slotsPerDay": 6},
  "groups": [
    {"id": "cs-100-a", "program": "CS", "level": "100", "size": 40},
    {"id": "cs-100-b", "program": "CS", "level": "100", "size": 35}
  ],
  "courses": [
    {"code": "MATH101", "name": "Calculus I", "weeklyHours": 3, "groups": ["cs-100-a", "cs-100-b"], "lecturers": ["lec-1"]},
    {"code": "PHYS101", "name": "Physics I", "weeklyHours": 2, "groups": ["cs-100-a"], "roomTypes": ["lab"], "lecturers": ["lec-2"]},
    {"code": "PROG101", "name": "Programming I", "weeklyHours": 4, "groups": ["cs-100-b"], "roomTypes": ["lab"], "lecturers": ["lec-2", "lec-3"]}
  ],
  "lecturers": [
    {"id": "lec-1", "name": "Dr. Adams"},
    {"id": "lec-2", "name": "Dr. Baker", "unavailable": [{"day": 1, "slot": 1}]},
    {"id": "lec-3", "name": "Dr. Clarke", "maxWeeklyHours": 10}
  ],
  "rooms": [
    {"id": "r-101", "capacity": 80, "type": "lecture"},
    {"id": "lab-1", "capacity": 45, "type": "lab"}
  ],
  "settings": {"seed": 1}
}`
