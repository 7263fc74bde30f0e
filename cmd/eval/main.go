// Command eval is a human-in-the-loop smoke test: it resets the index,
// ingests a fixed knowledge document, asks a batch of questions in one
// chat request and prints the answer for manual comparison against the
// expected results. No automated scoring.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"rag-demo-service/models"
)

const knowledgeBase = `
*** PROJECT TITAN: INTERNAL MEMO ***
Project Titan is a secret initiative to develop a solar-powered coffee machine for deep-space missions.
Lead Engineer: Dr. Aris Thorne.
Budget: $5.2 Billion.
Key Feature: "Zero-G Brewing" technology using centrifugal force to separate liquid from grounds.
Launch Date: Expected Q3 2028 onboard the Mars Vessel 'Ares V'.
Constraints: Cannot use boiling water (safety hazard); uses super-heated steam instead.
`

type testCase struct {
	Kind     string
	Question string
	Expected string
}

var testCases = []testCase{
	{"Specific (Fact)", "What is the budget for Project Titan?", "$5.2 Billion"},
	{"Specific (Reasoning)", "How does it brew coffee without gravity?", "Centrifugal force / Zero-G Brewing"},
	{"Specific (Constraint)", "Why can't they use boiling water?", "Safety hazard / Uses steam instead"},
	{"General Knowledge (Hybrid Test)", "Who is the CEO of Tesla?", "Elon Musk (general knowledge, should be refused under strict grounding)"},
	{"Out of Context (Hallucination Check)", "What is the top speed of the X-9000 Scooter?", "Should say not found (the memo doesn't mention scooters)"},
}

func main() {
	baseURL := flag.String("base-url", "http://127.0.0.1:8000", "service base URL")
	flag.Parse()

	client := &http.Client{}

	fmt.Println("STARTING EVALUATION...")
	fmt.Println()

	fmt.Print("Resetting knowledge base... ")
	if err := postJSON(client, *baseURL+"/reset", nil, nil); err != nil {
		fmt.Printf("failed (is the server running?): %v\n", err)
		os.Exit(1)
	}
	fmt.Println("done.")

	fmt.Print("Ingesting knowledge base... ")
	var ingestResp models.IngestResponse
	if err := postJSON(client, *baseURL+"/ingest", models.IngestRequest{Text: knowledgeBase}, &ingestResp); err != nil {
		fmt.Printf("failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("success (%d chars, %d/%d chunks indexed)\n", len(knowledgeBase), ingestResp.Indexed, ingestResp.Chunks)

	fmt.Println()
	fmt.Println("Running Q/A test set...")
	fmt.Println(divider("=", 80))

	combined := "Please answer these questions individually:\n"
	for i, tc := range testCases {
		combined += fmt.Sprintf("%d. %s\n", i+1, tc.Question)
	}

	fmt.Printf("Sending payload:\n%s", combined)
	fmt.Println(divider("-", 40))

	start := time.Now()
	var chatResp models.ChatResponse
	if err := postJSON(client, *baseURL+"/chat", models.ChatRequest{Question: combined}, &chatResp); err != nil {
		fmt.Printf("Error asking batch question: %v\n", err)
		os.Exit(1)
	}
	latency := time.Since(start)

	fmt.Printf("Model response (%.2fs):\n", latency.Seconds())
	fmt.Println(chatResp.Answer)
	fmt.Println(divider("-", 40))

	if len(chatResp.Citations) > 0 {
		fmt.Printf("Citations used: %d\n", len(chatResp.Citations))
		for _, cit := range chatResp.Citations {
			fmt.Printf("   - [%d] %s...\n", cit.ID, truncate(cit.Text, 50))
		}
	} else {
		fmt.Println("Citations: none.")
	}

	fmt.Println()
	fmt.Println("Comparison (check the answer above against these):")
	for i, tc := range testCases {
		fmt.Printf("   Q%d expected: %q\n", i+1, tc.Expected)
	}

	fmt.Println()
	fmt.Println("EVALUATION COMPLETE.")
}

func postJSON(client *http.Client, url string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader([]byte("{}"))
	}

	req, err := http.NewRequest(http.MethodPost, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var detail struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&detail)
		return fmt.Errorf("%s: %s", resp.Status, detail.Detail)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func divider(ch string, n int) string {
	return strings.Repeat(ch, n)
}
