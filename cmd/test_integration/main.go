package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
)

func baseURL() string {
	if u := os.Getenv("CAUSALGRAPH_URL"); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func main() {
	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting smoke test...")

	run := uuid.New().String()[:8]
	node := func(name, date string) map[string]any {
		return map[string]any{"id": run + "-" + name, "name": name, "date": map[string]string{"text": date}}
	}

	steps := []struct {
		name     string
		method   string
		endpoint string
		payload  any
		status   int
	}{
		{"health", "GET", "/health", nil, http.StatusOK},
		{"parse date", "GET", "/api/v1/dates/parse?text=circa+1440", nil, http.StatusOK},
		{"link awaiting approval", "POST", "/api/v1/links/validate", map[string]any{
			"trigger": node("printing-press", "circa 1440"),
			"result":  node("reformation", "1517"),
		}, http.StatusLocked},
		{"commit approved link", "POST", "/api/v1/links", map[string]any{
			"trigger":        node("printing-press", "circa 1440"),
			"result":         node("reformation", "1517"),
			"approval_token": "smoke-test",
		}, http.StatusCreated},
		{"reject closing cycle", "POST", "/api/v1/links", map[string]any{
			"trigger":        node("reformation", ""),
			"result":         node("printing-press", ""),
			"approval_token": "smoke-test",
		}, http.StatusUnprocessableEntity},
		{"reject anachronism", "POST", "/api/v1/links/validate", map[string]any{
			"trigger":        node("reformation", "1517"),
			"result":         node("movable-type", "1040"),
			"approval_token": "smoke-test",
		}, http.StatusUnprocessableEntity},
		{"checkpoint requirement", "POST", "/api/v1/checkpoint/requirement", map[string]any{
			"kind":   "bio_evolution",
			"fields": map[string]any{"claim_strength": "strong"},
		}, http.StatusOK},
		{"metrics", "GET", "/metrics", nil, http.StatusOK},
	}

	for i, step := range steps {
		fmt.Printf("%d. %s...\n", i+1, step.name)
		if !sendRequest(step.method, step.endpoint, step.payload, step.status) {
			fmt.Printf("FAILED: %s\n", step.name)
			os.Exit(1)
		}
		fmt.Printf("PASSED: %s\n", step.name)
	}
}

func sendRequest(method, endpoint string, payload interface{}, wantStatus int) bool {
	var body io.Reader
	if payload != nil {
		jsonBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, baseURL()+endpoint, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != wantStatus {
		fmt.Printf("Request failed with status %d (want %d): %s\n", resp.StatusCode, wantStatus, string(respBody))
		return false
	}

	if endpoint != "/metrics" {
		fmt.Printf("Response: %s\n", string(respBody))
	}
	return true
}
