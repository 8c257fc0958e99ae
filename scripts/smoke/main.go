// Command smoke drives a full run lifecycle against a live server: login,
// queue a run, poll until it finishes, then fetch the grid. Exit code is
// non-zero when any step fails, so it doubles as a deploy check.
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

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type runView struct {
	ID         string   `json:"id"`
	Status     string   `json:"status"`
	BestCost   *float64 `json:"bestCost"`
	Iterations int64    `json:"iterations"`
	Error      string   `json:"error"`
}

func main() {
	var (
		base     string
		username string
		password string
		timeout  time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&username, "username", "admin", "Operator username")
	flag.StringVar(&password, "password", "admin", "Operator password")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "Overall deadline for the run")
	flag.Parse()

	client := &http.Client{Timeout: 15 * time.Second}

	token, err := login(client, base, username, password)
	if err != nil {
		log.Fatalf("login failed: %v", err)
	}

	run, err := startRun(client, base, token)
	if err != nil {
		log.Fatalf("failed to queue run: %v", err)
	}
	fmt.Printf("queued run %s\n", run.ID)

	deadline := time.Now().Add(timeout)
	for {
		if time.Now().After(deadline) {
			log.Fatalf("run %s did not finish within %s", run.ID, timeout)
		}
		time.Sleep(2 * time.Second)

		run, err = getRun(client, base, token, run.ID)
		if err != nil {
			log.Fatalf("failed to poll run: %v", err)
		}
		if run.Status == "QUEUED" || run.Status == "RUNNING" {
			continue
		}
		break
	}

	if run.Status != "COMPLETED" {
		log.Fatalf("run %s ended %s: %s", run.ID, run.Status, run.Error)
	}

	best := 0.0
	if run.BestCost != nil {
		best = *run.BestCost
	}
	fmt.Printf("run %s completed: best cost %.2f after %d iterations\n", run.ID, best, run.Iterations)

	if err := checkGrid(client, base, token, run.ID); err != nil {
		log.Fatalf("grid fetch failed: %v", err)
	}
	fmt.Println("grid OK")
	os.Exit(0)
}

func login(client *http.Client, base, username, password string) (string, error) {
	body, _ := json.Marshal(loginPayload{Username: username, Password: password})
	data, err := call(client, http.MethodPost, base+"/api/v1/auth/login", "", body)
	if err != nil {
		return "", err
	}
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("empty access token")
	}
	return resp.AccessToken, nil
}

func startRun(client *http.Client, base, token string) (*runView, error) {
	data, err := call(client, http.MethodPost, base+"/api/v1/runs", token, []byte(`{"label":"smoke"}`))
	if err != nil {
		return nil, err
	}
	var run runView
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

func getRun(client *http.Client, base, token, id string) (*runView, error) {
	data, err := call(client, http.MethodGet, base+"/api/v1/runs/"+id, token, nil)
	if err != nil {
		return nil, err
	}
	var run runView
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

func checkGrid(client *http.Client, base, token, id string) error {
	data, err := call(client, http.MethodGet, base+"/api/v1/runs/"+id+"/grid", token, nil)
	if err != nil {
		return err
	}
	var grid struct {
		Lessons []json.RawMessage `json:"lessons"`
	}
	if err := json.Unmarshal(data, &grid); err != nil {
		return err
	}
	if len(grid.Lessons) == 0 {
		return fmt.Errorf("completed run has no lessons")
	}
	return nil
}

func call(client *http.Client, method, url, token string, body []byte) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%s %s: status %d, unparseable body", method, url, resp.StatusCode)
	}
	if env.Error != nil {
		return nil, fmt.Errorf("%s %s: %s (%s)", method, url, env.Error.Message, env.Error.Code)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%s %s: status %d", method, url, resp.StatusCode)
	}
	return env.Data, nil
}
