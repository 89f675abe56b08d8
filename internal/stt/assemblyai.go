package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	. "github.com/mar0der/ClaudeCodeTools/internal/logging"
)

const assemblyAIBase = "https://api.assemblyai.com/v2"

// defaultPollInterval is the delay between transcript status checks.
const defaultPollInterval = 3 * time.Second

// AssemblyAIConfig holds configuration for the AssemblyAI cloud engine.
type AssemblyAIConfig struct {
	APIKey       string        `json:"apiKey"`  // Falls back to ASSEMBLYAI_API_KEY
	Timeout      time.Duration `json:"-"`       // Whole-attempt budget, 0 = no timeout
	PollInterval time.Duration `json:"-"`       // Status check spacing, 0 = 3s
	BaseURL      string        `json:"baseUrl"` // Override for tests, "" = production
}

// AssemblyAIProvider implements STT using the AssemblyAI REST API:
// upload the file, create a transcript job, poll until it settles.
type AssemblyAIProvider struct {
	config AssemblyAIConfig
	client *http.Client
}

// NewAssemblyAIProvider creates an AssemblyAI STT engine. The API key may
// be empty here; it is resolved (config value, then environment) per call
// so that a key exported after startup still works.
func NewAssemblyAIProvider(cfg AssemblyAIConfig) *AssemblyAIProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = assemblyAIBase
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	return &AssemblyAIProvider{
		config: cfg,
		client: &http.Client{},
	}
}

// apiKey resolves the credential: explicit config value first, then the
// ASSEMBLYAI_API_KEY environment variable.
func (a *AssemblyAIProvider) apiKey() string {
	if a.config.APIKey != "" {
		return a.config.APIKey
	}
	return os.Getenv("ASSEMBLYAI_API_KEY")
}

// Transcribe converts an audio file to text using AssemblyAI.
func (a *AssemblyAIProvider) Transcribe(filePath string) (string, error) {
	key := a.apiKey()
	if key == "" {
		return "", fmt.Errorf("assemblyai API key not found: set ASSEMBLYAI_API_KEY")
	}

	ctx := context.Background()
	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	L_debug("stt: assemblyai transcribing", "file", filePath)

	audioURL, err := a.upload(ctx, key, filePath)
	if err != nil {
		return "", fmt.Errorf("upload audio: %w", err)
	}

	id, err := a.submit(ctx, key, audioURL)
	if err != nil {
		return "", fmt.Errorf("create transcript: %w", err)
	}

	L_debug("stt: assemblyai job created", "id", id)

	text, err := a.poll(ctx, key, id)
	if err != nil {
		return "", err
	}

	result := strings.TrimSpace(text)
	L_debug("stt: assemblyai transcription complete", "length", len(result))
	return result, nil
}

// upload sends the raw audio bytes and returns the temporary upload URL.
func (a *AssemblyAIProvider) upload(ctx context.Context, key, filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer file.Close()

	req, err := http.NewRequestWithContext(ctx, "POST", a.config.BaseURL+"/upload", file)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", key)
	req.Header.Set("Content-Type", "application/octet-stream")

	var result struct {
		UploadURL string `json:"upload_url"`
	}
	if err := a.doJSON(req, &result); err != nil {
		return "", err
	}
	if result.UploadURL == "" {
		return "", fmt.Errorf("upload returned no URL")
	}
	return result.UploadURL, nil
}

// submit creates a transcription job for an uploaded file.
func (a *AssemblyAIProvider) submit(ctx context.Context, key, audioURL string) (string, error) {
	body, err := json.Marshal(map[string]string{"audio_url": audioURL})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.config.BaseURL+"/transcript", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", key)
	req.Header.Set("Content-Type", "application/json")

	var result struct {
		ID string `json:"id"`
	}
	if err := a.doJSON(req, &result); err != nil {
		return "", err
	}
	if result.ID == "" {
		return "", fmt.Errorf("transcript job has no id")
	}
	return result.ID, nil
}

// poll checks the job status until it reports completed or error.
func (a *AssemblyAIProvider) poll(ctx context.Context, key, id string) (string, error) {
	for {
		req, err := http.NewRequestWithContext(ctx, "GET", a.config.BaseURL+"/transcript/"+id, nil)
		if err != nil {
			return "", fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", key)

		var result struct {
			Status string `json:"status"`
			Text   string `json:"text"`
			Error  string `json:"error"`
		}
		if err := a.doJSON(req, &result); err != nil {
			return "", err
		}

		switch result.Status {
		case "completed":
			return result.Text, nil
		case "error":
			return "", fmt.Errorf("assemblyai error: %s", result.Error)
		}

		L_debug("stt: assemblyai polling", "id", id, "status", result.Status)

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("assemblyai attempt: %w", ctx.Err())
		case <-time.After(a.config.PollInterval):
		}
	}
}

// doJSON executes a request and decodes a JSON response, surfacing the
// API's error message on non-2xx statuses.
func (a *AssemblyAIProvider) doJSON(req *http.Request, out interface{}) error {
	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		L_error("stt: assemblyai request failed", "status", resp.StatusCode, "body", string(body))

		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("assemblyai API error: %s", errResp.Error)
		}
		return fmt.Errorf("assemblyai API error: status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// Name returns the engine name.
func (a *AssemblyAIProvider) Name() string {
	return "assemblyai"
}

// Close releases any resources (none for HTTP client).
func (a *AssemblyAIProvider) Close() error {
	return nil
}
