package model

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"salary-backend/internal/dataset"
)

const remoteTimeout = 30 * time.Second

// RemoteConfig points at an HTTP model server.
type RemoteConfig struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
	Timeout      time.Duration
}

// Remote forwards tables to a model server that answers
// {"predictions":[...]} for {"columns":[...],"rows":[[...]]}.
type Remote struct {
	endpoint   string
	httpClient *http.Client
	name       string
}

// NewRemote builds a Remote. When client credentials are configured the
// HTTP client fetches and refreshes bearer tokens itself.
func NewRemote(ctx context.Context, cfg RemoteConfig) (*Remote, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errors.New("MODEL_ENDPOINT is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = remoteTimeout
	}

	client := &http.Client{Timeout: timeout}
	if cfg.ClientID != "" && cfg.TokenURL != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		}
		client = cc.Client(ctx)
		client.Timeout = timeout
	}
	return &Remote{endpoint: endpoint, httpClient: client, name: "remote:" + endpoint}, nil
}

func (r *Remote) Name() string { return r.name }

// Schema is owned by the server.
func (r *Remote) Schema() []string { return nil }

type remoteRequest struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

type remoteResponse struct {
	Predictions []float64 `json:"predictions"`
	Error       string    `json:"error,omitempty"`
	Missing     []string  `json:"missingColumns,omitempty"`
}

// Predict posts the whole table in one request.
func (r *Remote) Predict(ctx context.Context, t *dataset.Table) ([]float64, error) {
	payload, err := json.Marshal(remoteRequest{Columns: t.Columns, Rows: t.Rows})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model server request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("model server read: %w", err)
	}
	var parsed remoteResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("model server response parse (status %d): %w", resp.StatusCode, err)
	}
	if len(parsed.Missing) > 0 {
		return nil, &SchemaMismatchError{Model: r.name, Missing: parsed.Missing}
	}
	if resp.StatusCode >= 400 || parsed.Error != "" {
		msg := parsed.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, &InferenceError{Err: errors.New(msg)}
		}
		return nil, fmt.Errorf("model server status %d: %s", resp.StatusCode, msg)
	}
	if len(parsed.Predictions) != t.Len() {
		return nil, fmt.Errorf("model server returned %d predictions for %d rows", len(parsed.Predictions), t.Len())
	}
	return parsed.Predictions, nil
}

var _ Predictor = (*Remote)(nil)
