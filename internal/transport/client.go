package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"quorumkv/internal/replica"
	"quorumkv/internal/storage"
)

const clientTimeout = 5 * time.Second

// RemoteReplica implements replica.Replica against a ReplicaServer.
// Refused connections, timeouts, and unexpected statuses all surface as
// ErrUnavailable; the coordinator treats them as missing votes.
type RemoteReplica struct {
	baseURL string
	client  *http.Client
}

// NewRemoteReplica creates a client for the replica served at baseURL.
func NewRemoteReplica(baseURL string) *RemoteReplica {
	return &RemoteReplica{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: clientTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// BaseURL returns the replica's address.
func (r *RemoteReplica) BaseURL() string { return r.baseURL }

// Write offers (value, version) for key over the wire.
func (r *RemoteReplica) Write(ctx context.Context, key string, value []byte, version uint64) (bool, error) {
	body, err := json.Marshal(writeRequest{Key: key, Value: value, Version: version})
	if err != nil {
		return false, fmt.Errorf("encode write request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/internal/write", bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("build write request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%s: %w", r.baseURL, replica.ErrUnavailable)
	}
	defer drainClose(resp)

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("%s: status %d: %w", r.baseURL, resp.StatusCode, replica.ErrUnavailable)
	}

	var wr writeResponse
	if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		return false, fmt.Errorf("%s: decode: %w", r.baseURL, replica.ErrUnavailable)
	}
	return wr.Accepted, nil
}

// Read fetches the replica's latest value for key, nil when unknown.
func (r *RemoteReplica) Read(ctx context.Context, key string) (*storage.VersionedValue, error) {
	resp, err := r.get(ctx, "/internal/read/"+url.PathEscape(key))
	if err != nil {
		return nil, err
	}
	defer drainClose(resp)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: status %d: %w", r.baseURL, resp.StatusCode, replica.ErrUnavailable)
	}

	var rr readResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", r.baseURL, replica.ErrUnavailable)
	}
	if !rr.Found {
		return nil, nil
	}
	return &storage.VersionedValue{Value: rr.Value, Version: rr.Version}, nil
}

// Version fetches the stored version for key, 0 when unknown.
func (r *RemoteReplica) Version(ctx context.Context, key string) (uint64, error) {
	resp, err := r.get(ctx, "/internal/version/"+url.PathEscape(key))
	if err != nil {
		return 0, err
	}
	defer drainClose(resp)

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%s: status %d: %w", r.baseURL, resp.StatusCode, replica.ErrUnavailable)
	}

	var vr versionResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return 0, fmt.Errorf("%s: decode: %w", r.baseURL, replica.ErrUnavailable)
	}
	return vr.Version, nil
}

func (r *RemoteReplica) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.baseURL, replica.ErrUnavailable)
	}
	return resp, nil
}

// drainClose fully reads and closes a response body so the connection
// can be returned to the pool for reuse.
func drainClose(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
}
