package transport

// Wire types for the internal replica RPCs. Values travel base64-encoded
// inside JSON.

type writeRequest struct {
	Key     string `json:"key"`
	Value   []byte `json:"value"`
	Version uint64 `json:"version"`
}

type writeResponse struct {
	Accepted bool `json:"accepted"`
}

type readResponse struct {
	Found   bool   `json:"found"`
	Value   []byte `json:"value,omitempty"`
	Version uint64 `json:"version,omitempty"`
}

type versionResponse struct {
	Version uint64 `json:"version"`
}

type errorResponse struct {
	Error string `json:"error"`
}
