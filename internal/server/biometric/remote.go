package biometric

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPExtractor calls a face-encoding service over HTTP: the raw image bytes
// are POSTed to the endpoint and the response body is a JSON array of
// encoding vectors, one per detected face.
type HTTPExtractor struct {
	endpoint string
	client   *http.Client
}

func NewHTTPExtractor(endpoint string) *HTTPExtractor {
	return &HTTPExtractor{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (e *HTTPExtractor) Encodings(ctx context.Context, image []byte) ([][]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(image))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extractor returned status %d", resp.StatusCode)
	}

	var encodings [][]float64
	if err := json.NewDecoder(resp.Body).Decode(&encodings); err != nil {
		return nil, fmt.Errorf("invalid extractor response: %w", err)
	}
	return encodings, nil
}
