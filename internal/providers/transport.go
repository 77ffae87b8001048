package providers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// DefaultTimeout is used when no HTTP client is supplied.
const DefaultTimeout = 120 * time.Second

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

func defaultClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return &http.Client{Timeout: DefaultTimeout}
}

// postJSON sends body to url and decodes a 2xx response into out.
// Transport failures and non-2xx statuses are ProviderUnavailable; a body
// that does not decode is InvalidResponse.
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, body, out any) error {
	payload, err := codec.Marshal(body)
	if err != nil {
		return unavailable("marshaling request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return unavailable("creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return unavailable("sending request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return unavailable("reading response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, respBody)
	}

	if err := codec.Unmarshal(respBody, out); err != nil {
		return invalidResponse("parsing response: %v", err)
	}
	return nil
}
