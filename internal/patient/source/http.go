package source

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"patientdir/pkg/platform/sentinel"
)

// maxDocumentBytes caps how much of a remote response is read.
const maxDocumentBytes = 64 << 20

// HTTP fetches the document with a single GET. There is no retry and no
// timeout beyond what ctx carries.
type HTTP struct {
	URL    string
	Client *http.Client
}

// NewHTTP builds an HTTP source. A nil client uses http.DefaultClient.
func NewHTTP(url string, client *http.Client) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{URL: url, Client: client}
}

func (h *HTTP) Name() string { return "http" }

// Fetch returns the body of a 200 response. 404 maps to ErrNotFound, any
// other status to ErrUnavailable carrying the status text.
func (h *HTTP) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", sentinel.ErrUnavailable, h.URL, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: GET %s: %s", sentinel.ErrNotFound, h.URL, resp.Status)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: GET %s: %s", sentinel.ErrUnavailable, h.URL, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", sentinel.ErrUnavailable, err)
	}
	return data, nil
}
