package broker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"market-gateway/src/helpers"
	"market-gateway/src/models"
)

// -----------------------------------------------------------------------------
// Request Layer
// -----------------------------------------------------------------------------

// call performs one authenticated request and classifies the outcome:
// HTTP 200 with a true broker status flag yields the data payload, anything
// else (non-200, broker failure flag, transport error, malformed body) yields
// an error with the broker's message logged. One attempt per call.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, payload any, op string) (json.RawMessage, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range c.headers.Headers() {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("%s failed: %v", op, err)
		return nil, helpers.NewBrokerError(op+" transport error", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("%s failed reading response: %v", op, err)
		return nil, helpers.NewBrokerError(op+" read error", err)
	}

	var env models.MBrokerEnvelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		c.logger.Error("%s returned malformed body: %v", op, err)
		return nil, helpers.NewBrokerError(op+" malformed response", err)
	}

	if resp.StatusCode != http.StatusOK || !env.Status {
		msg := env.Message
		if msg == "" {
			msg = "Unknown error"
		}
		c.logger.Error("%s failed: %s (status %d, errorcode %s)", op, msg, resp.StatusCode, env.ErrorCode)
		return nil, helpers.NewBrokerError(fmt.Sprintf("%s rejected: %s", op, msg), nil)
	}

	return env.Data, nil
}
