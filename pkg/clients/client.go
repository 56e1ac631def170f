// Package clients holds the outbound HTTP wrappers for calling peer
// services. Each wrapper issues one request against the peer's fixed path
// prefix, logs a diagnostic line on failure, and returns the error
// unchanged; retries are the caller's decision.
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"questify/pkg/apperrors"
	"questify/pkg/platform/httpjson"
)

type baseClient struct {
	baseURL string
	prefix  string
	http    *http.Client
	logger  *slog.Logger
}

func newBaseClient(baseURL, prefix string, logger *slog.Logger) baseClient {
	return baseClient{
		baseURL: baseURL,
		prefix:  prefix,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

// get performs one GET against prefix+path and decodes the JSON response
// into out.
func (c *baseClient) get(ctx context.Context, path string, out any) error {
	url := c.baseURL + c.prefix + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "service call failed", "url", url, "error", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := errorFromResponse(resp)
		c.logger.ErrorContext(ctx, "service call rejected",
			"url", url,
			"status", resp.StatusCode,
			"error", err,
		)
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.ErrorContext(ctx, "service response decode failed", "url", url, "error", err)
		return err
	}
	return nil
}

// errorFromResponse rebuilds the peer's application error so callers can
// check its code. Bodies that are not the standard envelope become a
// generic error with the raw status.
func errorFromResponse(resp *http.Response) error {
	var body httpjson.ErrorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && len(body.Errors) > 0 {
		return apperrors.New(codeForStatus(resp.StatusCode), body.Errors[0].Message)
	}
	return apperrors.New(codeForStatus(resp.StatusCode), fmt.Sprintf("peer returned %d", resp.StatusCode))
}

func codeForStatus(status int) apperrors.Code {
	switch status {
	case http.StatusBadRequest:
		return apperrors.CodeBadRequest
	case http.StatusUnauthorized:
		return apperrors.CodeNotAuthorized
	case http.StatusNotFound:
		return apperrors.CodeNotFound
	case http.StatusGatewayTimeout:
		return apperrors.CodeTimeout
	default:
		return apperrors.CodeInternal
	}
}
