package steprunner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/knowledgehooks/khook/internal/domain/hook"
	khookerrors "github.com/knowledgehooks/khook/pkg/errors"
)

type httpResult struct {
	StatusCode int         `json:"statusCode"`
	Headers    http.Header `json:"headers"`
	Body       interface{} `json:"body"`
}

// runHTTP issues a single request; the response body is parsed as
// JSON when the content-type indicates it, otherwise kept as text.
// Status >= 400 is a step failure: the parsed response is returned
// alongside the error, but Run does not keep a failed step's data, so
// it is not available to outputMapping.
func runHTTP(ctx context.Context, step *hook.HttpStep) (interface{}, error) {
	var body io.Reader
	if step.Body != "" {
		body = strings.NewReader(step.Body)
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(step.Method), step.URL, body)
	if err != nil {
		return nil, khookerrors.NewIoFailure("build http request", err)
	}
	for k, v := range step.Headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, khookerrors.NewIoFailure("http request to "+step.URL, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, khookerrors.NewIoFailure("read http response", err)
	}

	result := httpResult{StatusCode: resp.StatusCode, Headers: resp.Header}
	if isJSON(resp.Header.Get("Content-Type")) {
		var parsed interface{}
		if err := json.Unmarshal(raw, &parsed); err == nil {
			result.Body = parsed
		} else {
			result.Body = string(raw)
		}
	} else {
		result.Body = string(raw)
	}

	if resp.StatusCode >= 400 {
		return result, khookerrors.NewStepFailure("http", fmt.Errorf("http %d from %s", resp.StatusCode, step.URL))
	}
	return result, nil
}

func isJSON(contentType string) bool {
	return strings.Contains(contentType, "json")
}
