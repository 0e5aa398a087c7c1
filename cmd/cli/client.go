package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

var httpClient *resty.Client

func initClient() {
	httpClient = resty.New().
		SetBaseURL(apiURL).
		SetTimeout(15*time.Second).
		SetHeader("User-Agent", "chirpline-cli/0.1.0")

	if authToken != "" {
		httpClient.SetAuthToken(authToken)
	} else if asUser != "" {
		httpClient.SetHeader("X-User-ID", asUser)
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"error"`
	Field      string `json:"field"`
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%d] %s: %s (%s)", e.StatusCode, e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("[%d] %s: %s", e.StatusCode, e.Code, e.Message)
}

func parseError(resp *resty.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode()}
	if err := json.Unmarshal(resp.Body(), apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = "unknown_error"
		apiErr.Message = string(resp.Body())
	}
	return apiErr
}

// call sends one request and decodes a 2xx body into out, which may be
// nil. query may be nil.
func call(method, path string, query map[string]string, body, out interface{}) error {
	req := httpClient.R().SetQueryParams(query)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return parseError(resp)
	}
	if output == "json" {
		fmt.Println(string(resp.Body()))
	}
	return nil
}
