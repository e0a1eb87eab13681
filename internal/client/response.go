package client

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

// interpret turns a backend response into a T or an error.
//
//   - 200-299: the body is decoded as JSON into T. A decode error is returned unmodified.
//   - 401: the credential store is cleared and the navigator is sent to LoginPath before anything else.
//   - other statuses: a JSON body becomes a structured *APIError, any other body becomes an
//     unstructured *APIError carrying the text.
//
// Errors reading the body are returned unmodified. The caller closes the body.
func interpret[T any](c *Client, res *http.Response) (T, error) {
	var out T

	if res.StatusCode >= 200 && res.StatusCode <= 299 {
		if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
			return out, err
		}
		return out, nil
	}

	if res.StatusCode == http.StatusUnauthorized {
		c.invalidateSession(res.Request)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return out, err
	}

	if isJSON(res.Header.Get("Content-Type")) && len(body) > 0 {
		apiErr := &APIError{Structured: true}
		if err := json.Unmarshal(body, apiErr); err != nil {
			return out, err
		}
		if apiErr.Status == 0 {
			apiErr.Status = res.StatusCode
		}
		return out, apiErr
	}

	detail := string(body)
	if detail == "" {
		detail = fmt.Sprintf("HTTP error! status: %d", res.StatusCode)
	}

	return out, &APIError{
		Status: res.StatusCode,
		Detail: detail,
	}
}

// isJSON accepts application/json and structured suffixes such as application/problem+json
func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(contentType, "application/json")
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
