package auditlog

import "errors"

// ExternalLogDTO is the ingestion payload for out-of-process producers.
type ExternalLogDTO struct {
	Method       string `json:"method"`
	URL          string `json:"url"`
	Headers      string `json:"headers,omitempty"`
	RequestBody  string `json:"request_body,omitempty"`
	ResponseBody string `json:"response_body,omitempty"`
	StatusCode   int    `json:"status_code"`
	DurationMs   int64  `json:"duration_ms"`
}

func (d ExternalLogDTO) Validate() error {
	if d.Method == "" {
		return errors.New("method is required")
	}
	if d.URL == "" {
		return errors.New("url is required")
	}
	if d.StatusCode < 100 || d.StatusCode > 599 {
		return errors.New("status_code must be a valid HTTP status")
	}
	return nil
}
