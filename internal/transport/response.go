package transport

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/agentstation/utc"

	"github.com/nxshot/capturedb/pkg/errors"
	"github.com/nxshot/capturedb/pkg/logging"
)

// ReadBody reads and closes a response body, rejecting non-200 statuses.
func ReadBody(resp *http.Response, source string) ([]byte, error) {
	defer closeBody(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewAPIError(source, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	return body, nil
}

// DecodeJSON reads a response body and unmarshals it into target.
func DecodeJSON(resp *http.Response, source string, target any) error {
	body, err := ReadBody(resp, source)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", source, err)
	}

	return nil
}

// LastModified parses a response's Last-Modified header into a UTC
// timestamp. Returns nil when the header is absent or unparsable.
func LastModified(resp *http.Response) *utc.Time {
	header := resp.Header.Get("Last-Modified")
	if header == "" {
		return nil
	}

	t, err := http.ParseTime(header)
	if err != nil {
		return nil
	}

	ts := utc.Time{Time: t.UTC()}
	return &ts
}

// closeBody drains and closes a response body so the connection can be
// reused.
func closeBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	if err := resp.Body.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close response body")
	}
}
