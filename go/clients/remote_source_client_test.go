package clients

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func newTestRemoteClient(rt http.RoundTripper) *RemoteSourceClient {
	return NewRemoteSourceClient("https://remote.example/exec", &http.Client{Transport: rt})
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     make(http.Header),
	}
}

func TestFetchSnapshotDisablesCaching(t *testing.T) {
	var seen *http.Request
	client := newTestRemoteClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		seen = r
		return jsonResponse(http.StatusOK, `{"rally_count": 3}`), nil
	}))

	snapshot, err := client.FetchSnapshot(context.Background())
	if err != nil {
		t.Fatalf("FetchSnapshot returned error: %v", err)
	}

	if seen.Method != http.MethodGet {
		t.Fatalf("method = %s, want GET", seen.Method)
	}
	if seen.URL.String() != "https://remote.example/exec" {
		t.Fatalf("url = %s", seen.URL)
	}
	if got := seen.Header.Get("Cache-Control"); got != "no-cache, no-store" {
		t.Fatalf("Cache-Control = %q", got)
	}
	if got := seen.Header.Get("Pragma"); got != "no-cache" {
		t.Fatalf("Pragma = %q", got)
	}

	obj, ok := snapshot.(map[string]any)
	if !ok || obj["rally_count"] != float64(3) {
		t.Fatalf("unexpected snapshot: %#v", snapshot)
	}
}

func TestFetchSnapshotNonOKStatus(t *testing.T) {
	client := newTestRemoteClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusInternalServerError, "boom"), nil
	}))

	_, err := client.FetchSnapshot(context.Background())
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusInternalServerError || statusErr.Body != "boom" {
		t.Fatalf("unexpected status error: %+v", statusErr)
	}
}

func TestFetchSnapshotJSONDecodeError(t *testing.T) {
	client := newTestRemoteClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, "<html>not json</html>"), nil
	}))

	if _, err := client.FetchSnapshot(context.Background()); err == nil {
		t.Fatalf("expected JSON decode error")
	}
}

func TestFetchSnapshotTransportError(t *testing.T) {
	client := newTestRemoteClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	}))

	_, err := client.FetchSnapshot(context.Background())
	if err == nil {
		t.Fatalf("expected transport error")
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		t.Fatalf("transport error should not be a StatusError: %v", err)
	}
}

func TestStatusErrorMessage(t *testing.T) {
	if got := (&StatusError{StatusCode: 502}).Error(); got != "API returned status code: 502" {
		t.Fatalf("Error() = %q", got)
	}
	if got := (&StatusError{StatusCode: 404, Body: "missing"}).Error(); got != "API returned status code: 404, response: missing" {
		t.Fatalf("Error() = %q", got)
	}
}
