package robot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/teslashibe/go-botblocks/internal/log"
)

type distance struct {
	Distance *float64 `json:"distance"`
}

func (d *distance) Validate() error {
	if d.Distance == nil {
		return errors.New("missing distance")
	}
	return nil
}

func newTestClient(url string) *Client {
	return NewClient(url, WithLogger(log.Discard()))
}

func TestClientDo_PostsJSONBody(t *testing.T) {
	var gotMethod, gotPath, gotType, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.EscapedPath()
		gotType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := newTestClient(server.URL + "/")
	req := Post("set_led", "/v1/led/"+PathEscape("1"), map[string]string{"state": "on"})
	if err := c.Do(context.Background(), req, nil); err != nil {
		t.Fatalf("Do failed: %v", err)
	}

	if gotMethod != "POST" {
		t.Errorf("method: got %s, want POST", gotMethod)
	}
	if gotPath != "/v1/led/1" {
		t.Errorf("path: got %s", gotPath)
	}
	if gotType != "application/json; charset=UTF-8" {
		t.Errorf("content type: got %q", gotType)
	}
	if gotBody != `{"state":"on"}` {
		t.Errorf("body: got %s", gotBody)
	}
}

func TestClientDo_NoBodyNoContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "" {
			t.Errorf("unexpected content type %q", ct)
		}
		if r.ContentLength > 0 {
			t.Errorf("unexpected body of %d bytes", r.ContentLength)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	if err := newTestClient(server.URL).Do(context.Background(), Post("stop", "/v1/stop", nil), nil); err != nil {
		t.Fatalf("Do failed: %v", err)
	}
}

func TestClientDo_DecodesAndValidates(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{"distance": 523})
		}))
		defer server.Close()

		var out distance
		if err := newTestClient(server.URL).Do(context.Background(), Get("distance", "/v1/distance"), &out); err != nil {
			t.Fatalf("Do failed: %v", err)
		}
		if *out.Distance != 523 {
			t.Errorf("distance: got %v", *out.Distance)
		}
	})

	t.Run("missing field", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"dist": 5}`)
		}))
		defer server.Close()

		var out distance
		err := newTestClient(server.URL).Do(context.Background(), Get("distance", "/v1/distance"), &out)
		if !errors.Is(err, ErrInvalidResponse) {
			t.Fatalf("expected ErrInvalidResponse, got %v", err)
		}
	})

	t.Run("not json", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html>`)
		}))
		defer server.Close()

		var out distance
		err := newTestClient(server.URL).Do(context.Background(), Get("distance", "/v1/distance"), &out)
		if !errors.Is(err, ErrInvalidResponse) {
			t.Fatalf("expected ErrInvalidResponse, got %v", err)
		}
	})
}

func TestClientDo_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "No distance sensor", http.StatusNotFound)
	}))
	defer server.Close()

	err := newTestClient(server.URL).Do(context.Background(), Get("distance", "/v1/sensors/I2C/distance/distance"), &distance{})
	apiErr, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("expected APIError, got %v", err)
	}
	if !apiErr.IsNotFound() {
		t.Errorf("expected 404, got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "No distance sensor" {
		t.Errorf("message: got %q", apiErr.Message)
	}
	want := "robot [distance]: GET /v1/sensors/I2C/distance/distance: Not Found"
	if apiErr.Error() != want {
		t.Errorf("error text:\n got %q\nwant %q", apiErr.Error(), want)
	}
}

func TestClientDo_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	err := newTestClient(url).Do(context.Background(), Post("stop", "/v1/stop", nil), nil)
	if err == nil {
		t.Fatal("expected error from closed server")
	}
	if _, ok := AsAPIError(err); ok {
		t.Error("transport failure should not be an APIError")
	}
}

func TestClientDo_NoBaseURL(t *testing.T) {
	err := newTestClient("").Do(context.Background(), Post("stop", "/v1/stop", nil), nil)
	if !errors.Is(err, ErrNoBaseURL) {
		t.Fatalf("expected ErrNoBaseURL, got %v", err)
	}
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ping" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"server": "gpg3", "v1": "supported"}`)
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).Ping(context.Background())
	if err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if resp.Server != "gpg3" || !resp.SupportsV1() {
		t.Errorf("unexpected ping response %+v", resp)
	}
}
