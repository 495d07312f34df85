package robot

import (
	"net/url"
	"testing"

	"pgregory.net/rapid"
)

func TestPathEscape(t *testing.T) {
	cases := map[string]string{
		"1":          "1",
		"left":       "left",
		"SERVO1":     "SERVO1",
		"a b":        "a%20b",
		"a/b":        "a%2Fb",
		"x?y=1&z":    "x%3Fy%3D1%26z",
		"it's(ok)!*": "it's(ok)!*",
		"ü":          "%C3%BC",
	}
	for in, want := range cases {
		if got := PathEscape(in); got != want {
			t.Errorf("PathEscape(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPathEscape_RoundTrips(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "segment")
		escaped := PathEscape(s)
		back, err := url.PathUnescape(escaped)
		if err != nil {
			t.Fatalf("unescape %q: %v", escaped, err)
		}
		if back != s {
			t.Fatalf("round trip: %q -> %q -> %q", s, escaped, back)
		}
		for i := 0; i < len(escaped); i++ {
			if escaped[i] == '/' || escaped[i] == '?' || escaped[i] == '#' {
				t.Fatalf("unescaped delimiter in %q", escaped)
			}
		}
	})
}

func TestRequestEncode(t *testing.T) {
	body, err := Get("distance", "/v1/distance").Encode()
	if err != nil || body != nil {
		t.Errorf("GET should have no body, got %q, %v", body, err)
	}

	body, err = Put("servo", "/v1/servos/SERVO1/position", struct {
		Position float64 `json:"position"`
	}{90}).Encode()
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != `{"position":90}` {
		t.Errorf("body: got %s", body)
	}
}

func TestRequestURL(t *testing.T) {
	r := Get("status", "/v1/motors/status")
	if got := r.URL("http://gopigo:8080/"); got != "http://gopigo:8080/v1/motors/status" {
		t.Errorf("URL: got %s", got)
	}
	if r.String() != "GET /v1/motors/status" {
		t.Errorf("String: got %s", r.String())
	}
}
