package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(Config{
		Logger: log.New(io.Discard, "", 0),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestServer(t *testing.T) {
	tests := []struct {
		method string
		path   string
		body   string
		status int
		want   map[string]interface{}
		kind   string
	}{
		{
			method: http.MethodPost,
			path:   "/api/decode",
			body:   `{"codec":"input-structure","rule_type":"Rules_Lexical","text":"*cat~|2-m\r\n"}`,
			status: http.StatusOK,
			want: map[string]interface{}{
				"codec": "input-structure",
			},
		},
		{
			method: http.MethodPost,
			path:   "/api/roundtrip",
			body:   `{"codec":"spellout-table","rule_type":"4","subtype":"Simple","text":"w1>|<2|2|>|<>|<10|20|a@x|30|b@y|c1|c2|c3|c4|"}`,
			status: http.StatusOK,
			want: map[string]interface{}{
				"codec": "spellout-table",
				"text":  "w1>|<2|2|>|<>|<10|20|a@x|30|b@y|c1|c2|c3|c4|",
			},
		},
		{
			method: http.MethodPost,
			path:   "/api/roundtrip",
			body:   `{"codec":"output-structure","rule_type":"Rules_Transfer","text":"Copy0~|~|Delete~|1\r\n"}`,
			status: http.StatusUnprocessableEntity,
			kind:   "invariant violation",
		},
		{
			method: http.MethodPost,
			path:   "/api/decode",
			body:   `{"codec":"output-structure","rule_type":"Rules_Transfer","text":"a~|b~|c~|d~|e\r\n"}`,
			status: http.StatusUnprocessableEntity,
			kind:   "malformed input",
		},
		{
			method: http.MethodPost,
			path:   "/api/decode",
			body:   `{"codec":"table","rule_type":"Rules_Transfer","text":""}`,
			status: http.StatusBadRequest,
		},
		{
			method: http.MethodPost,
			path:   "/api/decode",
			body:   `{"codec":"input-structure","rule_type":"Rules_Nothing","text":""}`,
			status: http.StatusBadRequest,
		},
		{
			method: http.MethodPost,
			path:   "/api/decode",
			body:   `{`,
			status: http.StatusBadRequest,
		},
		{
			method: http.MethodGet,
			path:   "/api/decode",
			status: http.StatusMethodNotAllowed,
		},
		{
			method: http.MethodPost,
			path:   "/api/encode",
			body:   `{"codec":"input-structure","rule_type":"Rules_Lexical"}`,
			status: http.StatusBadRequest,
		},
		{
			method: http.MethodPost,
			path:   "/api/rule-types",
			status: http.StatusMethodNotAllowed,
		},
	}
	srv := newTestServer(t)
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v", i), func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			req.Header.Set("Content-Type", "application/json")
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Fatalf("unexpected status; want: %v, got: %v", tt.status, resp.StatusCode)
			}
			var body map[string]interface{}
			err = json.NewDecoder(resp.Body).Decode(&body)
			if err != nil {
				t.Fatal(err)
			}
			for k, v := range tt.want {
				if body[k] != v {
					t.Fatalf("unexpected %v; want: %v, got: %v", k, v, body[k])
				}
			}
			if tt.status != http.StatusOK {
				if _, ok := body["error"].(string); !ok {
					t.Fatalf("an error response must have an error message: %v", body)
				}
				if tt.kind != "" && body["kind"] != tt.kind {
					t.Fatalf("unexpected kind; want: %v, got: %v", tt.kind, body["kind"])
				}
			}
		})
	}
}

func TestServer_DecodeThenEncode(t *testing.T) {
	srv := newTestServer(t)
	const text = "Copy0~|~|~|1\r\n~|~|Delete~|1\r\n"

	post := func(path string, body interface{}) map[string]json.RawMessage {
		t.Helper()
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		resp, err := http.Post(srv.URL+path, "application/json", bytes.NewReader(b))
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("unexpected status: %v", resp.StatusCode)
		}
		var res map[string]json.RawMessage
		err = json.NewDecoder(resp.Body).Decode(&res)
		if err != nil {
			t.Fatal(err)
		}
		return res
	}

	decoded := post("/api/decode", map[string]string{
		"codec":     "output-structure",
		"rule_type": "Rules_Transfer",
		"text":      text,
	})
	encoded := post("/api/encode", map[string]interface{}{
		"codec":     "output-structure",
		"rule_type": "Rules_Transfer",
		"value":     decoded["value"],
	})
	var got string
	err := json.Unmarshal(encoded["text"], &got)
	if err != nil {
		t.Fatal(err)
	}
	if got != text {
		t.Fatalf("unexpected text; want: %q, got: %q", text, got)
	}
}

func TestServer_RuleTypes(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/rule-types")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body ruleTypesResponse
	err = json.NewDecoder(resp.Body).Decode(&body)
	if err != nil {
		t.Fatal(err)
	}
	if len(body.RuleTypes) == 0 || body.RuleTypes[0].Name != "Rules_Lexical" {
		t.Fatalf("unexpected rule types: %v", body.RuleTypes)
	}
	if len(body.Subtypes) != 6 || body.Subtypes[4].Name != "Phrase Builder" {
		t.Fatalf("unexpected subtypes: %v", body.Subtypes)
	}
	if len(body.Codecs) != 6 {
		t.Fatalf("unexpected codecs: %v", body.Codecs)
	}
}

func TestServer_CORS(t *testing.T) {
	srv := httptest.NewServer(New(Config{
		AllowedOrigins: []string{"http://example.com"},
		Logger:         log.New(io.Discard, "", 0),
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/rule-types", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Origin", "http://example.com")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Fatalf("unexpected allowed origin: %q", got)
	}

	req.Header.Set("Origin", "http://other.example.com")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("an unlisted origin must not be allowed: %q", got)
	}
}
