// Package server exposes the codecs as a JSON REST API.
//
// Endpoints:
//
//	POST /api/decode      body: {"codec":"...","rule_type":"...","subtype":"...","text":"..."}
//	POST /api/encode      body: {"codec":"...","rule_type":"...","subtype":"...","value":{...}}
//	POST /api/roundtrip   body: {"codec":"...","rule_type":"...","subtype":"...","text":"..."}
//	GET  /api/rule-types
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/rs/cors"

	"github.com/nihei9/ruletext/codec"
	verr "github.com/nihei9/ruletext/error"
	"github.com/nihei9/ruletext/ruletype"
)

// ---- JSON request/response types ----------------------------------------

type request struct {
	Codec    string          `json:"codec"`
	RuleType string          `json:"rule_type"`
	Subtype  string          `json:"subtype"`
	Text     string          `json:"text"`
	Value    json.RawMessage `json:"value"`
}

type decodeResponse struct {
	Codec codec.Kind  `json:"codec"`
	Value interface{} `json:"value"`
}

type encodeResponse struct {
	Codec codec.Kind `json:"codec"`
	Text  string     `json:"text"`
}

type roundTripResponse struct {
	Codec codec.Kind  `json:"codec"`
	Value interface{} `json:"value"`
	Text  string      `json:"text"`
}

type subtypeJSON struct {
	Name string `json:"name"`
	Code int    `json:"code"`
}

type ruleTypesResponse struct {
	RuleTypes []ruletype.Entry       `json:"rule_types"`
	Syncats   []ruletype.SyncatEntry `json:"syncats"`
	Subtypes  []subtypeJSON          `json:"subtypes"`
	Codecs    []codec.Kind           `json:"codecs"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// ---- helpers ------------------------------------------------------------

// A spellout table document can be large, but nothing legitimate comes close to this.
const maxBodySize = 16 * 1024 * 1024

type Config struct {
	// AllowedOrigins is passed to the CORS handler. Empty means every origin.
	AllowedOrigins []string

	// Logger receives one line per failed request. Nil means log.Default().
	Logger *log.Logger
}

type server struct {
	logger *log.Logger
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Printf("encode error: %v", err)
	}
}

func (s *server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// writeCodecError maps the failures of a codec onto 422 and everything else onto 400.
func (s *server) writeCodecError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Printf("%v %v: %v", r.Method, r.URL.Path, err)
	var cerr *verr.CodecError
	if errors.As(err, &cerr) {
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: cerr.Error(),
			Kind:  cerr.Cause.Error(),
		})
		return
	}
	s.writeError(w, http.StatusBadRequest, err.Error())
}

func (s *server) readRequest(w http.ResponseWriter, r *http.Request) (*request, codec.Kind, codec.Options, bool) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "POST required")
		return nil, "", codec.Options{}, false
	}
	var req request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return nil, "", codec.Options{}, false
	}
	k, err := codec.ParseKind(req.Codec)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return nil, "", codec.Options{}, false
	}
	opts, err := codec.ParseOptions(req.RuleType, req.Subtype)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return nil, "", codec.Options{}, false
	}
	return &req, k, opts, true
}

// ---- handlers -----------------------------------------------------------

func (s *server) handleDecode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, k, opts, ok := s.readRequest(w, r)
		if !ok {
			return
		}
		v, err := codec.Decode(k, req.Text, opts)
		if err != nil {
			s.writeCodecError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, decodeResponse{
			Codec: k,
			Value: v,
		})
	}
}

func (s *server) handleEncode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, k, opts, ok := s.readRequest(w, r)
		if !ok {
			return
		}
		if len(req.Value) == 0 {
			s.writeError(w, http.StatusBadRequest, "value required")
			return
		}
		v, err := codec.NewValue(k)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := json.Unmarshal(req.Value, v); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid value: "+err.Error())
			return
		}
		text, err := codec.Encode(k, v, opts)
		if err != nil {
			s.writeCodecError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, encodeResponse{
			Codec: k,
			Text:  text,
		})
	}
}

func (s *server) handleRoundTrip() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, k, opts, ok := s.readRequest(w, r)
		if !ok {
			return
		}
		res, err := codec.RoundTrip(k, req.Text, opts)
		if err != nil {
			s.writeCodecError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, roundTripResponse{
			Codec: k,
			Value: res.Value,
			Text:  res.Encoded,
		})
	}
}

func (s *server) handleRuleTypes() http.HandlerFunc {
	var subtypes []subtypeJSON
	for sub := ruletype.SubtypeSimple; sub.Valid(); sub++ {
		subtypes = append(subtypes, subtypeJSON{
			Name: sub.String(),
			Code: sub.Int(),
		})
	}
	resp := ruleTypesResponse{
		RuleTypes: ruletype.All(),
		Syncats:   ruletype.Syncats(),
		Subtypes:  subtypes,
		Codecs:    codec.Kinds(),
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			s.writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		s.writeJSON(w, http.StatusOK, resp)
	}
}

// New returns the API handler wrapped in a CORS handler.
func New(cfg Config) http.Handler {
	s := &server{
		logger: cfg.Logger,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/decode", s.handleDecode())
	mux.HandleFunc("/api/encode", s.handleEncode())
	mux.HandleFunc("/api/roundtrip", s.handleRoundTrip())
	mux.HandleFunc("/api/rule-types", s.handleRuleTypes())

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(mux)
}
