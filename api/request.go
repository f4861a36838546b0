package api

import (
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"sync/atomic"

	"text2phenotype.com/ner/pipeline"
)

const (
	ParsePath           = "/parse"
	DefaultMaxBodyBytes = 1 << 20
)

type Request struct {
	Pipeline     pipeline.Pipeline
	// MaxBodyBytes caps the request body, 0 means DefaultMaxBodyBytes.
	MaxBodyBytes int64
	counter      uint64
}

func NewServeMux(req *Request) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc(ParsePath, req.ProcessData)
	return mux
}

// ProcessData runs the raw text body through the pipeline and writes its JSON response.
func (req *Request) ProcessData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	logger := makeRequestLogger(r)

	if r.Method != http.MethodPost {
		logger.Error().Int("status", http.StatusMethodNotAllowed).Msg("Only 'POST' method is allowed here")
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}

	maxBytes := req.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	msg, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		logger.Err(err).Int("status", http.StatusRequestEntityTooLarge).Msg("Request body is too large")
		http.Error(w, "", http.StatusRequestEntityTooLarge)
		return
	}
	if err != nil {
		logger.Err(err).Int("status", http.StatusBadRequest).Msg("Could not read request body")
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	request := pipeline.Request{
		Tid:  fmt.Sprintf("api-%d", atomic.AddUint64(&req.counter, 1)),
		Text: string(msg),
	}
	logger.Info().Str("tid", request.Tid).Msg("Starting pipeline for request from API")
	resp, ok := <-req.Pipeline(request)
	if !ok {
		logger.Error().Int("status", http.StatusInternalServerError).Msg("Pipeline returned no response")
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write([]byte(resp))
	logger.Info().Int("status", http.StatusOK).Msg("Finished processing request")
}
