package booking

import (
	"fmt"
	"sync"
)

// Registry tracks one pipeline per session and flight/guest pair. Asking
// for a different flight or guest count lands on a different key, which is
// how "changing them requires a fresh instance" falls out.
type Registry struct {
	client Submitter

	mu        sync.Mutex
	pipelines map[string]*Pipeline
}

func NewRegistry(client Submitter) *Registry {
	return &Registry{
		client:    client,
		pipelines: make(map[string]*Pipeline),
	}
}

// Get returns the live pipeline for the session's flight/guest pair,
// creating it when the passenger collection view is first opened.
func (r *Registry) Get(sessionID, flightID string, guests int, returnDate string) (*Pipeline, error) {
	key := pipelineKey(sessionID, flightID, guests)

	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.pipelines[key]; ok {
		return p, nil
	}

	p, err := NewPipeline(r.client, flightID, guests, returnDate)
	if err != nil {
		return nil, err
	}
	r.pipelines[key] = p
	return p, nil
}

// Drop forgets a finished or abandoned pipeline.
func (r *Registry) Drop(sessionID, flightID string, guests int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pipelines, pipelineKey(sessionID, flightID, guests))
}

func pipelineKey(sessionID, flightID string, guests int) string {
	return fmt.Sprintf("%s|%s|%d", sessionID, flightID, guests)
}
