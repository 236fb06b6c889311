// Package searcher executes finalized criteria trees against the backend
// index and aggregates facet counts alongside the hits.
//
// The searcher is the build-and-execute boundary: it receives a criteria
// builder, compiles it into the backend's native query representation,
// attaches the declared facet requests, runs the search, and maps hits and
// facet distributions back to domain results. Repeated identical requests
// are served from a small LRU cache keyed by the compiled query form.
package searcher
