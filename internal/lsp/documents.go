package lsp

import (
	"sort"
	"sync"
)

type document struct {
	text    string
	version int32
}

// documentStore holds the text of every open document, keyed by URI.
type documentStore struct {
	mu   sync.RWMutex
	docs map[string]document
}

func newDocumentStore() *documentStore {
	return &documentStore{docs: make(map[string]document)}
}

func (ds *documentStore) get(uri string) (document, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	doc, ok := ds.docs[uri]
	return doc, ok
}

func (ds *documentStore) put(uri, text string, version int32) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.docs[uri] = document{text: text, version: version}
}

func (ds *documentStore) remove(uri string) bool {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	_, ok := ds.docs[uri]
	delete(ds.docs, uri)
	return ok
}

// clear drops every document and returns their URIs, sorted.
func (ds *documentStore) clear() []string {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	uris := make([]string, 0, len(ds.docs))
	for uri := range ds.docs {
		uris = append(uris, uri)
	}
	ds.docs = make(map[string]document)
	sort.Strings(uris)
	return uris
}
