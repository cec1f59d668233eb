package printclient

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

const testIdentity = "203.0.113.7"

// fakeBoard serves the identity lookup and the board endpoints, counting calls.
type fakeBoard struct {
	identityCalls atomic.Int32
	printCalls    atomic.Int32
	insertCalls   atomic.Int32
	readCalls     atomic.Int32

	// identity, when set, replaces the default {"ip": testIdentity} answer.
	identity http.HandlerFunc

	printStatus  int
	insertStatus int
	rows         string

	mu          sync.Mutex
	insertNames  []string
	insertBodies []string
	messages     []string
	apiKeys      []string
}

func newFakeBoard(t *testing.T) (*fakeBoard, *httptest.Server) {
	t.Helper()
	b := &fakeBoard{rows: "[]"}

	mux := http.NewServeMux()
	mux.HandleFunc("/ip", func(w http.ResponseWriter, r *http.Request) {
		b.identityCalls.Add(1)
		if b.identity != nil {
			b.identity(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"ip":"` + testIdentity + `"}`))
	})
	mux.HandleFunc("/sendPrint", func(w http.ResponseWriter, r *http.Request) {
		b.printCalls.Add(1)
		var req PrintRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		b.messages = append(b.messages, req.Message)
		b.apiKeys = append(b.apiKeys, r.Header.Get("X-API-Key"))
		b.mu.Unlock()
		if b.printStatus != 0 {
			w.WriteHeader(b.printStatus)
			return
		}
		_, _ = w.Write([]byte("Print job initiated successfully"))
	})
	mux.HandleFunc("/leaderboardInsert", func(w http.ResponseWriter, r *http.Request) {
		b.insertCalls.Add(1)
		body, _ := io.ReadAll(r.Body)
		var req LeaderboardEntry
		_ = json.Unmarshal(body, &req)
		b.mu.Lock()
		b.insertNames = append(b.insertNames, req.Name)
		b.insertBodies = append(b.insertBodies, string(body))
		b.apiKeys = append(b.apiKeys, r.Header.Get("X-API-Key"))
		b.mu.Unlock()
		if b.insertStatus != 0 {
			w.WriteHeader(b.insertStatus)
			return
		}
		_, _ = w.Write([]byte("Data processed and ranks updated successfully"))
	})
	mux.HandleFunc("/leaderboardRead", func(w http.ResponseWriter, r *http.Request) {
		b.readCalls.Add(1)
		if r.Header.Get("X-API-Key") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(b.rows))
	})
	mux.HandleFunc("/getImage", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"imageUrl":"https://cdn.example.test/preview.png"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *fakeBoard) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.insertNames...)
}

func (b *fakeBoard) bodies() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.insertBodies...)
}

func (b *fakeBoard) printMessages() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.messages...)
}

func (b *fakeBoard) keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.apiKeys...)
}

func testConfig(srv *httptest.Server) Config {
	return Config{
		Endpoints: NewEndpoints(srv.URL, srv.URL+"/ip"),
		APIKey:    "secret",
	}
}
