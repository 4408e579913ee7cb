// Package jsonstore is an in-memory stand-in for the companies and users data
// service. It answers the same REST routes the gateway calls, with the
// json-server conventions the gateway relies on.
package jsonstore

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// Seed is the json-server style document a store is loaded from.
type Seed struct {
	Users     []map[string]interface{} `json:"users"`
	Companies []map[string]interface{} `json:"companies"`
}

// Store holds users and companies as loose JSON records keyed by id.
type Store struct {
	mu        sync.RWMutex
	users     *collection
	companies *collection
	requests  atomic.Int64
}

type collection struct {
	order   []string
	records map[string]map[string]interface{}
}

func newCollection() *collection {
	return &collection{records: make(map[string]map[string]interface{})}
}

func (c *collection) put(record map[string]interface{}) {
	id := fmt.Sprint(record["id"])
	record["id"] = id
	if _, exists := c.records[id]; !exists {
		c.order = append(c.order, id)
	}
	c.records[id] = record
}

func (c *collection) remove(id string) bool {
	if _, ok := c.records[id]; !ok {
		return false
	}
	delete(c.records, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// New creates a store populated from seed.
func New(seed Seed) *Store {
	s := &Store{users: newCollection(), companies: newCollection()}
	for _, u := range seed.Users {
		s.users.put(copyRecord(u))
	}
	for _, c := range seed.Companies {
		s.companies.put(copyRecord(c))
	}
	return s
}

// LoadSeed reads a seed document from path.
func LoadSeed(path string) (Seed, error) {
	var seed Seed
	raw, err := os.ReadFile(path)
	if err != nil {
		return seed, err
	}
	if err := json.Unmarshal(raw, &seed); err != nil {
		return seed, fmt.Errorf("failed to decode seed %s: %w", path, err)
	}
	return seed, nil
}

// Requests returns the number of requests served so far.
func (s *Store) Requests() int64 {
	return s.requests.Load()
}

// Handler returns the REST routes of the store.
func (s *Store) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.count)

	r.HandleFunc("/users", s.listUsers).Methods(http.MethodGet)
	r.HandleFunc("/users", s.createUser).Methods(http.MethodPost)
	r.HandleFunc("/users/{id}", s.getUser).Methods(http.MethodGet)
	r.HandleFunc("/users/{id}", s.patchUser).Methods(http.MethodPatch)
	r.HandleFunc("/users/{id}", s.deleteUser).Methods(http.MethodDelete)
	r.HandleFunc("/companies/{id}", s.getCompany).Methods(http.MethodGet)
	r.HandleFunc("/companies/{id}/users", s.getCompanyUsers).Methods(http.MethodGet)

	return r
}

func (s *Store) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		zerolog.Ctx(r.Context()).Debug().
			Str("method", r.Method).
			Str("url", r.URL.String()).
			Msg("data store request")
		next.ServeHTTP(w, r)
	})
}

func (s *Store) listUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]map[string]interface{}, 0, len(s.users.order))
	for _, id := range s.users.order {
		users = append(users, s.users.records[id])
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Store) getUser(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users.records[mux.Vars(r)["id"]]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{})
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Store) getCompany(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	company, ok := s.companies.records[mux.Vars(r)["id"]]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{})
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func (s *Store) getCompanyUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	companyID := mux.Vars(r)["id"]
	users := make([]map[string]interface{}, 0)
	for _, id := range s.users.order {
		user := s.users.records[id]
		if fk, ok := user["companyId"]; ok && fmt.Sprint(fk) == companyID {
			users = append(users, user)
		}
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Store) createUser(w http.ResponseWriter, r *http.Request) {
	record, err := decodeRecord(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := record["id"]; !ok {
		record["id"] = uuid.NewString()
	}
	s.users.put(record)
	writeJSON(w, http.StatusCreated, record)
}

func (s *Store) patchUser(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeRecord(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := mux.Vars(r)["id"]
	user, ok := s.users.records[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{})
		return
	}
	for k, v := range fields {
		if k == "id" {
			continue
		}
		user[k] = v
	}
	writeJSON(w, http.StatusOK, user)
}

// deleteUser answers with an empty body, as the real data service does.
func (s *Store) deleteUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.users.remove(mux.Vars(r)["id"]) {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{})
		return
	}
	w.WriteHeader(http.StatusOK)
}

func decodeRecord(body io.Reader) (map[string]interface{}, error) {
	record := make(map[string]interface{})
	if err := json.NewDecoder(body).Decode(&record); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	return record, nil
}

func copyRecord(record map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(record))
	for k, v := range record {
		out[k] = v
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
