package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func newProtectedServer(t *testing.T) *httptest.Server {
	t.Helper()
	ba, err := New("workshop", "hunter2")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	handler := ba.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url, username, password string, withCreds bool) int {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	if withCreds {
		req.SetBasicAuth(username, password)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestMiddleware(t *testing.T) {
	srv := newProtectedServer(t)

	tests := []struct {
		name       string
		username   string
		password   string
		withCreds  bool
		wantStatus int
	}{
		{"valid credentials", "workshop", "hunter2", true, http.StatusOK},
		{"wrong password", "workshop", "letmein", true, http.StatusUnauthorized},
		{"wrong username", "guest", "hunter2", true, http.StatusUnauthorized},
		{"no credentials", "", "", false, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := get(t, srv.URL, tt.username, tt.password, tt.withCreds)
			if got != tt.wantStatus {
				t.Errorf("status = %d, want %d", got, tt.wantStatus)
			}
		})
	}
}

func TestMiddleware_ChallengesBrowsers(t *testing.T) {
	srv := newProtectedServer(t)

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if got := resp.Header.Get("WWW-Authenticate"); got == "" {
		t.Error("401 response is missing the WWW-Authenticate challenge")
	}
}
