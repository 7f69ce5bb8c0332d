package command

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const testCaller = "0x00000000000000000000000000000000000000ad"

// fakeServer returns envelope responses keyed by method+path.
func fakeServer(t *testing.T, responses map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		data, ok := responses[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{
				"code":    "MV-TOKN-4040",
				"message": "token does not exist",
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"code": "OK", "data": data})
	}))
}

func run(t *testing.T, srv *httptest.Server, args ...string) error {
	t.Helper()
	full := append([]string{"mintvault-cli", "--server", srv.URL, "--output", "json"}, args...)
	return App().Run(full)
}

func TestAppHasAllCommandGroups(t *testing.T) {
	app := App()

	want := []string{"collection", "token", "operator", "balance", "admin"}
	have := make(map[string]bool)
	for _, cmd := range app.Commands {
		have[cmd.Name] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestCollectionInfo(t *testing.T) {
	srv := fakeServer(t, map[string]any{
		"GET /v1/collection": map[string]any{
			"name":       "Vault Relics",
			"symbol":     "RELIC",
			"max_supply": 5,
		},
	})
	defer srv.Close()

	if err := run(t, srv, "collection", "info"); err != nil {
		t.Errorf("collection info error = %v", err)
	}
}

func TestTokenGet(t *testing.T) {
	srv := fakeServer(t, map[string]any{
		"GET /v1/tokens/1": map[string]any{
			"id":    1,
			"owner": testCaller,
		},
	})
	defer srv.Close()

	if err := run(t, srv, "token", "get", "1"); err != nil {
		t.Errorf("token get error = %v", err)
	}
}

func TestTokenGetUnknownFails(t *testing.T) {
	srv := fakeServer(t, nil)
	defer srv.Close()

	err := run(t, srv, "token", "get", "99")
	if err == nil {
		t.Fatal("expected error for unknown token")
	}
	if !strings.Contains(err.Error(), "MV-TOKN-4040") {
		t.Errorf("error = %v, want server code surfaced", err)
	}
}

func TestTokenMintRequiresCaller(t *testing.T) {
	srv := fakeServer(t, nil)
	defer srv.Close()

	err := run(t, srv, "token", "mint", "--to", testCaller)
	if err == nil || !strings.Contains(err.Error(), "--caller") {
		t.Errorf("error = %v, want missing caller complaint", err)
	}
}

func TestTokenMintRejectsBadCaller(t *testing.T) {
	srv := fakeServer(t, nil)
	defer srv.Close()

	err := run(t, srv, "--caller", "nonsense", "token", "mint", "--to", testCaller)
	if err == nil || !strings.Contains(err.Error(), "invalid caller") {
		t.Errorf("error = %v, want invalid caller complaint", err)
	}
}

func TestTokenMint(t *testing.T) {
	srv := fakeServer(t, map[string]any{
		"POST /v1/tokens/mint": map[string]any{
			"token_id": 1,
			"owner":    testCaller,
		},
	})
	defer srv.Close()

	if err := run(t, srv, "--caller", testCaller, "token", "mint", "--to", testCaller); err != nil {
		t.Errorf("token mint error = %v", err)
	}
}

func TestAdminPause(t *testing.T) {
	srv := fakeServer(t, map[string]any{
		"POST /admin/v1/pause": map[string]any{"paused": true},
	})
	defer srv.Close()

	if err := run(t, srv, "--caller", testCaller, "admin", "pause"); err != nil {
		t.Errorf("admin pause error = %v", err)
	}
}

func TestOperatorGrant(t *testing.T) {
	srv := fakeServer(t, map[string]any{
		"POST /v1/operators": map[string]any{
			"owner":    testCaller,
			"operator": testCaller,
			"approved": true,
		},
	})
	defer srv.Close()

	if err := run(t, srv, "--caller", testCaller, "operator", "grant", testCaller); err != nil {
		t.Errorf("operator grant error = %v", err)
	}
}

func TestArgTokenIDValidation(t *testing.T) {
	srv := fakeServer(t, nil)
	defer srv.Close()

	err := run(t, srv, "token", "get", "abc")
	if err == nil || !strings.Contains(err.Error(), "invalid token id") {
		t.Errorf("error = %v, want invalid token id complaint", err)
	}

	err = run(t, srv, "token", "get")
	if err == nil || !strings.Contains(err.Error(), "TOKEN_ID") {
		t.Errorf("error = %v, want missing TOKEN_ID complaint", err)
	}
}

func TestShortAddr(t *testing.T) {
	if got := shortAddr(""); got != "-" {
		t.Errorf("shortAddr(empty) = %q", got)
	}
	if got := shortAddr("0xabc"); got != "0xabc" {
		t.Errorf("shortAddr(short) = %q", got)
	}
	long := "0x00000000000000000000000000000000000000ad"
	got := shortAddr(long)
	if !strings.HasPrefix(got, "0x000000") || !strings.HasSuffix(got, "00ad") {
		t.Errorf("shortAddr(long) = %q", got)
	}
}
