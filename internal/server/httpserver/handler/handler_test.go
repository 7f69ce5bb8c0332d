package handler

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/mintvault-go/internal/core/domain"
	"github.com/yndnr/mintvault-go/internal/core/ledger"
	"github.com/yndnr/mintvault-go/internal/core/service"
	"github.com/yndnr/mintvault-go/internal/event"
)

const (
	admin = "0x00000000000000000000000000000000000000ad"
	alice = "0x000000000000000000000000000000000000a11c"
	bob   = "0x0000000000000000000000000000000000000b0b"
)

// memStore is an in-memory service.LedgerStore for handler tests.
type memStore struct {
	mu        sync.Mutex
	tokens    map[uint64]*domain.Token
	operators map[string]bool
	minted    uint64
	paused    bool
	baseURI   string
}

func newMemStore() *memStore {
	return &memStore{
		tokens:    make(map[uint64]*domain.Token),
		operators: make(map[string]bool),
	}
}

func (m *memStore) PutToken(_ context.Context, tok *domain.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *tok
	m.tokens[tok.ID] = &cp
	return nil
}

func (m *memStore) DeleteToken(_ context.Context, tokenID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, tokenID)
	return nil
}

func (m *memStore) PutOperator(_ context.Context, owner, operator domain.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operators[string(owner)+"/"+string(operator)] = true
	return nil
}

func (m *memStore) DeleteOperator(_ context.Context, owner, operator domain.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.operators, string(owner)+"/"+string(operator))
	return nil
}

func (m *memStore) SetMinted(_ context.Context, minted uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.minted = minted
	return nil
}

func (m *memStore) SetPaused(_ context.Context, paused bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = paused
	return nil
}

func (m *memStore) SetBaseURI(_ context.Context, baseURI string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseURI = baseURI
	return nil
}

func (m *memStore) LoadState(_ context.Context) (*ledger.State, bool, error) {
	return &ledger.State{}, false, nil
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	led, err := ledger.New(domain.CollectionConfig{
		Name:      "Vault Relics",
		Symbol:    "RELIC",
		BaseURI:   "https://metadata.example/token/",
		MaxSupply: 5,
		Admin:     domain.Address(admin),
	})
	if err != nil {
		t.Fatalf("ledger.New() error = %v", err)
	}

	registry := service.NewRegistryService(led, newMemStore(), service.Options{
		Bus: event.NewBus(),
	})
	return New(registry, Options{})
}

func doJSON(t *testing.T, h *Handler, method, path, callerAddr string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if callerAddr != "" {
		req.Header.Set("X-Caller-Address", callerAddr)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()

	var env struct {
		Code string          `json:"code"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
	}
	if env.Code != "OK" {
		t.Fatalf("envelope code = %q, body %q", env.Code, rec.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
}

func mustMint(t *testing.T, h *Handler, to string) uint64 {
	t.Helper()

	rec := doJSON(t, h, http.MethodPost, "/v1/tokens/mint", admin, MintTokenRequest{To: to})
	if rec.Code != http.StatusCreated {
		t.Fatalf("mint status = %d, body %q", rec.Code, rec.Body.String())
	}

	var resp MintTokenResponse
	decodeData(t, rec, &resp)
	return resp.TokenID
}

func TestMintAndGetToken(t *testing.T) {
	h := newTestHandler(t)

	id := mustMint(t, h, alice)
	if id != 1 {
		t.Errorf("first token id = %d, want 1", id)
	}

	rec := doJSON(t, h, http.MethodGet, "/v1/tokens/1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	var view struct {
		ID       uint64 `json:"id"`
		Owner    string `json:"owner"`
		Approved string `json:"approved"`
		URI      string `json:"uri"`
	}
	decodeData(t, rec, &view)

	if view.Owner != alice {
		t.Errorf("owner = %q, want %q", view.Owner, alice)
	}
	if view.URI != "https://metadata.example/token/1" {
		t.Errorf("uri = %q", view.URI)
	}
}

func TestMintRequiresAdmin(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/tokens/mint", alice, MintTokenRequest{To: bob})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if got := rec.Header().Get("X-Error-Code"); got != "MV-AUTH-4031" {
		t.Errorf("X-Error-Code = %q", got)
	}
}

func TestGetUnknownTokenReturns404(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/v1/tokens/42", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := rec.Header().Get("X-Error-Code"); got != "MV-TOKN-4040" {
		t.Errorf("X-Error-Code = %q", got)
	}
}

func TestNonNumericTokenIDReturns400(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/v1/tokens/abc", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestInvalidBodyReturns400(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/tokens/mint", strings.NewReader("{not json"))
	req.Header.Set("X-Caller-Address", admin)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := rec.Header().Get("X-Error-Code"); got != "MV-SYS-4000" {
		t.Errorf("X-Error-Code = %q", got)
	}
}

func TestTransferToken(t *testing.T) {
	h := newTestHandler(t)
	mustMint(t, h, alice)

	rec := doJSON(t, h, http.MethodPost, "/v1/tokens/1/transfer", alice,
		TransferTokenRequest{From: alice, To: bob})
	if rec.Code != http.StatusOK {
		t.Fatalf("transfer status = %d, body %q", rec.Code, rec.Body.String())
	}

	var view struct {
		Owner string `json:"owner"`
	}
	getRec := doJSON(t, h, http.MethodGet, "/v1/tokens/1", "", nil)
	decodeData(t, getRec, &view)
	if view.Owner != bob {
		t.Errorf("owner after transfer = %q, want %q", view.Owner, bob)
	}
}

func TestApproveThenSpenderTransfers(t *testing.T) {
	h := newTestHandler(t)
	mustMint(t, h, alice)

	rec := doJSON(t, h, http.MethodPost, "/v1/tokens/1/approve", alice,
		ApproveTokenRequest{Spender: bob})
	if rec.Code != http.StatusOK {
		t.Fatalf("approve status = %d, body %q", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodPost, "/v1/tokens/1/transfer", bob,
		TransferTokenRequest{From: alice, To: bob})
	if rec.Code != http.StatusOK {
		t.Fatalf("spender transfer status = %d, body %q", rec.Code, rec.Body.String())
	}
}

func TestBurnToken(t *testing.T) {
	h := newTestHandler(t)
	mustMint(t, h, alice)

	rec := doJSON(t, h, http.MethodPost, "/v1/tokens/1/burn", alice, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("burn status = %d, body %q", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/tokens/1", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status after burn = %d, want 404", rec.Code)
	}
}

func TestOperatorGrantAndCheck(t *testing.T) {
	h := newTestHandler(t)
	mustMint(t, h, alice)

	rec := doJSON(t, h, http.MethodPost, "/v1/operators", alice,
		SetOperatorRequest{Operator: bob, Approved: true})
	if rec.Code != http.StatusOK {
		t.Fatalf("grant status = %d, body %q", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/operators/"+alice+"/"+bob, "", nil)
	var check OperatorCheckResponse
	decodeData(t, rec, &check)
	if !check.Approved {
		t.Error("operator not approved after grant")
	}

	// Operator can transfer on the owner's behalf.
	rec = doJSON(t, h, http.MethodPost, "/v1/tokens/1/transfer", bob,
		TransferTokenRequest{From: alice, To: bob})
	if rec.Code != http.StatusOK {
		t.Errorf("operator transfer status = %d, body %q", rec.Code, rec.Body.String())
	}
}

func TestBalanceEndpoint(t *testing.T) {
	h := newTestHandler(t)
	mustMint(t, h, alice)
	mustMint(t, h, alice)

	rec := doJSON(t, h, http.MethodGet, "/v1/owners/"+alice+"/balance", "", nil)
	var resp BalanceResponse
	decodeData(t, rec, &resp)
	if resp.Balance != 2 {
		t.Errorf("balance = %d, want 2", resp.Balance)
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/owners/nonsense/balance", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad address status = %d, want 400", rec.Code)
	}
}

func TestCollectionEndpoint(t *testing.T) {
	h := newTestHandler(t)
	mustMint(t, h, alice)

	rec := doJSON(t, h, http.MethodGet, "/v1/collection", "", nil)
	var info struct {
		Name        string `json:"name"`
		Symbol      string `json:"symbol"`
		MaxSupply   uint64 `json:"max_supply"`
		TotalSupply uint64 `json:"total_supply"`
		Minted      uint64 `json:"minted"`
		Paused      bool   `json:"paused"`
	}
	decodeData(t, rec, &info)

	if info.Name != "Vault Relics" || info.Symbol != "RELIC" {
		t.Errorf("collection = %+v", info)
	}
	if info.Minted != 1 || info.TotalSupply != 1 {
		t.Errorf("minted = %d, total supply = %d", info.Minted, info.TotalSupply)
	}
}

func TestPauseBlocksMint(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/admin/v1/pause", admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("pause status = %d, body %q", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodPost, "/v1/tokens/mint", admin, MintTokenRequest{To: alice})
	if rec.Code != http.StatusConflict {
		t.Fatalf("mint while paused status = %d, want 409", rec.Code)
	}
	if got := rec.Header().Get("X-Error-Code"); got != "MV-PAUS-4090" {
		t.Errorf("X-Error-Code = %q", got)
	}

	rec = doJSON(t, h, http.MethodPost, "/admin/v1/unpause", admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unpause status = %d", rec.Code)
	}
	mustMint(t, h, alice)
}

func TestPauseRequiresAdmin(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/admin/v1/pause", alice, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestSetBaseURI(t *testing.T) {
	h := newTestHandler(t)
	mustMint(t, h, alice)

	rec := doJSON(t, h, http.MethodPost, "/admin/v1/base-uri", admin,
		SetBaseURIRequest{BaseURI: "ipfs://vault/"})
	if rec.Code != http.StatusOK {
		t.Fatalf("set base uri status = %d, body %q", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/tokens/1/uri", "", nil)
	var resp TokenURIResponse
	decodeData(t, rec, &resp)
	if resp.URI != "ipfs://vault/1" {
		t.Errorf("uri = %q, want ipfs://vault/1", resp.URI)
	}
}

func TestAdminStatusRequiresAdmin(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/admin/v1/status/summary", bob, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/admin/v1/status/summary", admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %q", rec.Code, rec.Body.String())
	}
}

func TestSnapshotsNotConfigured(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/admin/v1/snapshots", admin, nil)
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d, want 501", rec.Code)
	}
}

func TestTokenHistoryWithoutArchive(t *testing.T) {
	h := newTestHandler(t)
	mustMint(t, h, alice)

	rec := doJSON(t, h, http.MethodGet, "/v1/tokens/1/history", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d", rec.Code)
	}

	var resp TokenHistoryResponse
	decodeData(t, rec, &resp)
	if len(resp.Items) != 0 {
		t.Errorf("items = %d, want 0 without archive", len(resp.Items))
	}
}

func TestEventStreamDeliversMint(t *testing.T) {
	h := newTestHandler(t)

	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/events/stream", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("stream request: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q", ct)
	}

	// The subscription only sees events published after it attaches;
	// give the stream a moment to connect before mutating.
	time.Sleep(100 * time.Millisecond)
	mustMint(t, h, alice)

	scanner := bufio.NewScanner(resp.Body)
	var data string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			data = strings.TrimPrefix(line, "data: ")
			break
		}
	}
	if data == "" {
		t.Fatal("no event received on stream")
	}

	var ev domain.Event
	if err := json.Unmarshal([]byte(data), &ev); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if !ev.IsMint() || ev.TokenID != 1 {
		t.Errorf("event = %+v, want mint of token 1", ev)
	}
}
