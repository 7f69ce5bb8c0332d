package storage

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/yndnr/mintvault-go/internal/core/domain"
	"github.com/yndnr/mintvault-go/internal/core/ledger"
)

// Key layout. Token keys embed the id as fixed-width hex so a prefix
// scan yields tokens in id order.
//
//	tok/<id, 16 hex digits>      -> token record (JSON)
//	op/<owner>/<operator>        -> 0x01
//	meta/minted                  -> uint64, big endian
//	meta/paused                  -> 0x00 | 0x01
//	meta/base_uri                -> raw string
const (
	tokenPrefix    = "tok/"
	operatorPrefix = "op/"
	metaMintedKey  = "meta/minted"
	metaPausedKey  = "meta/paused"
	metaBaseURIKey = "meta/base_uri"
)

// LedgerStore persists ledger state as typed records in a KVEngine.
type LedgerStore struct {
	kv KVEngine
}

// NewLedgerStore creates a ledger store over the given engine.
func NewLedgerStore(kv KVEngine) *LedgerStore {
	return &LedgerStore{kv: kv}
}

// tokenRecord is the serialized form of one token.
type tokenRecord struct {
	ID       uint64         `json:"id"`
	Owner    domain.Address `json:"owner"`
	Approved domain.Address `json:"approved,omitempty"`
}

func tokenKey(tokenID uint64) []byte {
	return fmt.Appendf(nil, "%s%016x", tokenPrefix, tokenID)
}

func operatorKey(owner, operator domain.Address) []byte {
	return []byte(operatorPrefix + string(owner) + "/" + string(operator))
}

// PutToken writes or overwrites one token record.
func (s *LedgerStore) PutToken(ctx context.Context, tok *domain.Token) error {
	if tok == nil || tok.ID == 0 {
		return fmt.Errorf("ledgerstore: invalid token record")
	}
	data, err := json.Marshal(tokenRecord{ID: tok.ID, Owner: tok.Owner, Approved: tok.Approved})
	if err != nil {
		return fmt.Errorf("ledgerstore: encode token %d: %w", tok.ID, err)
	}
	return s.kv.Set(ctx, tokenKey(tok.ID), data)
}

// DeleteToken removes a token record.
func (s *LedgerStore) DeleteToken(ctx context.Context, tokenID uint64) error {
	return s.kv.Delete(ctx, tokenKey(tokenID))
}

// PutOperator records an owner -> operator approval grant.
func (s *LedgerStore) PutOperator(ctx context.Context, owner, operator domain.Address) error {
	return s.kv.Set(ctx, operatorKey(owner, operator), []byte{1})
}

// DeleteOperator removes an operator approval grant.
func (s *LedgerStore) DeleteOperator(ctx context.Context, owner, operator domain.Address) error {
	return s.kv.Delete(ctx, operatorKey(owner, operator))
}

// SetMinted persists the monotonic mint counter.
func (s *LedgerStore) SetMinted(ctx context.Context, minted uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], minted)
	return s.kv.Set(ctx, []byte(metaMintedKey), buf[:])
}

// SetPaused persists the pause flag.
func (s *LedgerStore) SetPaused(ctx context.Context, paused bool) error {
	v := []byte{0}
	if paused {
		v[0] = 1
	}
	return s.kv.Set(ctx, []byte(metaPausedKey), v)
}

// SetBaseURI persists the metadata base URI.
func (s *LedgerStore) SetBaseURI(ctx context.Context, baseURI string) error {
	return s.kv.Set(ctx, []byte(metaBaseURIKey), []byte(baseURI))
}

// LoadState reads the complete persisted state. The second return
// value reports whether any ledger keys exist at all: false means a
// fresh store that has never been initialized, which is distinct from
// an initialized store that happens to hold zero values (e.g. paused
// before the first mint with an empty base URI).
func (s *LedgerStore) LoadState(ctx context.Context) (*ledger.State, bool, error) {
	st := &ledger.State{}
	found := false

	var decodeErr error
	err := s.kv.Scan(ctx, []byte(tokenPrefix), func(key, value []byte) bool {
		var rec tokenRecord
		if err := json.Unmarshal(value, &rec); err != nil {
			decodeErr = fmt.Errorf("ledgerstore: decode token record %s: %w", key, err)
			return false
		}
		st.Tokens = append(st.Tokens, &domain.Token{
			ID:       rec.ID,
			Owner:    rec.Owner,
			Approved: rec.Approved,
		})
		return true
	})
	if err != nil {
		return nil, false, fmt.Errorf("ledgerstore: scan tokens: %w", err)
	}
	if decodeErr != nil {
		return nil, false, decodeErr
	}
	found = found || len(st.Tokens) > 0

	err = s.kv.Scan(ctx, []byte(operatorPrefix), func(key, _ []byte) bool {
		parts := strings.Split(strings.TrimPrefix(string(key), operatorPrefix), "/")
		if len(parts) == 2 {
			st.Operators = append(st.Operators, ledger.OperatorGrant{
				Owner:    domain.Address(parts[0]),
				Operator: domain.Address(parts[1]),
			})
		}
		return true
	})
	if err != nil {
		return nil, false, fmt.Errorf("ledgerstore: scan operators: %w", err)
	}
	found = found || len(st.Operators) > 0

	if v, ok, err := s.getMeta(ctx, metaMintedKey); err != nil {
		return nil, false, err
	} else if ok {
		found = true
		if len(v) == 8 {
			st.Minted = binary.BigEndian.Uint64(v)
		}
	}

	if v, ok, err := s.getMeta(ctx, metaPausedKey); err != nil {
		return nil, false, err
	} else if ok {
		found = true
		if len(v) == 1 {
			st.Paused = v[0] == 1
		}
	}

	if v, ok, err := s.getMeta(ctx, metaBaseURIKey); err != nil {
		return nil, false, err
	} else if ok {
		found = true
		st.BaseURI = string(v)
	}

	return st, found, nil
}

func (s *LedgerStore) getMeta(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := s.kv.Get(ctx, []byte(key))
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("ledgerstore: get %s: %w", key, err)
	}
	return v, true, nil
}
