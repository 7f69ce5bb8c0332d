package snapshot

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/yndnr/mintvault-go/internal/core/ledger"
	"github.com/yndnr/mintvault-go/pkg/sealbox"
)

// Magic bytes identify snapshot files.
var magicBytes = []byte("MVLTSNAP")

const (
	filePrefix    = "snapshot-"
	fileExtension = ".snap"
	checksumSize  = 32
	headerVersion = 1

	DefaultRetentionCount = 5
	DefaultRetentionDays  = 7
)

var (
	ErrInvalidMagic     = errors.New("snapshot: invalid magic bytes")
	ErrChecksumMismatch = errors.New("snapshot: checksum mismatch")
	ErrNoSnapshots      = errors.New("snapshot: no snapshots available")
	ErrSealed           = errors.New("snapshot: sealed snapshot requires a passphrase")
)

type snapshotHeader struct {
	Version    int    `json:"version"`
	CreatedAt  int64  `json:"created_at"`
	TokenCount uint64 `json:"token_count"`
	Minted     uint64 `json:"minted"`
	Sealed     bool   `json:"sealed"`
	Algorithm  string `json:"algorithm,omitempty"`
}

// Config configures the snapshot manager.
type Config struct {
	Dir string

	RetentionCount int
	RetentionDays  int

	// Box seals snapshot payloads. Nil writes plaintext snapshots.
	Box *sealbox.Box
}

// DefaultConfig returns a config with the default retention policy.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:            dir,
		RetentionCount: DefaultRetentionCount,
		RetentionDays:  DefaultRetentionDays,
	}
}

// Manager writes, lists, loads, and prunes snapshot files.
type Manager struct {
	cfg Config
	box *sealbox.Box
}

// NewManager creates a manager, creating the snapshot directory if
// needed.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("snapshot: dir is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("snapshot: create dir: %w", err)
	}
	if cfg.RetentionCount == 0 {
		cfg.RetentionCount = DefaultRetentionCount
	}
	if cfg.RetentionDays == 0 {
		cfg.RetentionDays = DefaultRetentionDays
	}

	return &Manager{cfg: cfg, box: cfg.Box}, nil
}

// Info contains metadata about a snapshot file.
type Info struct {
	ID         string `json:"id"`
	TokenCount uint64 `json:"token_count"`
	Minted     uint64 `json:"minted"`
	CreatedAt  int64  `json:"created_at"`
	Size       int64  `json:"size"`
	Path       string `json:"path"`
	Checksum   string `json:"checksum"`
	Sealed     bool   `json:"sealed"`
}

// Create writes a new snapshot file from the given state.
func (m *Manager) Create(st *ledger.State) (*Info, error) {
	if st == nil {
		return nil, fmt.Errorf("snapshot: nil state")
	}

	now := time.Now()
	id := m.generateID(now)

	tempPath := filepath.Join(m.cfg.Dir, id+".tmp")
	file, err := os.Create(tempPath)
	if err != nil {
		return nil, fmt.Errorf("snapshot: create temp file: %w", err)
	}
	defer os.Remove(tempPath)

	hash := sha256.New()
	writer := io.MultiWriter(file, hash)

	if _, err := writer.Write(magicBytes); err != nil {
		file.Close()
		return nil, err
	}

	hdr := snapshotHeader{
		Version:    headerVersion,
		CreatedAt:  now.UnixMilli(),
		TokenCount: uint64(len(st.Tokens)),
		Minted:     st.Minted,
		Sealed:     m.box != nil,
	}
	if m.box != nil {
		hdr.Algorithm = string(m.box.Algorithm())
	}

	hdrJSON, err := json.Marshal(hdr)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("snapshot: marshal header: %w", err)
	}

	var hdrLen [4]byte
	binary.BigEndian.PutUint32(hdrLen[:], uint32(len(hdrJSON)))
	if _, err := writer.Write(hdrLen[:]); err != nil {
		file.Close()
		return nil, fmt.Errorf("snapshot: write header length: %w", err)
	}
	if _, err := writer.Write(hdrJSON); err != nil {
		file.Close()
		return nil, fmt.Errorf("snapshot: write header: %w", err)
	}

	data, err := json.Marshal(st)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("snapshot: marshal state: %w", err)
	}
	if m.box != nil {
		// The header is bound as additional data so a sealed payload
		// cannot be spliced under a different header.
		data, err = m.box.Seal(data, hdrJSON)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("snapshot: seal: %w", err)
		}
	}

	var dataLen [4]byte
	binary.BigEndian.PutUint32(dataLen[:], uint32(len(data)))
	if _, err := writer.Write(dataLen[:]); err != nil {
		file.Close()
		return nil, fmt.Errorf("snapshot: write data length: %w", err)
	}
	if _, err := writer.Write(data); err != nil {
		file.Close()
		return nil, fmt.Errorf("snapshot: write data: %w", err)
	}

	// Checksum trailer, not included in its own hash.
	sum := hash.Sum(nil)
	if _, err := file.Write(sum); err != nil {
		file.Close()
		return nil, fmt.Errorf("snapshot: write checksum: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return nil, fmt.Errorf("snapshot: sync: %w", err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("snapshot: close: %w", err)
	}

	stat, err := os.Stat(tempPath)
	if err != nil {
		return nil, err
	}

	finalPath := filepath.Join(m.cfg.Dir, id+fileExtension)
	if err := os.Rename(tempPath, finalPath); err != nil {
		return nil, fmt.Errorf("snapshot: rename: %w", err)
	}

	return &Info{
		ID:         id,
		TokenCount: uint64(len(st.Tokens)),
		Minted:     st.Minted,
		CreatedAt:  now.UnixMilli(),
		Size:       stat.Size(),
		Path:       finalPath,
		Checksum:   hex.EncodeToString(sum),
		Sealed:     m.box != nil,
	}, nil
}

// Load reads the latest valid snapshot, falling back to older files
// when the newest is corrupted.
func (m *Manager) Load() (*ledger.State, *Info, error) {
	infos, err := m.List()
	if err != nil {
		return nil, nil, err
	}
	if len(infos) == 0 {
		return nil, nil, ErrNoSnapshots
	}

	for i := len(infos) - 1; i >= 0; i-- {
		st, info, err := m.loadFile(infos[i].Path)
		if err == nil {
			return st, info, nil
		}
		if errors.Is(err, ErrChecksumMismatch) || errors.Is(err, ErrInvalidMagic) {
			continue
		}
		return nil, nil, err
	}

	return nil, nil, ErrNoSnapshots
}

func (m *Manager) loadFile(path string) (*ledger.State, *Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	if stat.Size() < int64(len(magicBytes))+checksumSize {
		return nil, nil, ErrChecksumMismatch
	}

	// Verify the checksum trailer over everything before it.
	dataLen := stat.Size() - checksumSize
	expected := make([]byte, checksumSize)
	if _, err := io.ReadFull(io.NewSectionReader(f, dataLen, checksumSize), expected); err != nil {
		return nil, nil, err
	}
	h := sha256.New()
	if _, err := io.CopyN(h, io.NewSectionReader(f, 0, dataLen), dataLen); err != nil {
		return nil, nil, err
	}
	if !bytes.Equal(h.Sum(nil), expected) {
		return nil, nil, ErrChecksumMismatch
	}

	br := bufio.NewReader(io.NewSectionReader(f, 0, dataLen))

	magic := make([]byte, len(magicBytes))
	if _, err := io.ReadFull(br, magic); err != nil {
		return nil, nil, err
	}
	if !bytes.Equal(magic, magicBytes) {
		return nil, nil, ErrInvalidMagic
	}

	var hdrLenBuf [4]byte
	if _, err := io.ReadFull(br, hdrLenBuf[:]); err != nil {
		return nil, nil, err
	}
	hdrLen := binary.BigEndian.Uint32(hdrLenBuf[:])
	if hdrLen == 0 {
		return nil, nil, fmt.Errorf("snapshot: empty header")
	}
	hdrJSON := make([]byte, hdrLen)
	if _, err := io.ReadFull(br, hdrJSON); err != nil {
		return nil, nil, err
	}

	var hdr snapshotHeader
	if err := json.Unmarshal(hdrJSON, &hdr); err != nil {
		return nil, nil, fmt.Errorf("snapshot: unmarshal header: %w", err)
	}

	var dataLenBuf [4]byte
	if _, err := io.ReadFull(br, dataLenBuf[:]); err != nil {
		return nil, nil, err
	}
	data := make([]byte, binary.BigEndian.Uint32(dataLenBuf[:]))
	if _, err := io.ReadFull(br, data); err != nil {
		return nil, nil, err
	}

	if hdr.Sealed {
		if m.box == nil {
			return nil, nil, ErrSealed
		}
		plain, err := m.box.Open(data, hdrJSON)
		if err != nil {
			return nil, nil, fmt.Errorf("snapshot: open sealed payload: %w", err)
		}
		data = plain
	} else if m.box != nil {
		return nil, nil, fmt.Errorf("snapshot: expected sealed snapshot")
	}

	var st ledger.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, nil, fmt.Errorf("snapshot: unmarshal state: %w", err)
	}

	info := &Info{
		ID:         strings.TrimSuffix(filepath.Base(path), fileExtension),
		TokenCount: hdr.TokenCount,
		Minted:     hdr.Minted,
		CreatedAt:  hdr.CreatedAt,
		Size:       stat.Size(),
		Path:       path,
		Checksum:   hex.EncodeToString(expected),
		Sealed:     hdr.Sealed,
	}

	return &st, info, nil
}

// List lists snapshot files in name order (metadata only).
func (m *Manager) List() ([]*Info, error) {
	entries, err := os.ReadDir(m.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, fileExtension) {
			paths = append(paths, filepath.Join(m.cfg.Dir, name))
		}
	}
	sort.Strings(paths)

	var infos []*Info
	for _, p := range paths {
		stat, err := os.Stat(p)
		if err != nil {
			continue
		}
		infos = append(infos, &Info{
			ID:   strings.TrimSuffix(filepath.Base(p), fileExtension),
			Path: p,
			Size: stat.Size(),
		})
	}
	return infos, nil
}

// Prune applies the retention policy and deletes old snapshots. The
// newest snapshot always survives.
func (m *Manager) Prune() error {
	infos, err := m.List()
	if err != nil {
		return err
	}
	if len(infos) <= 1 {
		return nil
	}

	keep := make(map[string]struct{}, len(infos))

	if m.cfg.RetentionCount > 0 {
		start := len(infos) - m.cfg.RetentionCount
		if start < 0 {
			start = 0
		}
		for _, info := range infos[start:] {
			keep[info.Path] = struct{}{}
		}
	}

	if m.cfg.RetentionDays > 0 {
		cutoff := time.Now().Add(-time.Duration(m.cfg.RetentionDays) * 24 * time.Hour)
		for _, info := range infos {
			st, err := os.Stat(info.Path)
			if err != nil {
				continue
			}
			if st.ModTime().After(cutoff) {
				keep[info.Path] = struct{}{}
			}
		}
	}

	keep[infos[len(infos)-1].Path] = struct{}{}

	for _, info := range infos {
		if _, ok := keep[info.Path]; ok {
			continue
		}
		_ = os.Remove(info.Path)
	}
	return nil
}

func (m *Manager) generateID(t time.Time) string {
	ts := t.Format("20060102150405")
	seq := 1

	entries, _ := os.ReadDir(m.cfg.Dir)
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, filePrefix+ts+"-") && strings.HasSuffix(name, fileExtension) {
			seq++
		}
	}

	return fmt.Sprintf("%s%s-%04d", filePrefix, ts, seq)
}
