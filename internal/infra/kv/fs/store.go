// Package fs implements a filesystem-backed key-value Store.
package fs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"neonpm/internal/kv/core"
)

// Store maps keys to files under root. Each value has a `.meta` sidecar
// carrying its sha256 and write time so that a torn or hand-edited file is
// reported instead of silently loaded.
type Store struct {
	root string
}

// ErrChecksum is the cause carried by the *core.CorruptError Load returns
// when a value does not match its sidecar.
var ErrChecksum = errors.New("kv fs: checksum mismatch")

var errBadMeta = errors.New("kv fs: unreadable sidecar")

// New returns a filesystem-backed store rooted at path, creating it if needed.
func New(root string) (*Store, error) {
	if root == "" {
		root = "./neonpm-data"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

// Driver returns the backend identifier.
func (s *Store) Driver() core.Driver { return core.DriverFilesystem }

// Root returns the directory holding the values.
func (s *Store) Root() string { return s.root }

// sanitizeKey ensures key doesn't escape root and forbids path traversal and absolute paths.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("%w: empty key", core.ErrInvalidKey)
	}
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: contains '..'", core.ErrInvalidKey)
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("%w: absolute key", core.ErrInvalidKey)
	}
	if strings.HasSuffix(key, ".meta") {
		return "", fmt.Errorf("%w: reserved suffix", core.ErrInvalidKey)
	}
	return filepath.ToSlash(filepath.Clean(key)), nil
}

func (s *Store) pathFor(key string) (dataPath, metaPath string, err error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return "", "", err
	}
	dataPath = filepath.Join(s.root, k)
	metaPath = dataPath + ".meta"
	return
}

type metaFile struct {
	SHA256    string    `json:"sha256"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Load reads the value for key and verifies it against its sidecar when present.
func (s *Store) Load(_ context.Context, key string) ([]byte, error) {
	dataPath, metaPath, err := s.pathFor(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(dataPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", key, core.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	mf, err := readMeta(metaPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return data, nil
	case errors.Is(err, errBadMeta):
		return nil, &core.CorruptError{Key: key, Data: data, Err: err}
	case err != nil:
		return nil, err
	}
	if mf.SHA256 != checksum(data) {
		return nil, &core.CorruptError{Key: key, Data: data, Err: ErrChecksum}
	}
	return data, nil
}

// Save writes data through a temp file and renames it into place.
func (s *Store) Save(_ context.Context, key string, data []byte) error {
	dataPath, metaPath, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dataPath), 0o755); err != nil {
		return err
	}
	meta, err := json.MarshalIndent(metaFile{SHA256: checksum(data), Size: int64(len(data)), UpdatedAt: time.Now().UTC()}, "", "  ")
	if err != nil {
		return err
	}
	// A crash between the two renames leaves a value that fails its
	// checksum, which Load reports as corrupt rather than half-written.
	if err := writeAtomic(dataPath, data); err != nil {
		return err
	}
	return writeAtomic(metaPath, meta)
}

// writeAtomic writes data through a synced temp file renamed into place.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes the value and its sidecar.
func (s *Store) Delete(_ context.Context, key string) (bool, error) {
	dataPath, metaPath, err := s.pathFor(key)
	if err != nil {
		return false, err
	}
	_, errData := os.Stat(dataPath)
	if errors.Is(errData, fs.ErrNotExist) {
		return false, nil
	}
	if err := os.Remove(dataPath); err != nil {
		return false, err
	}
	_ = os.Remove(metaPath)
	return true, nil
}

// Keys walks root and returns every stored key with the given prefix.
func (s *Store) Keys(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(path, ".meta") || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func readMeta(path string) (metaFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return metaFile{}, err
	}
	var mf metaFile
	if err := json.Unmarshal(b, &mf); err != nil {
		return metaFile{}, fmt.Errorf("%w: %v", errBadMeta, err)
	}
	return mf, nil
}
