package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Person is one serializable dataset row as uploaded by the operator.
type Person struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	Employment   string `json:"employment"`
	BoardService string `json:"board_service"`
}

// DatasetSnapshot is a persisted copy of one uploaded dataset. Only the raw
// rows are stored; the index is always re-fitted from them, which yields an
// identical index because fitting is deterministic.
type DatasetSnapshot struct {
	UploadedAt time.Time `json:"uploaded_at"`
	People     []Person  `json:"people"`
}

// DatasetStorage defines the interface for persisting uploaded datasets
type DatasetStorage interface {
	Save(snapshot *DatasetSnapshot) error
	LoadLatest() (*DatasetSnapshot, error)
	Close() error
}

// FileStorage implements DatasetStorage using the local file system
type FileStorage struct {
	baseDir string
	mu      sync.RWMutex
}

const latestSnapshotFile = "dataset-latest.json"

// NewFileStorage creates a new file-based storage
func NewFileStorage(baseDir string) (*FileStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileStorage{
		baseDir: baseDir,
	}, nil
}

// Save writes the snapshot to disk, replacing any previous one.
func (fs *FileStorage) Save(snapshot *DatasetSnapshot) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	path := filepath.Join(fs.baseDir, latestSnapshotFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	return nil
}

// LoadLatest reads the most recently saved snapshot. A missing snapshot is
// reported via os.ErrNotExist so callers can treat first boot as normal.
func (fs *FileStorage) LoadLatest() (*DatasetSnapshot, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	path := filepath.Join(fs.baseDir, latestSnapshotFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snapshot DatasetSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}

// Close is a no-op for file storage
func (fs *FileStorage) Close() error {
	return nil
}
