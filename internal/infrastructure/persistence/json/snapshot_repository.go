package json

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/khanhnv2901/netrax/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/netrax/internal/shared/errors"
	"github.com/khanhnv2901/netrax/internal/shared/security"
	"github.com/khanhnv2901/netrax/internal/sitegraph"
)

const snapshotTimeLayout = "20060102T150405Z"

// snapshotDTO is the on-disk form of a stored graph.
type snapshotDTO struct {
	ID        string           `json:"id"`
	Domain    string           `json:"domain"`
	CreatedAt string           `json:"created_at"`
	Graph     *sitegraph.Graph `json:"graph"`
}

// SnapshotInfo summarises a stored graph without its nodes and links.
type SnapshotInfo struct {
	ID        string    `json:"id"`
	Domain    string    `json:"domain"`
	CreatedAt time.Time `json:"created_at"`
	NodeCount int       `json:"node_count"`
	LinkCount int       `json:"link_count"`
}

// Snapshot is a stored graph together with its metadata.
type Snapshot struct {
	SnapshotInfo
	Graph *sitegraph.Graph `json:"graph"`
}

// SnapshotRepository stores one JSON file per crawl under a single directory.
type SnapshotRepository struct {
	dir string
	mu  sync.RWMutex
	now func() time.Time
}

// NewSnapshotRepository creates the snapshot directory if needed.
func NewSnapshotRepository(dataDir string) (*SnapshotRepository, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("%w: data directory cannot be empty", sharedErrors.ErrMissingRequired)
	}
	if err := os.MkdirAll(dataDir, constants.DefaultDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &SnapshotRepository{dir: dataDir, now: time.Now}, nil
}

// Dir returns the directory snapshots are written to.
func (r *SnapshotRepository) Dir() string {
	return r.dir
}

// Save writes graph for domain and returns the new snapshot's metadata.
func (r *SnapshotRepository) Save(ctx context.Context, domain string, graph *sitegraph.Graph) (*SnapshotInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if graph == nil {
		return nil, fmt.Errorf("%w: graph", sharedErrors.ErrMissingRequired)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	createdAt := r.now().UTC().Truncate(time.Second)
	id, path, err := r.nextID(domain, createdAt)
	if err != nil {
		return nil, err
	}

	dto := snapshotDTO{
		ID:        id,
		Domain:    domain,
		CreatedAt: createdAt.Format(time.RFC3339),
		Graph:     graph,
	}
	data, err := json.MarshalIndent(dto, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sharedErrors.ErrSerializationFailed, err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return nil, fmt.Errorf("%w: %w", sharedErrors.ErrRepositoryOperation, err)
	}

	info := infoFromDTO(dto, createdAt)
	return &info, nil
}

// List returns every readable snapshot, newest first. Unreadable files are skipped.
func (r *SnapshotRepository) List(ctx context.Context) ([]SnapshotInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SnapshotInfo{}, nil
		}
		return nil, fmt.Errorf("%w: %w", sharedErrors.ErrRepositoryOperation, err)
	}

	items := make([]SnapshotInfo, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), constants.SnapshotFileSuffix) {
			continue
		}
		snap, err := r.read(filepath.Join(r.dir, entry.Name()))
		if err != nil {
			continue
		}
		items = append(items, snap.SnapshotInfo)
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// Load returns the snapshot stored under id.
func (r *SnapshotRepository) Load(ctx context.Context, id string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := r.pathFor(id)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	snap, err := r.read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", sharedErrors.ErrSnapshotNotFound, id)
		}
		return nil, err
	}
	return snap, nil
}

// Delete removes the snapshot stored under id.
func (r *SnapshotRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := r.pathFor(id)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", sharedErrors.ErrSnapshotNotFound, id)
		}
		return fmt.Errorf("%w: %w", sharedErrors.ErrRepositoryOperation, err)
	}
	return nil
}

func (r *SnapshotRepository) pathFor(id string) (string, error) {
	if err := security.ValidateName(id); err != nil {
		return "", fmt.Errorf("%w: %w", sharedErrors.ErrInvalidSnapshot, err)
	}
	path, err := security.ResolveWithin(r.dir, id+constants.SnapshotFileSuffix)
	if err != nil {
		return "", fmt.Errorf("%w: %w", sharedErrors.ErrInvalidSnapshot, err)
	}
	return path, nil
}

// nextID picks a free ID for domain at createdAt, adding a counter on collision.
// Callers hold r.mu.
func (r *SnapshotRepository) nextID(domain string, createdAt time.Time) (string, string, error) {
	base := security.SanitizeName(domain) + "-" + createdAt.Format(snapshotTimeLayout)
	for n := 1; n < 1000; n++ {
		id := base
		if n > 1 {
			id = base + "-" + strconv.Itoa(n)
		}
		path, err := r.pathFor(id)
		if err != nil {
			return "", "", err
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return id, path, nil
		}
	}
	return "", "", fmt.Errorf("%w: too many snapshots for %s at %s", sharedErrors.ErrRepositoryOperation, domain, createdAt.Format(time.RFC3339))
}

func (r *SnapshotRepository) read(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var dto snapshotDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("%w: %w", sharedErrors.ErrDeserializationFailed, err)
	}
	if dto.Graph == nil {
		return nil, fmt.Errorf("%w: %s has no graph", sharedErrors.ErrDeserializationFailed, filepath.Base(path))
	}
	createdAt, err := time.Parse(time.RFC3339, dto.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse created at time: %w", sharedErrors.ErrDeserializationFailed, err)
	}

	return &Snapshot{SnapshotInfo: infoFromDTO(dto, createdAt), Graph: dto.Graph}, nil
}

func infoFromDTO(dto snapshotDTO, createdAt time.Time) SnapshotInfo {
	info := SnapshotInfo{ID: dto.ID, Domain: dto.Domain, CreatedAt: createdAt}
	if dto.Graph != nil {
		info.NodeCount = len(dto.Graph.Nodes)
		info.LinkCount = len(dto.Graph.Links)
	}
	return info
}

// writeFileAtomic writes to a temp file in the same directory and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(constants.DefaultFilePerm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
