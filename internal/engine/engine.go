package engine

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/connection-matcher/backend/internal/config"
	"github.com/connection-matcher/backend/internal/metrics"
	"github.com/connection-matcher/backend/internal/search"
	"github.com/connection-matcher/backend/internal/storage"
)

// Dataset field names the index scores against, in concatenation order.
const (
	FieldEmployment   = "employment"
	FieldBoardService = "board_service"
)

// MatchFields returns the scored field names in their fixed order.
func MatchFields() []string {
	return []string{FieldEmployment, FieldBoardService}
}

// ErrNoDataset is returned when a match arrives before any dataset has been
// uploaded. Distinct from a query that simply finds zero matches.
var ErrNoDataset = errors.New("no dataset loaded")

// Engine orchestrates dataset ingestion and match queries. The current
// index lives behind an atomic pointer: uploads fit a complete replacement
// and swap it in wholesale, so concurrent match calls always observe either
// the old index or the new one, never a partial state.
type Engine struct {
	Config  *config.Config
	Logger  *logrus.Entry
	Storage storage.DatasetStorage
	Metrics *metrics.Metrics

	current atomic.Pointer[search.Index]

	mu    sync.Mutex
	stats EngineStats
}

// EngineStats tracks ingestion and query counters.
type EngineStats struct {
	DatasetsLoaded int64
	QueriesServed  int64
	LastLoadedAt   time.Time
}

func NewEngine(cfg *config.Config, logger *logrus.Entry, store storage.DatasetStorage, m *metrics.Metrics) *Engine {
	return &Engine{
		Config:  cfg,
		Logger:  logger,
		Storage: store,
		Metrics: m,
	}
}

// LoadDataset fits a fresh index over the uploaded rows and makes it the
// current one, persisting a snapshot for reload at next startup. Rows
// without an ID are assigned one.
func (e *Engine) LoadDataset(people []storage.Person) error {
	if err := e.loadDataset(people); err != nil {
		return err
	}

	if e.Storage != nil && e.Config.Storage.EnableSnapshots {
		snapshot := &storage.DatasetSnapshot{
			UploadedAt: time.Now().UTC(),
			People:     people,
		}
		if err := e.Storage.Save(snapshot); err != nil {
			// The index is already live; a failed snapshot only costs the
			// reload at next startup.
			e.Logger.WithError(err).Warn("Failed to persist dataset snapshot")
		}
	}

	return nil
}

// Restore re-fits the index from the most recent dataset snapshot, if one
// exists. A missing snapshot is a normal first boot.
func (e *Engine) Restore() error {
	if e.Storage == nil {
		return nil
	}

	snapshot, err := e.Storage.LoadLatest()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			e.Logger.Info("No dataset snapshot found, waiting for upload")
			return nil
		}
		return fmt.Errorf("failed to restore dataset: %w", err)
	}

	if err := e.loadDataset(snapshot.People); err != nil {
		return fmt.Errorf("failed to restore dataset: %w", err)
	}

	e.Logger.Infof("Restored dataset snapshot from %s (%d records)",
		snapshot.UploadedAt.Format(time.RFC3339), len(snapshot.People))
	return nil
}

func (e *Engine) loadDataset(people []storage.Person) error {
	records := make([]search.Record, len(people))
	for i, p := range people {
		id := p.ID
		if id == "" {
			id = uuid.NewString()
		}
		records[i] = search.NewRecord(id, p.Name, map[string]string{
			FieldEmployment:   p.Employment,
			FieldBoardService: p.BoardService,
		})
	}

	opts := search.Options{
		NgramMin: e.Config.Index.NgramMin,
		NgramMax: e.Config.Index.NgramMax,
		MaxTerms: e.Config.Index.MaxVocabulary,
	}
	index, err := search.Fit(records, MatchFields(), opts)
	if err != nil {
		return fmt.Errorf("failed to fit index: %w", err)
	}

	e.current.Store(index)

	e.mu.Lock()
	e.stats.DatasetsLoaded++
	e.stats.LastLoadedAt = time.Now()
	e.mu.Unlock()

	e.Metrics.DatasetsLoaded.Inc()
	e.Metrics.RecordsIndexed.Set(float64(len(records)))

	e.Logger.WithField("records", len(records)).Info("Dataset indexed")
	return nil
}

// Match runs a ranked query against the current index.
func (e *Engine) Match(query string, topK int, minScore float64) ([]search.ScoredResult, error) {
	index := e.current.Load()
	if index == nil {
		e.Metrics.MatchRequests.WithLabelValues("no_dataset").Inc()
		return nil, ErrNoDataset
	}

	start := time.Now()
	results, err := index.Rank(query, topK, minScore)
	e.Metrics.MatchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		e.Metrics.MatchRequests.WithLabelValues("invalid").Inc()
		return nil, err
	}

	outcome := "ok"
	if len(results) == 0 {
		outcome = "no_results"
	}
	e.Metrics.MatchRequests.WithLabelValues(outcome).Inc()

	e.mu.Lock()
	e.stats.QueriesServed++
	e.mu.Unlock()

	return results, nil
}

// IsLoaded reports whether a dataset has been indexed.
func (e *Engine) IsLoaded() bool {
	return e.current.Load() != nil
}

// DatasetSize returns the record count of the current index, 0 when none.
func (e *Engine) DatasetSize() int {
	if index := e.current.Load(); index != nil {
		return index.Size()
	}
	return 0
}

// Stats returns a copy of the engine counters.
func (e *Engine) Stats() EngineStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}
