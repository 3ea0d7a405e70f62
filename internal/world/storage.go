package world

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ConnerAdamsMaine/RustCraft-Server/config"
)

// Generator produces a chunk for a position it has never seen before.
// terrain.ChunkGenerator satisfies this structurally; Storage depends on
// the interface rather than the concrete type so this package never
// imports the terrain package (which itself imports world for the Chunk/
// ChunkPos types it builds).
type Generator interface {
	GenerateChunk(pos ChunkPos) *Chunk
}

// Config configures a Storage. Zero-value fields take the config package
// defaults.
type Config struct {
	Dir              string
	InitialCapacity  int
	MaxCapacity      int
	WorkerCount      int
	PregenRadius     int
	Logger           *log.Logger
	HitResetInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.Dir == "" {
		c.Dir = config.WorldDir
	}
	if c.InitialCapacity == 0 {
		c.InitialCapacity = config.InitialCapacity()
	}
	if c.MaxCapacity == 0 {
		c.MaxCapacity = config.MaxCapacity()
	}
	if c.WorkerCount == 0 {
		c.WorkerCount = config.WorkerPoolSize
	}
	if c.PregenRadius == 0 {
		c.PregenRadius = config.PregenerateRadius
	}
	if c.Logger == nil {
		c.Logger = log.New(os.Stderr, "world: ", log.LstdFlags)
	}
	if c.HitResetInterval == 0 {
		c.HitResetInterval = config.HitResetInterval
	}
	return c
}

// Storage is the chunk storage subsystem: cache lookup, disk-backed load,
// on-miss generation via a worker pool, and grouped-by-region flush. It
// exclusively owns its cache and worker-pool handle; the generator is
// shared, read-only, across Storage and the pool.
type Storage struct {
	cfg       Config
	mu        sync.RWMutex
	cache     *Cache
	pool      *WorkerPool
	generator Generator
	stopOnce  sync.Once
	stopCh    chan struct{}
}

// NewStorage constructs a Storage, ensures the world directory exists,
// pregenerates the spawn area, and starts the periodic hit-count reset
// task. It is meant to run once, single-threaded, at startup.
func NewStorage(cfg Config, gen Generator) (*Storage, error) {
	cfg = cfg.withDefaults()

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("world: create world directory: %w", err)
	}

	s := &Storage{
		cfg:       cfg,
		cache:     NewCache(cfg.InitialCapacity, cfg.MaxCapacity),
		pool:      NewWorkerPool(cfg.WorkerCount),
		generator: gen,
		stopCh:    make(chan struct{}),
	}

	s.pregenerateSpawn()
	s.pool.SignalInitComplete()

	go s.hitResetLoop()

	return s, nil
}

// pregenerateSpawn submits a generate job for every chunk in
// [-r, r) x [-r, r) whose containing region file does not already exist,
// drains completions as they arrive, and flushes once submission and
// draining are both done.
func (s *Storage) pregenerateSpawn() {
	r := s.cfg.PregenRadius
	results := make(chan *Chunk, (2*r)*(2*r))

	var wg sync.WaitGroup
	for cx := int32(-r); cx < int32(r); cx++ {
		for cz := int32(-r); cz < int32(r); cz++ {
			pos := ChunkPos{X: cx, Z: cz}
			if s.regionFileExists(pos.Region()) {
				continue
			}
			wg.Add(1)
			s.pool.Execute(func() {
				defer wg.Done()
				results <- s.generator.GenerateChunk(pos)
			})
		}
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	s.mu.Lock()
	for c := range results {
		s.cache.Insert(c.Pos, c)
	}
	s.mu.Unlock()

	if err := s.Flush(); err != nil {
		s.cfg.Logger.Printf("pregeneration flush: %v", err)
	}
}

func (s *Storage) regionFileExists(pos RegionPos) bool {
	_, err := os.Stat(filepath.Join(s.cfg.Dir, pos.Filename()))
	return err == nil
}

// hitResetLoop periodically resets stale hit counts so eviction tracks
// recent access patterns.
func (s *Storage) hitResetLoop() {
	ticker := time.NewTicker(s.cfg.HitResetInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			s.cache.ResetHitCounts()
			s.mu.Unlock()
		case <-s.stopCh:
			return
		}
	}
}

// WaitForInit blocks until pregeneration has completed (NewStorage
// signals this itself once pregenerateSpawn returns). Callers on a
// connection's dispatch path must not call this inline; they offload the
// wait onto a dedicated goroutine and select on its completion.
func (s *Storage) WaitForInit() {
	s.pool.WaitForInit()
}

// Close stops the background hit-reset task and the worker pool,
// completing any in-flight generation jobs first.
func (s *Storage) Close() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.pool.Close()
}

// GetChunk returns the chunk at pos: a cache hit, a region-file load, or a
// synchronous generation, in that order. Every returned chunk is cached.
// The whole lookup-and-insert runs under the write lock, serializing cold
// reads rather than risking a cache-update race between two misses on the
// same position.
func (s *Storage) GetChunk(pos ChunkPos) (*Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.cache.Get(pos); ok {
		return c, nil
	}

	if c, err := s.loadFromRegion(pos); err != nil {
		return nil, err
	} else if c != nil {
		s.cache.Insert(pos, c)
		return c, nil
	}

	c := s.generator.GenerateChunk(pos)
	s.cache.Insert(pos, c)
	return c, nil
}

// loadFromRegion attempts to deserialize the region file containing pos
// and return the chunk within it, if present. A missing file or an empty
// slot is not an error: both report (nil, nil).
func (s *Storage) loadFromRegion(pos ChunkPos) (*Chunk, error) {
	regionPos := pos.Region()
	path := filepath.Join(s.cfg.Dir, regionPos.Filename())

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("world: read region file %s: %w", path, err)
	}

	region, err := DecodeRegionFile(regionPos, data)
	if err != nil {
		return nil, fmt.Errorf("world: decode region file %s: %w", path, err)
	}

	c, ok := region.Get(pos)
	if !ok {
		return nil, nil
	}
	return c, nil
}

// SaveChunk inserts chunk into the cache. If that insertion evicts a
// low-hit entry the eviction is logged; if cache occupancy exceeds half
// of current capacity afterward, a full flush is triggered.
func (s *Storage) SaveChunk(chunk *Chunk) error {
	s.mu.Lock()
	result := s.cache.Insert(chunk.Pos, chunk)
	triggerFlush := s.cache.Len() > s.cache.CurrentCapacity()/2
	s.mu.Unlock()

	if result.EvictedOK {
		s.cfg.Logger.Printf("evicted low-hit chunk %s (total low-hit evictions: %d)",
			result.Evicted, s.cache.LowHitEvictions())
	}

	if triggerFlush {
		return s.Flush()
	}
	return nil
}

// Flush takes a write lock just long enough to snapshot every resident
// chunk partitioned by containing region, rejecting chunks whose region
// is not valid, then releases the lock before doing any I/O. Each
// region's read-modify-write runs concurrently via an errgroup; an
// individual region's failure is reported but does not abort the flush
// for the others.
func (s *Storage) Flush() error {
	byRegion := s.snapshotByRegion()

	var g errgroup.Group
	for regionPos, chunks := range byRegion {
		regionPos, chunks := regionPos, chunks
		g.Go(func() error {
			if err := s.flushRegion(regionPos, chunks); err != nil {
				s.cfg.Logger.Printf("flush region %v: %v", regionPos, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (s *Storage) snapshotByRegion() map[RegionPos][]*Chunk {
	s.mu.Lock()
	defer s.mu.Unlock()

	byRegion := make(map[RegionPos][]*Chunk)
	for _, k := range s.cache.Keys() {
		c, ok := s.cache.Peek(k)
		if !ok {
			continue
		}
		regionPos := k.Region()
		if !regionPos.IsValid() {
			s.cfg.Logger.Printf("skipping chunk %s: invalid region %v", k, regionPos)
			continue
		}
		byRegion[regionPos] = append(byRegion[regionPos], c)
	}
	return byRegion
}

// flushRegion merges chunks into the on-disk region file at regionPos
// (reading and deserializing it first if it already exists) and writes
// the result back atomically via a temp-file rename.
func (s *Storage) flushRegion(regionPos RegionPos, chunks []*Chunk) error {
	path := filepath.Join(s.cfg.Dir, regionPos.Filename())

	region := NewRegion(regionPos)
	if data, err := os.ReadFile(path); err == nil {
		if existing, err := DecodeRegionFile(regionPos, data); err == nil {
			region = existing
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read existing region file: %w", err)
	}

	for _, c := range chunks {
		if err := region.Insert(c); err != nil {
			return fmt.Errorf("insert chunk into region: %w", err)
		}
	}

	encoded := EncodeRegionFile(region)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, encoded, 0o644); err != nil {
		return fmt.Errorf("write temp region file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename temp region file: %w", err)
	}
	return nil
}

// Stats is a read-only snapshot of the cache's state for an out-of-scope
// tracing subscriber to poll.
type Stats struct {
	Len              int
	CurrentCapacity  int
	MaxCapacity      int
	UsageRatio       float64
	LowHitEvictions  int64
}

// Stats returns a snapshot of the cache's current state.
func (s *Storage) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		Len:             s.cache.Len(),
		CurrentCapacity: s.cache.CurrentCapacity(),
		MaxCapacity:     s.cache.MaxCapacity(),
		UsageRatio:      s.cache.UsageRatio(),
		LowHitEvictions: s.cache.LowHitEvictions(),
	}
}
