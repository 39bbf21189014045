// Package checksum decides which sources need recompiling and records the outcome of every compile.
package checksum

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/anvil/internal/core/domain"
	"go.trai.ch/anvil/internal/core/ports"
)

// Cache holds the records of one platform and configuration for the duration of a build.
// All methods are safe for concurrent use.
type Cache struct {
	store  ports.ChecksumStore
	hasher ports.Hasher
	logger ports.Logger
	root   string

	mu      sync.Mutex
	records domain.Checksums

	memoMu   sync.Mutex
	fileMemo map[domain.InternedString]string
	lineMemo map[domain.InternedString]string
}

// New creates an empty cache for the project at root.
func New(store ports.ChecksumStore, hasher ports.Hasher, logger ports.Logger, root string) *Cache {
	return &Cache{
		store:    store,
		hasher:   hasher,
		logger:   logger,
		root:     root,
		records:  make(domain.Checksums),
		fileMemo: make(map[domain.InternedString]string),
		lineMemo: make(map[domain.InternedString]string),
	}
}

// Path returns the checksum file of a platform and configuration.
func (c *Cache) Path(platform domain.Platform, configuration domain.Configuration) string {
	return domain.NewLayout(c.root, platform, configuration).ChecksumFile()
}

// Load replaces the in-memory records with the persisted ones. An unreadable or corrupt
// file is reported as a warning and leaves the cache empty, so every source recompiles.
func (c *Cache) Load(platform domain.Platform, configuration domain.Configuration) {
	records, err := c.store.Load(c.Path(platform, configuration))
	if err != nil {
		c.logger.Warn(fmt.Sprintf("Ignoring unreadable checksums, rebuilding everything: %v", err))
		records = nil
	}
	if records == nil {
		records = make(domain.Checksums)
	}
	for key, rec := range records {
		if rec == nil {
			delete(records, key)
			continue
		}
		if rec.HeaderChecksums == nil {
			rec.HeaderChecksums = make(map[string]string)
		}
	}

	c.mu.Lock()
	c.records = records
	c.mu.Unlock()

	c.memoMu.Lock()
	clear(c.fileMemo)
	clear(c.lineMemo)
	c.memoMu.Unlock()
}

// Save persists a snapshot of the records.
func (c *Cache) Save(platform domain.Platform, configuration domain.Configuration) error {
	return c.store.Save(c.Path(platform, configuration), c.Snapshot())
}

// Snapshot returns a deep copy of the records.
func (c *Cache) Snapshot() domain.Checksums {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(domain.Checksums, len(c.records))
	for key, rec := range c.records {
		cp := *rec
		cp.HeaderChecksums = maps.Clone(rec.HeaderChecksums)
		out[key] = &cp
	}
	return out
}

// Record returns a copy of the record stored for key.
func (c *Cache) Record(key string) (domain.ChecksumRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.records[key]
	if !ok {
		return domain.ChecksumRecord{}, false
	}
	cp := *rec
	cp.HeaderChecksums = maps.Clone(rec.HeaderChecksums)
	return cp, true
}

// ShouldRecompile reports whether the action's object is stale.
//
// Headers are checked last. The scan always covers every header: stored checksums are
// refreshed and headers that vanished from disk are dropped, whatever the verdict.
func (c *Cache) ShouldRecompile(a *domain.CompileAction) bool {
	c.mu.Lock()
	rec, ok := c.records[a.Key]
	var (
		fileSum, lineSum string
		succeeded        bool
	)
	if ok {
		fileSum, lineSum, succeeded = rec.FileChecksum, rec.CommandLineChecksum, rec.CompileSucceeded
	}
	c.mu.Unlock()

	switch {
	case !ok, !succeeded:
		return true
	case !exists(a.Info.ObjectFile):
		return true
	}

	sum, err := c.fileChecksum(a.Info.TargetFile)
	if err != nil || sum != fileSum {
		return true
	}
	if c.commandLineChecksum(a) != lineSum {
		return true
	}

	current, missing := c.headerChecksums(a.DependencyHeaders())

	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok = c.records[a.Key]
	if !ok {
		return true
	}
	if rec.HeaderChecksums == nil {
		rec.HeaderChecksums = make(map[string]string, len(current))
	}
	recompile := false
	for header, sum := range current {
		if old, ok := rec.HeaderChecksums[header]; !ok || old != sum {
			recompile = true
		}
		rec.HeaderChecksums[header] = sum
	}
	// A vanished header alone does not make the object stale.
	for _, header := range missing {
		delete(rec.HeaderChecksums, header)
	}
	return recompile
}

// RecordSuccess stores fresh checksums after the action compiled. The dependency listing
// is re-read because the compile rewrote it.
func (c *Cache) RecordSuccess(a *domain.CompileAction) {
	sum, err := c.fileChecksum(a.Info.TargetFile)
	if err != nil {
		c.RecordFailure(a)
		return
	}
	lineSum := c.commandLineChecksum(a)
	current, missing := c.headerChecksums(a.ReloadDependencyHeaders())

	c.mu.Lock()
	defer c.mu.Unlock()
	rec := c.recordLocked(a.Key)
	rec.FileChecksum = sum
	rec.CommandLineChecksum = lineSum
	rec.CompileSucceeded = true
	maps.Copy(rec.HeaderChecksums, current)
	for _, header := range missing {
		delete(rec.HeaderChecksums, header)
	}
}

// RecordFailure marks the action as failed so the next build recompiles it.
func (c *Cache) RecordFailure(a *domain.CompileAction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recordLocked(a.Key).CompileSucceeded = false
}

// Forget drops every record whose key starts with prefix, "" drops everything.
func (c *Cache) Forget(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.records {
		if strings.HasPrefix(key, prefix) {
			delete(c.records, key)
		}
	}
}

func (c *Cache) recordLocked(key string) *domain.ChecksumRecord {
	rec, ok := c.records[key]
	if !ok {
		rec = &domain.ChecksumRecord{}
		c.records[key] = rec
	}
	if rec.HeaderChecksums == nil {
		rec.HeaderChecksums = make(map[string]string)
	}
	return rec
}

// headerChecksums hashes the listed headers. Both results are keyed by the header path
// relative to the project root, so the checksum file survives moving the checkout.
func (c *Cache) headerChecksums(headers []string) (map[string]string, []string) {
	current := make(map[string]string, len(headers))
	var missing []string
	for _, header := range headers {
		key := c.rel(header)
		sum, err := c.fileChecksum(c.abs(header))
		if err != nil {
			missing = append(missing, key)
			continue
		}
		current[key] = sum
	}
	return current, missing
}

// fileChecksum hashes a file at most once per build. Failures are not memoized.
func (c *Cache) fileChecksum(path string) (string, error) {
	key := domain.NewInternedString(path)

	c.memoMu.Lock()
	sum, ok := c.fileMemo[key]
	c.memoMu.Unlock()
	if ok {
		return sum, nil
	}

	sum, err := c.hasher.HashFile(path)
	if err != nil {
		return "", err
	}

	c.memoMu.Lock()
	c.fileMemo[key] = sum
	c.memoMu.Unlock()
	return sum, nil
}

func (c *Cache) commandLineChecksum(a *domain.CompileAction) string {
	line := a.CommandLineString()
	key := domain.NewInternedString(line)

	c.memoMu.Lock()
	defer c.memoMu.Unlock()
	sum, ok := c.lineMemo[key]
	if !ok {
		sum = c.hasher.HashString(line)
		c.lineMemo[key] = sum
	}
	return sum
}

func (c *Cache) rel(path string) string {
	rel, err := filepath.Rel(c.root, c.abs(path))
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (c *Cache) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.root, filepath.FromSlash(path))
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
