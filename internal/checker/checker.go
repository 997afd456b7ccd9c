// Package checker runs schema checks over many chaos files with bounded
// concurrency.
package checker

import (
	"context"
	"sort"
	"sync"

	"github.com/chaos-tools/chaos-assistant/internal/chaosdir"
	"github.com/chaos-tools/chaos-assistant/internal/schema"
)

// FileCheck is the outcome of validating one file.
type FileCheck struct {
	Path   string
	Kind   schema.Kind
	Result *schema.Result // nil when the file could not be read or parsed
	Err    error
}

// OK reports whether the file passed.
func (c FileCheck) OK() bool {
	return c.Err == nil && c.Result != nil && c.Result.Valid
}

// Pool validates files concurrently. If maxWorkers is 0, one worker per
// submitted file is allowed.
type Pool struct {
	maxWorkers int
	semaphore  chan struct{}
	wg         sync.WaitGroup
	mu         sync.Mutex
	checks     []FileCheck
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewPool creates a check pool with bounded concurrency.
func NewPool(ctx context.Context, maxWorkers int) *Pool {
	ctx, cancel := context.WithCancel(ctx)
	return &Pool{
		maxWorkers: maxWorkers,
		semaphore:  make(chan struct{}, maxWorkers),
		checks:     make([]FileCheck, 0),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Submit queues one file for validation. Blocks while the pool is at
// capacity; submissions after cancellation are dropped.
func (p *Pool) Submit(kind schema.Kind, path string) {
	select {
	case <-p.ctx.Done():
		return
	default:
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		if p.maxWorkers > 0 {
			select {
			case p.semaphore <- struct{}{}:
				defer func() { <-p.semaphore }()
			case <-p.ctx.Done():
				return
			}
		}
		select {
		case <-p.ctx.Done():
			return
		default:
		}

		result, err := chaosdir.CheckFile(kind, path)
		p.mu.Lock()
		defer p.mu.Unlock()
		p.checks = append(p.checks, FileCheck{Path: path, Kind: kind, Result: result, Err: err})
	}()
}

// Wait blocks until all submitted checks finish and returns them ordered
// by path.
func (p *Pool) Wait() []FileCheck {
	p.wg.Wait()
	p.cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	checks := make([]FileCheck, len(p.checks))
	copy(checks, p.checks)
	sort.Slice(checks, func(i, j int) bool {
		return checks[i].Path < checks[j].Path
	})
	return checks
}

// Cancel drops all pending work.
func (p *Pool) Cancel() {
	p.cancel()
}

// SubmitSet queues every file of a discovered directory.
func (p *Pool) SubmitSet(fs *chaosdir.FileSet) {
	p.Submit(schema.KindCategory, fs.Category)
	if fs.Labels != "" {
		p.Submit(schema.KindLabels, fs.Labels)
	}
	for _, taskPath := range fs.Tasks {
		p.Submit(schema.KindTask, taskPath)
	}
}
