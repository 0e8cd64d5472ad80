package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/structree/internal/advise"
	"github.com/dgallion1/structree/internal/builder"
	"github.com/dgallion1/structree/internal/chunker"
	"github.com/dgallion1/structree/internal/config"
	"github.com/dgallion1/structree/internal/summarize"
	"github.com/dgallion1/structree/internal/treestore"
)

// Orchestrator manages the document build pipeline.
type Orchestrator struct {
	jobs       *JobStore
	results    *ResultStore
	queue      chan *Job
	adviser    advise.Adviser
	summarizer summarize.Summarizer
	store      *treestore.Client
	log        *slog.Logger
	cfg        config.Config
	chunkCfg   chunker.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Adviser, summarizer, and store may
// each be nil; the pipeline degrades accordingly.
func NewOrchestrator(cfg config.Config, adviser advise.Adviser, summarizer summarize.Summarizer,
	store *treestore.Client, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:       NewJobStore(cfg.JobTTL),
		results:    NewResultStore(),
		queue:      make(chan *Job, cfg.MaxQueueSize),
		adviser:    adviser,
		summarizer: summarizer,
		store:      store,
		log:        log,
		cfg:        cfg,
		chunkCfg: chunker.Config{
			ChunkSize:    cfg.ChunkSize,
			ChunkOverlap: cfg.ChunkOverlap,
			MinChunk:     100,
		},
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	buildOpts := builder.Options{
		MaxDepth:       o.cfg.MaxDepth,
		Adviser:        o.adviser,
		AdviserRetries: o.cfg.AdviserRetries,
		Backoff:        Backoff,
	}

	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.results, o.store, o.summarizer, o.log, buildOpts,
				o.chunkCfg, o.cfg.PDFFallbackPdftotext, o.cfg.MaxConcurrentStore)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// Results returns the completed-build registry.
func (o *Orchestrator) Results() *ResultStore {
	return o.results
}

// StoreClient returns the tree store client, nil when unconfigured.
func (o *Orchestrator) StoreClient() *treestore.Client {
	return o.store
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}
