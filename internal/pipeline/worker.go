package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/structree/internal/builder"
	"github.com/dgallion1/structree/internal/chunker"
	"github.com/dgallion1/structree/internal/parser"
	"github.com/dgallion1/structree/internal/summarize"
	"github.com/dgallion1/structree/internal/tree"
	"github.com/dgallion1/structree/internal/treestore"
)

// Worker processes a single document job: parse, infer structure, summarize,
// inject preambles, chunk, and optionally push the tree to the store.
type Worker struct {
	results    *ResultStore
	store      *treestore.Client
	summarizer summarize.Summarizer
	log        *slog.Logger

	buildOpts          builder.Options
	chunkCfg           chunker.Config
	pdfFallback        bool
	maxConcurrentStore int
}

func NewWorker(results *ResultStore, store *treestore.Client, summarizer summarize.Summarizer,
	log *slog.Logger, buildOpts builder.Options, chunkCfg chunker.Config, pdfFallback bool, maxStore int) *Worker {
	if maxStore < 1 {
		maxStore = 4
	}
	return &Worker{
		results:            results,
		store:              store,
		summarizer:         summarizer,
		log:                log,
		buildOpts:          buildOpts,
		chunkCfg:           chunkCfg,
		pdfFallback:        pdfFallback,
		maxConcurrentStore: maxStore,
	}
}

// Process runs the full build pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	// Phase 1: Parse.
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if pdfParser, ok := p.(*parser.PDFParser); ok {
		pdfParser.FallbackPdftotext = w.pdfFallback
	}

	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if job.Title == "" {
		job.Title = doc.Title
	}
	job.SetFileData(nil)

	// Phase 2: Structure inference and repair.
	job.SetStatus(StatusInferring, "inferring")
	t, report, err := builder.Build(ctx, doc.Text, job.DocID, w.buildOpts)
	if err != nil {
		log.Error("build failed", "error", err)
		job.AddError(fmt.Sprintf("build: %s", err))
		job.SetStatus(StatusFailed, "inferring")
		return
	}
	log.Info("structure inferred",
		"headings", report.HeadingsDetected,
		"nodes", t.NodeCount,
		"escalation", report.EscalationMode,
		"degraded", report.Degraded)
	for _, warn := range report.Warnings {
		job.AddError(warn)
	}

	// Phase 3: Summaries, then preamble injection over the summarized tree.
	job.SetStatus(StatusSummarizing, "summarizing")
	n, warnings := summarize.Apply(ctx, t, w.summarizer)
	report.Summarized = n
	report.PreambleInjected = tree.InjectPreambles(t)
	n, more := summarize.ApplyPreambles(ctx, t, w.summarizer)
	report.Summarized += n
	warnings = append(warnings, more...)
	for _, warn := range warnings {
		job.AddError(warn)
	}
	report.Warnings = append(report.Warnings, warnings...)

	// Phase 4: Chunk.
	job.SetStatus(StatusChunking, "chunking")
	chunks := chunker.ChunkTree(t, w.chunkCfg)
	log.Info("chunked document", "chunks", len(chunks))

	w.results.Put(&Result{
		DocID:    job.DocID,
		Filename: job.Filename,
		Title:    job.Title,
		Tree:     t,
		Report:   report,
		Chunks:   chunks,
	})

	// Phase 5: Push to the tree store, when configured.
	if w.store == nil {
		job.SetStatus(StatusCompleted, "done")
		return
	}
	job.SetStatus(StatusStoring, "storing")
	failed := w.pushTree(ctx, job, t, log)

	switch {
	case failed == 0:
		job.SetStatus(StatusCompleted, "done")
	case failed < t.NodeCount+1:
		job.SetStatus(StatusPartial, "done")
	default:
		job.SetStatus(StatusFailed, "storing")
	}
}

// pushTree writes every node record with bounded concurrency, retrying
// transient store failures. Returns the number of nodes that failed.
func (w *Worker) pushTree(ctx context.Context, job *Job, t *tree.DocumentTree, log *slog.Logger) int {
	nodes := tree.PreOrder(t.Root)
	sem := make(chan struct{}, w.maxConcurrentStore)
	errs := make(chan error, len(nodes))

	for _, n := range nodes {
		sem <- struct{}{}
		go func(n *tree.Node) {
			defer func() { <-sem }()
			errs <- w.putNode(ctx, t.DocID, n, log)
		}(n)
	}

	failed := 0
	for range nodes {
		if err := <-errs; err != nil {
			job.AddError(err.Error())
			failed++
		}
	}
	return failed
}

func (w *Worker) putNode(ctx context.Context, docID string, n *tree.Node, log *slog.Logger) error {
	childIDs := make([]string, 0, len(n.Children))
	for _, child := range n.Children {
		childIDs = append(childIDs, child.ID)
	}
	rec := treestore.NodeRecord{
		DocID:       docID,
		Heading:     n.Heading,
		Level:       n.Level,
		Content:     n.Content,
		Summary:     n.Summary,
		HeadingPath: n.HeadingPath,
		ChildIDs:    childIDs,
	}

	key := treestore.NodeKey(docID, n.ID)
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		lastErr = w.store.PutNode(ctx, key, rec)
		if lastErr == nil || !IsRetryableStore(lastErr) {
			break
		}
		log.Warn("retryable store error", "key", key, "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if lastErr != nil {
		return fmt.Errorf("store %s: %w", key, lastErr)
	}
	return nil
}
