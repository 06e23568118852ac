package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"alfredoptarigan/ai-interviewer/pkg/metrics"
)

// TelemetryJob describes one finished generation call.
type TelemetryJob struct {
	ID       uuid.UUID
	Stage    Stage
	Model    string
	Prompt   string
	Latency  time.Duration
	Attempts int
	Outcome  string
}

// TelemetryQueue accepts jobs without ever blocking the caller.
type TelemetryQueue interface {
	Enqueue(job TelemetryJob) bool
}

type tokenCounter interface {
	CountTokens(ctx context.Context, model string, contents []*genai.Content, config *genai.CountTokensConfig) (*genai.CountTokensResponse, error)
}

type TelemetryWorker interface {
	TelemetryQueue
	Start(ctx context.Context)
	Stop()
}

type telemetryWorker struct {
	counter      tokenCounter
	jobQueue     chan TelemetryJob
	concurrency  int
	countTimeout time.Duration
	pollInterval time.Duration
	log          *zap.Logger
	wg           sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
}

// NewTelemetryWorker counts prompt tokens off the request path. counter may
// be nil, in which case jobs are only logged.
func NewTelemetryWorker(counter tokenCounter, concurrency, queueSize int, log *zap.Logger) TelemetryWorker {
	if concurrency < 1 {
		concurrency = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &telemetryWorker{
		counter:      counter,
		jobQueue:     make(chan TelemetryJob, queueSize),
		concurrency:  concurrency,
		countTimeout: 10 * time.Second,
		pollInterval: 10 * time.Second,
		log:          log,
		stopChan:     make(chan struct{}),
	}
}

// Start implements TelemetryWorker.
func (w *telemetryWorker) Start(ctx context.Context) {
	w.log.Info("starting telemetry workers", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.reportQueueDepth(ctx)
}

// Stop implements TelemetryWorker. Jobs still queued are discarded.
func (w *telemetryWorker) Stop() {
	w.stopOnce.Do(func() {
		w.log.Info("stopping telemetry workers")
		close(w.stopChan)
		w.wg.Wait()
	})
}

// Enqueue implements TelemetryQueue. A full queue drops the job.
func (w *telemetryWorker) Enqueue(job TelemetryJob) bool {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}

	select {
	case <-w.stopChan:
		return false
	default:
	}

	select {
	case w.jobQueue <- job:
		return true
	default:
		metrics.RecordTelemetryDropped()
		w.log.Debug("telemetry queue full, dropping job", zap.String("stage", job.Stage.String()))
		return false
	}
}

func (w *telemetryWorker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case job := <-w.jobQueue:
			w.handle(ctx, workerID, job)
		}
	}
}

func (w *telemetryWorker) handle(ctx context.Context, workerID int, job TelemetryJob) {
	fields := []zap.Field{
		zap.Int("worker", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("stage", job.Stage.String()),
		zap.String("model", job.Model),
		zap.String("outcome", job.Outcome),
		zap.Int("attempts", job.Attempts),
		zap.Int("prompt_chars", len(job.Prompt)),
		zap.Duration("latency", job.Latency),
	}

	if w.counter != nil {
		countCtx, cancel := context.WithTimeout(ctx, w.countTimeout)
		resp, err := w.counter.CountTokens(countCtx, job.Model, genai.Text(job.Prompt), nil)
		cancel()

		if err != nil {
			w.log.Debug("prompt token count failed", append(fields, zap.Error(err))...)
		} else if resp != nil {
			metrics.RecordPromptTokens(job.Stage.String(), int(resp.TotalTokens))
			fields = append(fields, zap.Int32("prompt_tokens", resp.TotalTokens))
		}
	}

	w.log.Info("generation call", fields...)
}

func (w *telemetryWorker) reportQueueDepth(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateTelemetryQueueDepth(len(w.jobQueue))
		}
	}
}
