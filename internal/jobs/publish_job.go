package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tamralc/publora/internal/models"
	"github.com/tamralc/publora/internal/repository"
	"github.com/tamralc/publora/internal/service"
)

// PublishDueJob is the batch scheduler. Each run queries the persistent queue
// for due posts, claims a bounded batch, and fans the batch out to the
// publisher concurrently. The cron tick and the manual HTTP trigger share
// this exact logic.
type PublishDueJob struct {
	pr        repository.ScheduledPostRepository
	publisher service.PublisherService
	batchSize int
}

func NewPublishDueJob(pr repository.ScheduledPostRepository, publisher service.PublisherService, batchSize int) *PublishDueJob {
	return &PublishDueJob{
		pr:        pr,
		publisher: publisher,
		batchSize: batchSize,
	}
}

// RunReport counts one run's outcomes: posts discovered, posts that ended
// published, posts that ended failed.
type RunReport struct {
	Total     int
	Processed int
	Failed    int
}

// Run is the cron entry point. Outcomes are collected for logging only; the
// next tick provides the retry cadence when the due-post query fails.
func (j *PublishDueJob) Run() {
	report, err := j.RunOnce(context.Background())
	if err != nil {
		slog.Error("scheduler tick aborted", "error", err)
		return
	}
	if report.Total > 0 {
		slog.Info("scheduler tick finished",
			"total", report.Total, "processed", report.Processed, "failed", report.Failed)
	}
}

// RunOnce executes a single query-and-process pass. A query error aborts the
// run before any state is written. A single post's failure or panic never
// aborts its siblings.
func (j *PublishDueJob) RunOnce(ctx context.Context) (RunReport, error) {
	posts, err := j.pr.ListDue(ctx, time.Now(), j.batchSize)
	if err != nil {
		return RunReport{}, err
	}

	report := RunReport{Total: len(posts)}
	if len(posts) == 0 {
		return report, nil
	}

	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, post := range posts {
		wg.Add(1)
		go func(post *models.ScheduledPost) {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					slog.Error("panic while processing post", "post_id", post.ID, "panic", rec)
					mu.Lock()
					report.Failed++
					mu.Unlock()
				}
			}()

			status := j.publisher.Process(ctx, post)

			mu.Lock()
			if status == models.PostStatusPublished {
				report.Processed++
			} else {
				report.Failed++
			}
			mu.Unlock()
		}(post)
	}

	wg.Wait()
	return report, nil
}
