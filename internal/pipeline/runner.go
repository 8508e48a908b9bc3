package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/backmassage/renamaster/internal/config"
	"github.com/backmassage/renamaster/internal/ffmpeg"
	"github.com/backmassage/renamaster/internal/mediainfo"
	"github.com/backmassage/renamaster/internal/metrics"
	"github.com/backmassage/renamaster/internal/naming"
	"github.com/backmassage/renamaster/internal/prefs"
	"github.com/backmassage/renamaster/internal/thumbs"
	"github.com/backmassage/renamaster/internal/transport"
)

// Outcome is the terminal result of processing one event.
type Outcome string

const (
	OutcomeUploaded   Outcome = "uploaded"
	OutcomeFailed     Outcome = "failed"
	OutcomeDeduped    Outcome = "deduped"
	OutcomeNoTemplate Outcome = "no_template"
)

// Runner processes inbound events. One call to [Runner.Process] per event;
// events for different files may be processed concurrently on separate
// goroutines.
type Runner struct {
	cfg    *config.Config
	log    zerolog.Logger
	client transport.Client
	store  prefs.Store
	dedup  *Dedup
	stats  Stats

	// Seams for tests: sleeping, the muxer, and the thumbnail encoder.
	sleep   func(ctx context.Context, d time.Duration)
	rewrite func(ctx context.Context, src, dst string, tags ffmpeg.Tags) error
	prepare func(path string) (string, error)
}

// NewRunner wires a runner against the real muxer and thumbnail encoder.
func NewRunner(cfg *config.Config, log zerolog.Logger, client transport.Client, store prefs.Store) *Runner {
	return &Runner{
		cfg:     cfg,
		log:     log.With().Str("component", "pipeline").Logger(),
		client:  client,
		store:   store,
		dedup:   NewDedup(DebounceWindow),
		sleep:   sleepCtx,
		rewrite: ffmpeg.Rewrite,
		prepare: thumbs.Prepare,
	}
}

// Stats returns a snapshot of the aggregate counters.
func (r *Runner) Stats() Snapshot { return r.stats.Snapshot() }

// Process drives one event to a terminal state. Cleanup of every transient
// artifact and eviction of the dedup entry are guaranteed once a job is
// created, regardless of which stage failed.
func (r *Runner) Process(ctx context.Context, ev transport.Event) Outcome {
	r.stats.received.Add(1)
	metrics.JobsReceived.Inc()

	file := ev.File
	log := r.log.With().
		Str("file_id", file.ID).
		Str("name", file.DisplayName).
		Logger()

	// Duration trust is informational only; it never gates the pipeline.
	seconds, trust := mediainfo.ReliableDuration(file.DurationSeconds, file.ByteSize)
	switch trust {
	case mediainfo.DurationTrusted:
		log.Info().
			Int("duration_s", seconds).
			Str("size", mediainfo.FormatBytes(file.ByteSize)).
			Msg("using reported duration")
	case mediainfo.DurationSuspicious:
		log.Warn().
			Int("reported_s", file.DurationSeconds).
			Str("size", mediainfo.FormatBytes(file.ByteSize)).
			Msg("large file without a trustworthy duration")
	default:
		log.Info().
			Str("size", mediainfo.FormatBytes(file.ByteSize)).
			Msg("no reliable duration, size is the only indicator")
	}

	template, err := r.store.FormatTemplate(ctx, ev.UserID)
	if err != nil {
		log.Error().Err(err).Msg("template lookup failed")
		r.report(ctx, ev, "Error: "+err.Error())
		r.stats.failed.Add(1)
		metrics.JobsCompleted.WithLabelValues(string(OutcomeFailed)).Inc()
		return OutcomeFailed
	}
	if template == "" {
		r.report(ctx, ev, "Please set a rename template first with /autorename.")
		r.stats.noTemplate.Add(1)
		metrics.JobsCompleted.WithLabelValues(string(OutcomeNoTemplate)).Inc()
		return OutcomeNoTemplate
	}

	if !r.dedup.Begin(file.ID) {
		log.Debug().Msg("duplicate event inside debounce window, dropped")
		r.stats.deduped.Add(1)
		metrics.JobsDeduped.Inc()
		return OutcomeDeduped
	}

	extraction := naming.Extract(ev.Caption, file.DisplayName)
	resolved := naming.ResolveTemplate(template, extraction)
	targetName := naming.TargetFilename(resolved, file.DisplayName, file.Kind.DefaultExt())
	log.Info().
		Str("season", extraction.Season).
		Str("episode", extraction.Episode).
		Str("quality", extraction.Quality).
		Str("target", targetName).
		Msg("resolved target name")

	job := newJob(ev, targetName, r.cfg.DownloadsDir, r.cfg.MetadataDir, r.log)
	job.to(StateActive)
	defer r.cleanup(job)

	if err := r.run(ctx, job); err != nil {
		job.log.Error().Err(err).Msg("job failed")
		job.to(StateFailed)
		r.report(ctx, ev, "Error: "+err.Error())
		r.stats.failed.Add(1)
		metrics.JobsCompleted.WithLabelValues(string(OutcomeFailed)).Inc()
		return OutcomeFailed
	}

	r.stats.uploaded.Add(1)
	metrics.JobsCompleted.WithLabelValues(string(OutcomeUploaded)).Inc()
	return OutcomeUploaded
}

// run executes the Download → MetadataRewrite → ThumbnailPrepare → Upload
// stages. Only download and upload failures propagate; metadata and
// thumbnail degrade gracefully.
func (r *Runner) run(ctx context.Context, job *Job) error {
	if err := r.cfg.EnsureDirectories(); err != nil {
		return err
	}

	status := r.newStatus(ctx, job.Event, "Downloading...")

	job.to(StateDownload)
	start := time.Now()
	err := r.download(ctx, job, status)
	metrics.StageDuration.WithLabelValues("download").Observe(time.Since(start).Seconds())
	if err != nil {
		return err
	}

	job.to(StateMetadata)
	status.edit(ctx, "Processing metadata...")
	start = time.Now()
	if err := r.rewriteMetadata(ctx, job); err != nil {
		job.log.Warn().Err(err).Msg("metadata rewrite failed, uploading untagged file")
		metrics.MetadataRewriteFailures.Inc()
	} else {
		job.UploadPath = job.MetadataPath
	}
	metrics.StageDuration.WithLabelValues("metadata").Observe(time.Since(start).Seconds())

	job.to(StateThumbnail)
	status.edit(ctx, "Preparing upload...")
	start = time.Now()
	r.prepareThumbnail(ctx, job)
	metrics.StageDuration.WithLabelValues("thumbnail").Observe(time.Since(start).Seconds())

	caption, err := r.store.Caption(ctx, job.Event.ChatID)
	if err != nil {
		job.log.Warn().Err(err).Msg("caption lookup failed, using filename")
	}
	if caption == "" {
		caption = job.TargetName
	}

	job.to(StateUpload)
	status.edit(ctx, "Uploading...")
	start = time.Now()
	err = r.upload(ctx, job, caption, status)
	metrics.StageDuration.WithLabelValues("upload").Observe(time.Since(start).Seconds())
	if err != nil {
		return err
	}

	status.delete(ctx)
	job.to(StateUploaded)
	return nil
}

// download fetches the media with a bounded deadline. A rate-limit signal
// sleeps for the demanded duration and retries once, unconditionally; a
// timeout or any other error aborts the job.
func (r *Runner) download(ctx context.Context, job *Job, status *status) error {
	fetch := func(progress transport.Progress) (string, error) {
		dctx, cancel := context.WithTimeout(ctx, r.cfg.DownloadTimeout())
		defer cancel()
		return r.client.DownloadFile(dctx, job.Event, job.DownloadPath, progress)
	}

	path, err := fetch(r.progress(job, "download"))
	if wait, ok := transport.RetryAfter(err); ok {
		job.log.Warn().Dur("wait", wait).Msg("download rate limited")
		r.sleep(ctx, wait)
		path, err = fetch(nil)
	}
	if err != nil {
		if isTimeout(err) {
			status.edit(ctx, "Download timed out. Please try again.")
		} else {
			status.edit(ctx, "Download failed: "+err.Error())
		}
		return fmt.Errorf("download: %w", err)
	}

	if path != "" {
		job.DownloadPath = path
	}
	job.UploadPath = job.DownloadPath
	return nil
}

// rewriteMetadata resolves the six tag fields for the sender and runs the
// stream-copy rewrite into the metadata working directory.
func (r *Runner) rewriteMetadata(ctx context.Context, job *Job) error {
	userID := job.Event.UserID
	tags := ffmpeg.Tags{}

	for _, field := range []struct {
		dst  *string
		look func(context.Context, int64) (string, error)
	}{
		{&tags.Title, r.store.Title},
		{&tags.Artist, r.store.Artist},
		{&tags.Author, r.store.Author},
		{&tags.VideoTitle, r.store.VideoTitle},
		{&tags.AudioTitle, r.store.AudioTitle},
		{&tags.Subtitle, r.store.Subtitle},
	} {
		value, err := field.look(ctx, userID)
		if err != nil {
			return fmt.Errorf("resolve tags: %w", err)
		}
		*field.dst = value
	}

	// No deadline here: the muxer runs as long as it runs.
	return r.rewrite(ctx, job.DownloadPath, job.MetadataPath, tags)
}

// prepareThumbnail picks the thumbnail source (user-configured custom
// thumbnail first, else the media's embedded one, else none) and normalizes
// it. Every failure degrades to "no thumbnail".
func (r *Runner) prepareThumbnail(ctx context.Context, job *Job) {
	ev := job.Event

	var src string
	if id, err := r.store.ThumbFileID(ctx, ev.ChatID); err != nil {
		job.log.Warn().Err(err).Msg("custom thumbnail lookup failed")
	} else if id != "" {
		if path, err := r.client.DownloadByID(ctx, id); err != nil {
			job.log.Warn().Err(err).Msg("custom thumbnail download failed")
		} else {
			src = path
		}
	}
	if src == "" && ev.File.Kind == transport.KindVideo && ev.File.ThumbFileID != "" {
		if path, err := r.client.DownloadByID(ctx, ev.File.ThumbFileID); err != nil {
			job.log.Warn().Err(err).Msg("embedded thumbnail download failed")
		} else {
			src = path
		}
	}
	if src == "" {
		return
	}

	job.ThumbPath = src
	prepared, err := r.prepare(src)
	if err != nil {
		// The preparer already deleted the artifact.
		job.log.Warn().Err(err).Msg("thumbnail normalization failed, uploading without one")
		job.ThumbPath = ""
		return
	}
	job.ThumbPath = prepared
}

// upload sends the file with at most maxUploadAttempts attempts. Rate
// limits sleep for the transport-demanded duration; timeouts and generic
// errors back off on fixed delays. Every failure consumes an attempt.
func (r *Runner) upload(ctx context.Context, job *Job, caption string, status *status) error {
	retry := newUploadRetry()
	for {
		uctx, cancel := context.WithTimeout(ctx, r.cfg.UploadTimeout())
		err := r.client.SendVideo(uctx, job.Event.ChatID, job.UploadPath, caption, job.ThumbPath, r.progress(job, "upload"))
		cancel()
		if err == nil {
			return nil
		}

		wait, reason, retryable := retry.advance(err)
		job.log.Warn().
			Err(err).
			Str("reason", reason).
			Int("attempt", retry.attempt).
			Msg("upload attempt failed")
		if !retryable {
			status.edit(ctx, "Upload failed after multiple retries. Please try again later.")
			return fmt.Errorf("upload failed after %d attempts: %w", retry.attempt, err)
		}

		metrics.UploadRetries.WithLabelValues(reason).Inc()
		switch reason {
		case "rate_limit":
			status.edit(ctx, fmt.Sprintf("Rate limited. Waiting %s...", wait))
		case "timeout":
			status.edit(ctx, fmt.Sprintf("Upload timed out. Retrying (%d/%d)...", retry.attempt, retry.max))
		default:
			status.edit(ctx, fmt.Sprintf("Upload error. Retrying (%d/%d)...", retry.attempt, retry.max))
		}
		r.sleep(ctx, wait)
	}
}

// cleanup removes every transient artifact and evicts the dedup entry.
// Runs exactly once per job via defer; never raises.
func (r *Runner) cleanup(job *Job) {
	removeAll(job.log, job.DownloadPath, job.MetadataPath, job.ThumbPath)
	r.dedup.End(job.Event.File.ID)
	job.to(StateCleanedUp)
}

// report sends a best-effort user-visible message; a reporting failure is
// itself swallowed.
func (r *Runner) report(ctx context.Context, ev transport.Event, text string) {
	if _, err := r.client.Reply(ctx, ev, text); err != nil {
		r.log.Warn().Err(err).Msg("failed to report to user")
	}
}

// progress returns a transfer progress callback logging at debug level.
func (r *Runner) progress(job *Job, stage string) transport.Progress {
	return func(transferred, total int64) {
		job.log.Debug().
			Str("stage", stage).
			Str("done", mediainfo.FormatBytes(transferred)).
			Str("total", mediainfo.FormatBytes(total)).
			Msg("transfer progress")
	}
}

// --- status message wrapper ---

// status wraps the transport status message so that a failed Reply (or a
// transport without message editing) degrades to no-ops.
type status struct {
	msg transport.StatusMessage
	log zerolog.Logger
}

func (r *Runner) newStatus(ctx context.Context, ev transport.Event, text string) *status {
	msg, err := r.client.Reply(ctx, ev, text)
	if err != nil {
		r.log.Warn().Err(err).Msg("status message unavailable")
		return &status{log: r.log}
	}
	return &status{msg: msg, log: r.log}
}

func (s *status) edit(ctx context.Context, text string) {
	if s.msg == nil {
		return
	}
	if err := s.msg.Edit(ctx, text); err != nil {
		s.log.Debug().Err(err).Msg("status edit failed")
	}
}

func (s *status) delete(ctx context.Context) {
	if s.msg == nil {
		return
	}
	if err := s.msg.Delete(ctx); err != nil {
		s.log.Debug().Err(err).Msg("status delete failed")
	}
}

// sleepCtx sleeps for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
