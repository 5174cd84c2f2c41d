package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"cvattrack/internal/catalog"
	"cvattrack/internal/config"
	"cvattrack/internal/cvat"
	"cvattrack/internal/detection"
	"cvattrack/internal/fileutil"
	"cvattrack/internal/history"
	"cvattrack/internal/logging"
	"cvattrack/internal/media/ffprobe"
	"cvattrack/internal/tracks"
)

const (
	lockRetryDelay = 50 * time.Millisecond
	lockTimeout    = 10 * time.Second
	cancelCheck    = 256
)

var siblingVideoExts = []string{".mp4", ".mov", ".avi", ".mkv", ".webm"}

// Recorder persists finished runs.
type Recorder interface {
	Record(ctx context.Context, entry history.Entry) (history.Entry, error)
}

// Prober inspects a media file.
type Prober func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Option customizes an Exporter.
type Option func(*Exporter)

// WithRecorder records every finished run.
func WithRecorder(r Recorder) Option {
	return func(e *Exporter) { e.recorder = r }
}

// WithProber replaces the ffprobe invocation.
func WithProber(p Prober) Option {
	return func(e *Exporter) { e.probe = p }
}

// WithClock replaces the wall clock used for document timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// Exporter converts detection files into CVAT documents. It is safe for
// concurrent use; the label catalog is shared read-only between runs.
type Exporter struct {
	cfg      *config.Config
	catalog  *catalog.Catalog
	logger   *slog.Logger
	recorder Recorder
	probe    Prober
	now      func() time.Time
}

// New builds an exporter for cfg.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Exporter, error) {
	if cfg == nil {
		return nil, Wrap(ErrConfiguration, "export", "init", "config is required", nil)
	}
	cat, err := cfg.LabelCatalog()
	if err != nil {
		return nil, Wrap(ErrConfiguration, "export", "catalog", "", err)
	}
	e := &Exporter{
		cfg:     cfg,
		catalog: cat,
		logger:  logging.NewComponentLogger(logger, "export"),
		probe:   ffprobe.Inspect,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Catalog returns the label catalog shared by every run.
func (e *Exporter) Catalog() *catalog.Catalog {
	return e.catalog
}

// Run exports a single detection file.
func (e *Exporter) Run(ctx context.Context, req Request) (Result, error) {
	started := e.now()
	runID := history.NewID()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, e.logger)

	res, err := e.run(ctx, logger, req)
	res.RunID = runID
	res.Duration = e.now().Sub(started)

	if err != nil {
		res.Error = err.Error()
	}
	e.record(ctx, logger, res, started, err)
	if err != nil {
		logger.Error("export failed",
			logging.String(logging.FieldDetections, req.DetectionsPath),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, Hint(err)),
		)
		return res, err
	}

	logger.Info("export finished",
		logging.String(logging.FieldOutput, res.OutputPath),
		logging.Int(logging.FieldFrames, res.FrameCount),
		logging.String(logging.FieldFrameSource, string(res.FrameSource)),
		logging.Int(logging.FieldTracks, res.Tracks),
		logging.Int(logging.FieldBoxes, res.Boxes),
		logging.Duration(logging.FieldDuration, res.Duration),
	)
	return res, nil
}

// RunBatch exports every request concurrently, bounded by export.workers.
// Results are returned in request order. The first failure cancels runs
// that have not finished.
func (e *Exporter) RunBatch(ctx context.Context, reqs []Request) ([]Result, error) {
	seen := make(map[string]string, len(reqs))
	for _, req := range reqs {
		out := e.outputPath(req)
		if prev, ok := seen[out]; ok {
			return nil, Wrap(ErrValidation, "export", "batch",
				fmt.Sprintf("%s and %s both write %s", prev, req.DetectionsPath, out), nil)
		}
		seen[out] = req.DetectionsPath
	}

	results := make([]Result, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Export.Workers)
	for i, req := range reqs {
		g.Go(func() error {
			if gctx.Err() != nil {
				results[i] = Result{DetectionsPath: req.DetectionsPath}
				return nil
			}
			res, err := e.Run(gctx, req)
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

// Inspect builds tracks for a detection file and summarizes them per label.
func (e *Exporter) Inspect(ctx context.Context, req Request) (Inspection, error) {
	r, err := e.resolve(req)
	if err != nil {
		return Inspection{}, err
	}
	builder, err := e.readTracks(ctx, r)
	if err != nil {
		return Inspection{}, err
	}
	trs := builder.Tracks()
	return Inspection{
		DetectionsPath: req.DetectionsPath,
		Frames:         builder.Frames(),
		Tracks:         len(trs),
		Boxes:          tracks.CountBoxes(trs),
		Labels:         tracks.Summarize(trs),
	}, nil
}

func (e *Exporter) run(ctx context.Context, logger *slog.Logger, req Request) (Result, error) {
	res := Result{DetectionsPath: req.DetectionsPath}
	r, err := e.resolve(req)
	if err != nil {
		return res, err
	}
	res.OutputPath = r.OutputPath
	res.VideoPath = r.VideoPath

	logger.Info("export started",
		logging.String(logging.FieldDetections, r.DetectionsPath),
		logging.String(logging.FieldOutput, r.OutputPath),
		logging.String("format", string(r.format)),
		logging.Int("stride", r.stride),
	)

	builder, err := e.readTracks(ctx, r)
	if err != nil {
		return res, err
	}
	trs := builder.Tracks()
	res.DecodedFrames = builder.Frames()

	frameCount, source, err := e.resolveFrameCount(ctx, logger, r, builder.Frames())
	if err != nil {
		return res, err
	}
	res.FrameCount = frameCount
	res.FrameSource = source
	if frameCount < builder.Frames() {
		logger.Warn("detections extend past the task frame range",
			logging.Int(logging.FieldFrames, frameCount),
			logging.Int("decoded_frames", builder.Frames()),
			logging.String(logging.FieldErrorHint, "pass --frames to cover every detection"),
		)
	}

	doc, err := cvat.Build(trs, frameCount, e.catalog, e.metadata(), cvat.Options{
		UnknownLabels: r.policy,
		DefaultColor:  e.cfg.Catalog.DefaultColor,
	})
	if err != nil {
		var lookupErr *catalog.LookupError
		if errors.As(err, &lookupErr) {
			return res, Wrap(ErrValidation, "serialize", "labels", "", err)
		}
		return res, Wrap(ErrValidation, "serialize", "build", "", err)
	}
	res.Tracks = doc.Stats.Tracks
	res.Boxes = doc.Stats.Boxes
	res.Dropped = doc.Stats.Dropped
	res.Declared = doc.Stats.Declared
	if len(res.Dropped) > 0 {
		logger.Warn("dropped tracks with unknown labels",
			logging.Any(logging.FieldDropped, res.Dropped),
			logging.String(logging.FieldErrorHint, "add the labels to [[catalog.labels]]"),
		)
	}

	data, err := doc.Bytes()
	if err != nil {
		return res, Wrap(ErrValidation, "serialize", "encode", "", err)
	}
	if err := e.write(ctx, r.OutputPath, data); err != nil {
		return res, err
	}
	return res, nil
}

func (e *Exporter) outputPath(req Request) string {
	if strings.TrimSpace(req.OutputPath) != "" {
		return req.OutputPath
	}
	return DefaultOutputPath(e.cfg.Paths.OutputDir, req.DetectionsPath)
}

func (e *Exporter) resolve(req Request) (resolved, error) {
	if strings.TrimSpace(req.DetectionsPath) == "" {
		return resolved{}, Wrap(ErrValidation, "export", "request", "detections path is empty", nil)
	}
	r := resolved{Request: req}
	r.OutputPath = e.outputPath(req)

	formatName := firstNonEmpty(req.Format, e.cfg.Detections.Format)
	if formatName == "" {
		r.format = detection.FormatFromPath(req.DetectionsPath)
	} else {
		format, err := detection.ParseFormat(formatName)
		if err != nil {
			return resolved{}, Wrap(ErrValidation, "export", "format", "", err)
		}
		r.format = format
	}

	r.stride = req.Stride
	if r.stride <= 0 {
		r.stride = e.cfg.Detections.Stride
	}
	r.ValidateBoxes = req.ValidateBoxes || e.cfg.Detections.ValidateBoxes

	policy, err := cvat.ParseUnknownLabelPolicy(firstNonEmpty(req.UnknownLabels, e.cfg.Catalog.UnknownLabels))
	if err != nil {
		return resolved{}, Wrap(ErrValidation, "export", "unknown labels", "", err)
	}
	if policy == cvat.UnknownLabelsDeclare && !catalog.ValidColor(e.cfg.Catalog.DefaultColor) {
		return resolved{}, Wrap(ErrConfiguration, "export", "unknown labels",
			fmt.Sprintf("catalog.default_color %q is not #rrggbb", e.cfg.Catalog.DefaultColor), nil)
	}
	r.policy = policy

	if r.VideoPath == "" && r.FrameCount <= 0 && e.cfg.Export.ProbeVideo {
		r.VideoPath = siblingVideo(req.DetectionsPath)
		r.probing = r.VideoPath != ""
	}
	return r, nil
}

func (e *Exporter) readTracks(ctx context.Context, r resolved) (*tracks.Builder, error) {
	file, err := os.Open(r.DetectionsPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, Wrap(ErrNotFound, "decode", "open", r.DetectionsPath, err)
		}
		return nil, Wrap(ErrValidation, "decode", "open", r.DetectionsPath, err)
	}
	defer file.Close()

	opts := []detection.DecoderOption{detection.WithStride(r.stride)}
	if r.ValidateBoxes {
		opts = append(opts, detection.WithBoxValidation())
	}
	dec := detection.NewDecoder(file, r.format, opts...)
	builder := tracks.NewBuilder()
	for {
		if builder.Frames()%cancelCheck == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		frame, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return builder, nil
		}
		if err != nil {
			return nil, Wrap(ErrValidation, "decode", "read", r.DetectionsPath, err)
		}
		builder.Observe(frame)
	}
}

func (e *Exporter) resolveFrameCount(ctx context.Context, logger *slog.Logger, r resolved, decoded int) (int, FrameSource, error) {
	if r.FrameCount > 0 {
		return r.FrameCount, FrameSourceExplicit, nil
	}
	if r.VideoPath == "" {
		return decoded, FrameSourceDecoded, nil
	}

	frames, err := e.probeVideo(ctx, logger, r.VideoPath)
	if err == nil {
		return frames, FrameSourceVideo, nil
	}
	if !r.probing {
		return 0, "", err
	}
	logger.Warn("video probe failed; using decoded frame count",
		logging.String(logging.FieldVideo, r.VideoPath),
		logging.Error(err),
	)
	return decoded, FrameSourceDecoded, nil
}

func (e *Exporter) probeVideo(ctx context.Context, logger *slog.Logger, path string) (int, error) {
	result, err := e.probe(ctx, e.cfg.Export.FFprobeBinary, path)
	if err != nil {
		return 0, Wrap(ErrExternalTool, "probe", "ffprobe", path, err)
	}
	frames, err := result.VideoFrameCount()
	if err != nil {
		return 0, Wrap(ErrExternalTool, "probe", "frame count", path, err)
	}
	if width, height, err := result.VideoSize(); err == nil && (width != e.cfg.Task.Width || height != e.cfg.Task.Height) {
		logger.Warn("video size differs from task original size",
			logging.String(logging.FieldVideo, path),
			logging.String("video_size", fmt.Sprintf("%dx%d", width, height)),
			logging.String("task_size", fmt.Sprintf("%dx%d", e.cfg.Task.Width, e.cfg.Task.Height)),
		)
	}
	return frames, nil
}

func (e *Exporter) metadata() cvat.Metadata {
	t := e.cfg.Task
	return cvat.Metadata{
		TaskID:     t.ID,
		TaskName:   t.Name,
		Mode:       t.Mode,
		Overlap:    t.Overlap,
		Bugtracker: t.Bugtracker,
		Subset:     t.Subset,
		SegmentID:  t.SegmentID,
		SegmentURL: t.SegmentURL,
		Owner:      cvat.Owner{Username: t.OwnerUsername, Email: t.OwnerEmail},
		Assignee:   t.Assignee,
		Width:      t.Width,
		Height:     t.Height,
		Now:        e.now(),
	}
}

func (e *Exporter) write(ctx context.Context, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Wrap(ErrValidation, "write", "mkdir", dir, err)
	}

	lockPath := path + ".lock"
	lock := flock.New(lockPath)
	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()
	ok, err := lock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil || !ok {
		return Wrap(ErrConflict, "write", "lock", lockPath, err)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return Wrap(ErrValidation, "write", "output", path, err)
	}
	return nil
}

func (e *Exporter) record(ctx context.Context, logger *slog.Logger, res Result, started time.Time, runErr error) {
	if e.recorder == nil {
		return
	}
	entry := history.Entry{
		ID:             res.RunID,
		DetectionsPath: res.DetectionsPath,
		OutputPath:     res.OutputPath,
		VideoPath:      res.VideoPath,
		FrameCount:     res.FrameCount,
		FrameSource:    string(res.FrameSource),
		TrackCount:     res.Tracks,
		BoxCount:       res.Boxes,
		Status:         history.StatusCompleted,
		StartedAt:      started,
		FinishedAt:     started.Add(res.Duration),
	}
	if runErr != nil {
		entry.Status = history.StatusFailed
		entry.ErrorMessage = runErr.Error()
	}
	// Recorded even when ctx is already cancelled.
	if _, err := e.recorder.Record(context.WithoutCancel(ctx), entry); err != nil {
		logger.Warn("failed to record export history", logging.Error(err))
	}
}

func siblingVideo(detectionsPath string) string {
	stem := strings.TrimSuffix(detectionsPath, filepath.Ext(detectionsPath))
	for _, ext := range siblingVideoExts {
		candidate := stem + ext
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
