package assembly

import (
	"context"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/rigport/rigport/pkg/asset"
	"github.com/rigport/rigport/pkg/errors"
	"github.com/rigport/rigport/pkg/host"
	"github.com/rigport/rigport/pkg/material"
	"github.com/rigport/rigport/pkg/observability"
)

// Options configures a job.
type Options struct {
	// ID names the job. Empty means a random UUID.
	ID string

	// Groups restricts the job to the named groups. Empty means all.
	Groups []string

	// Logger receives job progress. Nil discards.
	Logger *log.Logger
}

// Job is one run of a payload against a host. A Job is single-threaded
// and must not be run twice concurrently.
type Job struct {
	id      string
	payload *asset.Payload
	host    host.Host
	groups  []string
	logger  *log.Logger

	materials *material.Cache
	resolver  *material.Resolver
	bound     map[asset.MaterialHash]host.Handle
	report    *Report
}

// New creates a job for payload on h.
func New(payload *asset.Payload, h host.Host, opts Options) *Job {
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Job{
		id:        id,
		payload:   payload,
		host:      h,
		groups:    opts.Groups,
		logger:    logger.With("job", shortID(id)),
		materials: material.NewCache(),
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ID returns the job identifier.
func (j *Job) ID() string { return j.id }

// Materials returns the job's material cache.
func (j *Job) Materials() *material.Cache { return j.materials }

// Run executes the job. The material cache is reset first, so a job run
// twice starts cold both times.
//
// Absorbed failures end up in Report.Warnings. On a fatal error Run returns
// the report built so far together with the error.
func (j *Job) Run(ctx context.Context) (*Report, error) {
	if err := j.payload.Validate(); err != nil {
		return nil, err
	}

	j.materials.Reset()
	j.resolver = material.NewResolver(j.materials, material.BaseInputsFrom(j.payload.Options), j.logger)
	j.bound = make(map[asset.MaterialHash]host.Handle)
	j.report = &Report{JobID: j.id, Started: time.Now()}

	groups := j.selectedGroups()
	hooks := observability.Assembly()
	hooks.OnJobStart(ctx, j.id, len(groups))
	j.logger.Info("starting job", "groups", len(groups), "merge", j.payload.Options.MergeSkeletons)

	err := j.runGroups(ctx, groups)

	j.report.Materials = j.resolver.Stats()
	j.report.Duration = time.Since(j.report.Started)
	hooks.OnJobComplete(ctx, j.id, j.report.Duration, err)
	if err != nil {
		j.logger.Error("job failed", "err", err)
		return j.report, err
	}
	j.logger.Info("job complete",
		"duration", j.report.Duration.Round(time.Millisecond),
		"materials", j.materials.Len(),
		"warnings", len(j.report.Warnings))
	return j.report, nil
}

func (j *Job) selectedGroups() []asset.Group {
	if len(j.groups) == 0 {
		return j.payload.Data
	}
	var out []asset.Group
	for _, g := range j.payload.Data {
		if slices.Contains(j.groups, g.Name) {
			out = append(out, g)
		}
	}
	return out
}

func (j *Job) runGroups(ctx context.Context, groups []asset.Group) error {
	for _, g := range groups {
		if err := j.runGroup(ctx, g); err != nil {
			return err
		}
	}
	return nil
}

// loadedPart is a part the host loaded, with its handles.
type loadedPart struct {
	part asset.Part
	skel host.Handle
	mesh host.Handle
}

func (j *Job) runGroup(ctx context.Context, g asset.Group) error {
	logger := j.logger.With("group", g.Name)
	j.report.Groups = append(j.report.Groups, GroupReport{Name: g.Name, Type: g.Type})
	gr := &j.report.Groups[len(j.report.Groups)-1]

	if j.payload.Options.ImportCollection {
		if err := j.host.CreateCollection(ctx, g.Name); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "create collection %s", g.Name)
		}
		gr.Collection = true
	}

	parts := g.PartsToImport()
	logger.Debug("importing group", "parts", len(parts), "type", g.Type)

	var loaded []loadedPart
	for _, p := range parts {
		lp, pr, err := j.importPart(ctx, logger, g, parts, p)
		gr.Parts = append(gr.Parts, pr)
		if err != nil {
			if errors.GetCode(err).Fatal() {
				return err
			}
			j.warn(g.Name, p.Path, err)
			logger.Warn("skipping part", "part", p.Path, "err", errors.UserMessage(err))
			continue
		}
		loaded = append(loaded, lp)
	}

	if !g.MergesSkeletons(j.payload.Options) {
		return nil
	}
	mr, err := j.mergeGroup(ctx, logger, g, loaded)
	gr.Merge = mr
	return err
}

func (j *Job) warn(group, path string, err error) {
	j.report.Warnings = append(j.report.Warnings, Warning{
		Code:    errors.GetCode(err),
		Group:   group,
		Path:    path,
		Message: errors.UserMessage(err),
	})
}
