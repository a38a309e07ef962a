package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/camden-git/moviearchive/catalog"
	"github.com/hashicorp/go-hclog"
)

// Creator registers a single movie. *catalog.Service satisfies it.
type Creator interface {
	CreateMovie(ctx context.Context, sub catalog.Submission) (catalog.MovieView, error)
}

type Options struct {
	// DryRun validates every submission without saving anything.
	DryRun bool
	// StopOnError aborts the run at the first failed submission.
	// Conflicts are skips, not failures.
	StopOnError bool
}

// ItemError records why one submission was not imported.
type ItemError struct {
	Index int // 1-based position in the batch
	Title string
	Err   error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("movie %d (%q): %v", e.Index, e.Title, e.Err)
}

func (e ItemError) Unwrap() error { return e.Err }

type Result struct {
	Created int
	Skipped int
	Failed  int
	Errors  []ItemError
}

// Importer feeds submissions to a Creator one transaction at a time.
type Importer struct {
	creator Creator
	log     hclog.Logger
}

func New(creator Creator, log hclog.Logger) *Importer {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Importer{creator: creator, log: log}
}

// Run imports subs in order. A movie that already exists is counted as
// skipped. Each created movie is committed on its own, so a failure never
// undoes earlier successes.
func (im *Importer) Run(ctx context.Context, subs []catalog.Submission, opts Options) (Result, error) {
	var res Result
	for i, sub := range subs {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		err := im.importOne(ctx, sub, opts.DryRun)
		switch {
		case err == nil:
			res.Created++
			continue
		case errors.Is(err, catalog.ErrConflict):
			res.Skipped++
			im.log.Info("movie already exists, skipping", "index", i+1, "title", sub.Title)
			continue
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return res, err
		}

		res.Failed++
		res.Errors = append(res.Errors, ItemError{Index: i + 1, Title: sub.Title, Err: err})
		im.log.Warn("movie import failed", "index", i+1, "title", sub.Title, "error", err)
		if opts.StopOnError {
			return res, fmt.Errorf("stopped at movie %d: %w", i+1, err)
		}
	}

	im.log.Info("import finished", "created", res.Created, "skipped", res.Skipped, "failed", res.Failed, "dry_run", opts.DryRun)
	return res, nil
}

func (im *Importer) importOne(ctx context.Context, sub catalog.Submission, dryRun bool) error {
	if dryRun {
		return sub.Validate()
	}
	_, err := im.creator.CreateMovie(ctx, sub)
	return err
}
