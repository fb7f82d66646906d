package report

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/tartampluch/go-lifestory/internal/config"
	"github.com/tartampluch/go-lifestory/internal/content"
	"github.com/tartampluch/go-lifestory/internal/dates"
	"github.com/tartampluch/go-lifestory/internal/generation"
	"github.com/tartampluch/go-lifestory/internal/placeholder"
	"golang.org/x/sync/errgroup"
)

// Loaders is satisfied by content.Loader.
type Loaders interface {
	content.YearLoader
	content.GenerationLoader
	content.BirthdayLoader
}

// Assembler builds Reports. It keeps no per-call state, so one Assembler
// serves concurrent callers as long as its loaders do.
type Assembler struct {
	Years       content.YearLoader
	Generations content.GenerationLoader
	Birthdays   content.BirthdayLoader

	// Clock supplies "today" for ages; nil means the system clock.
	Clock dates.Clock
	// Builder renders the placeholder map; the zero value is English.
	Builder placeholder.Builder
	// Metrics is optional.
	Metrics *Metrics
}

// NewAssembler creates an Assembler reading all three document kinds from l.
func NewAssembler(l Loaders, clock dates.Clock, builder placeholder.Builder, metrics *Metrics) *Assembler {
	return &Assembler{
		Years:       l,
		Generations: l,
		Birthdays:   l,
		Clock:       clock,
		Builder:     builder,
		Metrics:     metrics,
	}
}

// Assemble produces the report for bd. It fails with
// *generation.OutOfRangeError for years outside every generation and with
// *ContentNotFoundError when any of the three documents is missing or fails
// to load; the first failing load cancels the others.
func (a *Assembler) Assemble(ctx context.Context, bd dates.BirthDate) (Report, error) {
	start := time.Now()
	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompAssembler),
		slog.String(config.LogKeyDate, bd.String()),
	)
	log.Debug(config.MsgAssembleStart)

	gen, err := generation.Classify(bd.Year)
	if err != nil {
		a.Metrics.ObserveAssemble(OutcomeOutOfRange, start)
		log.Warn(config.MsgAssembleFailed, slog.Any(config.LogKeyError, err))
		return Report{}, err
	}

	var (
		yearDoc     content.YearDocument
		genDoc      content.GenerationDocument
		birthdayDoc content.BirthdayDocument
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		doc, err := a.Years.LoadYear(gctx, bd.Year)
		if err != nil {
			return loadFailed(ctx, content.KindYear, content.YearKey(bd.Year), err)
		}
		yearDoc = doc
		return nil
	})

	g.Go(func() error {
		doc, err := a.Generations.LoadGeneration(gctx, gen.ID)
		if err != nil {
			return loadFailed(ctx, content.KindGeneration, gen.ID, err)
		}
		genDoc = doc
		return nil
	})

	g.Go(func() error {
		doc, err := a.Birthdays.LoadBirthday(gctx, bd.Month, bd.Day)
		if err != nil {
			return loadFailed(ctx, content.KindBirthday, content.BirthdayKey(bd.Month, bd.Day), err)
		}
		birthdayDoc = doc
		return nil
	})

	if err := g.Wait(); err != nil {
		outcome := OutcomeError
		var nf *ContentNotFoundError
		if errors.As(err, &nf) {
			outcome = OutcomeNotFound
		}
		a.Metrics.ObserveAssemble(outcome, start)
		log.Warn(config.MsgAssembleFailed, slog.Any(config.LogKeyError, err))
		return Report{}, err
	}

	sections := MergeSections(genDoc.Sections, yearDoc.Sections)
	tokens := a.Builder.Build(bd, yearDoc.BirthYearCohort, a.now())
	birthDate, _ := tokens.Lookup(placeholder.TokenBirthDate)

	unresolved := map[string]struct{}{}
	resolver := placeholder.Resolver{
		Map: tokens,
		Unknown: func(token string) {
			a.Metrics.IncrementUnresolved(token)
			if _, seen := unresolved[token]; seen {
				return
			}
			unresolved[token] = struct{}{}
			log.Warn(config.MsgUnknownToken, slog.String(config.LogKeyToken, token))
		},
	}

	resolved := resolver.Sections(sections)

	events := resolver.Strings(yearDoc.YearEvents)
	if events == nil {
		events = []string{}
	}

	r := Report{
		BirthDate:              birthDate,
		BirthYear:              bd.Year,
		BirthMonth:             bd.Month,
		BirthDay:               bd.Day,
		Generation:             gen.Name,
		GenerationID:           gen.ID,
		GenerationSpan:         gen.Span,
		BirthdayRank:           birthdayDoc.Rank,
		BirthdayPercentile:     birthdayDoc.Percentile,
		Celebrities:            FlattenCelebrities(birthdayDoc.CelebritiesCategorized),
		CelebritiesCategorized: copyCategorized(birthdayDoc.CelebritiesCategorized),
		Sections:               resolved,
		YearEvents:             events,
		Placeholders:           tokens,
	}
	if len(unresolved) > 0 {
		r.UnresolvedTokens = sortedKeys(unresolved)
	}

	a.Metrics.ObserveAssemble(OutcomeOK, start)
	log.Info(config.MsgAssembleDone,
		slog.Int(config.LogKeySections, len(resolved)),
		slog.Int64(config.LogKeyDuration, time.Since(start).Milliseconds()),
	)
	return r, nil
}

func (a *Assembler) now() time.Time {
	if a.Clock == nil {
		return dates.RealClock{}.Now()
	}
	return a.Clock.Now()
}

// loadFailed turns any loader failure into a ContentNotFoundError, so the
// caller never sees a partial report. Cancellation of the caller's own
// context passes through unchanged.
func loadFailed(ctx context.Context, kind content.Kind, key string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return err
	}
	return &ContentNotFoundError{Kind: kind, Key: key, Err: err}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
