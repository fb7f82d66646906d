package report_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-lifestory/internal/content"
	"github.com/tartampluch/go-lifestory/internal/dates"
	"github.com/tartampluch/go-lifestory/internal/generation"
	"github.com/tartampluch/go-lifestory/internal/locale"
	"github.com/tartampluch/go-lifestory/internal/placeholder"
	"github.com/tartampluch/go-lifestory/internal/report"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockLoaders simulates the three content stores using `testify/mock`.
type MockLoaders struct {
	mock.Mock
}

func (m *MockLoaders) LoadYear(ctx context.Context, year int) (content.YearDocument, error) {
	args := m.Called(ctx, year)
	return args.Get(0).(content.YearDocument), args.Error(1)
}

func (m *MockLoaders) LoadGeneration(ctx context.Context, id string) (content.GenerationDocument, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(content.GenerationDocument), args.Error(1)
}

func (m *MockLoaders) LoadBirthday(ctx context.Context, month, day int) (content.BirthdayDocument, error) {
	args := m.Called(ctx, month, day)
	return args.Get(0).(content.BirthdayDocument), args.Error(1)
}

var fixedNow = dates.FixedClock(time.Date(2024, 6, 9, 12, 0, 0, 0, time.UTC))

func newAssembler(l report.Loaders, metrics *report.Metrics) *report.Assembler {
	return report.NewAssembler(l, fixedNow, placeholder.Builder{}, metrics)
}

func birthday1988() content.BirthdayDocument {
	return content.BirthdayDocument{
		Rank:       177,
		Percentile: 48,
		CelebritiesCategorized: map[string][]content.Celebrity{
			"actors": {{Name: "X", Year: 1995, Description: ""}},
		},
	}
}

// -----------------------------------------------------------------------------
// Test Cases
// -----------------------------------------------------------------------------

func TestAssemble_EndToEnd(t *testing.T) {
	loaders := new(MockLoaders)
	loaders.On("LoadYear", mock.Anything, 1988).Return(content.YearDocument{
		Sections: map[string]content.Section{
			"childhood": {"html": "Born {{BIRTH_YEAR}}"},
		},
		YearEvents: []string{"At {{AGE_AT_911}} you saw 9/11"},
	}, nil)
	loaders.On("LoadGeneration", mock.Anything, "millennial").Return(content.GenerationDocument{
		Sections: map[string]content.Section{
			"comparison": {"html": "Millennials born {{BIRTH_YEAR}}"},
		},
	}, nil)
	loaders.On("LoadBirthday", mock.Anything, 6, 9).Return(birthday1988(), nil)

	bd, err := dates.NewBirthDate(1988, 6, 9)
	require.NoError(t, err)

	r, err := newAssembler(loaders, nil).Assemble(context.Background(), bd)
	require.NoError(t, err)
	loaders.AssertExpectations(t)

	assert.Equal(t, "June 9, 1988", r.BirthDate)
	assert.Equal(t, 1988, r.BirthYear)
	assert.Equal(t, 6, r.BirthMonth)
	assert.Equal(t, 9, r.BirthDay)
	assert.Equal(t, "Millennial", r.Generation)
	assert.Equal(t, "millennial", r.GenerationID)
	assert.Equal(t, "1981–1996", r.GenerationSpan)
	assert.Equal(t, 177, r.BirthdayRank)
	assert.Equal(t, 48, r.BirthdayPercentile)
	assert.Equal(t, "Born 1988", r.Sections["childhood"].HTML())
	assert.Equal(t, "Millennials born 1988", r.Sections["comparison"].HTML())
	assert.Equal(t, []string{"At 13 you saw 9/11"}, r.YearEvents)
	assert.Equal(t, []content.Celebrity{{Name: "X", Year: 1995}}, r.Celebrities)
	assert.Equal(t, birthday1988().CelebritiesCategorized, r.CelebritiesCategorized)
	assert.Equal(t, 36, r.Placeholders["CURRENT_AGE"])
	assert.Equal(t, "3,900,000", r.Placeholders["COHORT_SIZE"])
	assert.Empty(t, r.UnresolvedTokens)
}

func TestAssemble_FrenchBirthDate(t *testing.T) {
	loaders := new(MockLoaders)
	loaders.On("LoadYear", mock.Anything, 1988).Return(content.YearDocument{
		Sections: map[string]content.Section{"childhood": {"html": "Né en {{BIRTH_MONTH}}, le {{BIRTH_DATE}}"}},
	}, nil)
	loaders.On("LoadGeneration", mock.Anything, "millennial").Return(content.GenerationDocument{}, nil)
	loaders.On("LoadBirthday", mock.Anything, 6, 9).Return(birthday1988(), nil)

	bd, err := dates.NewBirthDate(1988, 6, 9)
	require.NoError(t, err)

	a := report.NewAssembler(loaders, fixedNow, locale.NewCatalog("fr").Builder(), nil)
	r, err := a.Assemble(context.Background(), bd)
	require.NoError(t, err)

	assert.Equal(t, "9 juin 1988", r.BirthDate)
	assert.Equal(t, "Né en juin, le 9 juin 1988", r.Sections["childhood"].HTML())
}

func TestAssemble_YearOverridesGeneration(t *testing.T) {
	loaders := new(MockLoaders)
	loaders.On("LoadYear", mock.Anything, 1970).Return(content.YearDocument{
		Sections: map[string]content.Section{"comparison": {"html": "B"}},
	}, nil)
	loaders.On("LoadGeneration", mock.Anything, "genx").Return(content.GenerationDocument{
		Sections: map[string]content.Section{
			"comparison": {"html": "A"},
			"music":      {"html": "generation only"},
		},
	}, nil)
	loaders.On("LoadBirthday", mock.Anything, 1, 15).Return(content.BirthdayDocument{Rank: 300}, nil)

	bd, err := dates.NewBirthDate(1970, 1, 15)
	require.NoError(t, err)

	r, err := newAssembler(loaders, nil).Assemble(context.Background(), bd)
	require.NoError(t, err)

	assert.Equal(t, "B", r.Sections["comparison"].HTML())
	assert.Equal(t, "generation only", r.Sections["music"].HTML())
	assert.Equal(t, []content.Celebrity{}, r.Celebrities)
	assert.Equal(t, []string{}, r.YearEvents)
}

func TestAssemble_CohortOverride(t *testing.T) {
	cohort := int64(4_100_000)
	loaders := new(MockLoaders)
	loaders.On("LoadYear", mock.Anything, 2000).Return(content.YearDocument{
		Sections:        map[string]content.Section{"s": {"html": "{{COHORT_SIZE}} babies"}},
		BirthYearCohort: &cohort,
	}, nil)
	loaders.On("LoadGeneration", mock.Anything, "genz").Return(content.GenerationDocument{}, nil)
	loaders.On("LoadBirthday", mock.Anything, 2, 29).Return(content.BirthdayDocument{Rank: 366}, nil)

	bd, err := dates.NewBirthDate(2000, 2, 29)
	require.NoError(t, err)

	r, err := newAssembler(loaders, nil).Assemble(context.Background(), bd)
	require.NoError(t, err)
	assert.Equal(t, "4,100,000 babies", r.Sections["s"].HTML())
}

func TestAssemble_UnresolvedTokens(t *testing.T) {
	loaders := new(MockLoaders)
	loaders.On("LoadYear", mock.Anything, 1990).Return(content.YearDocument{
		Sections: map[string]content.Section{
			"a": {"html": "{{NOPE}} {{BIRTH_YEAR}} {{NOPE}}"},
			"b": {"html": "{{ALSO_NOPE}}"},
		},
	}, nil)
	loaders.On("LoadGeneration", mock.Anything, "millennial").Return(content.GenerationDocument{}, nil)
	loaders.On("LoadBirthday", mock.Anything, 3, 1).Return(content.BirthdayDocument{}, nil)

	reg := prometheus.NewRegistry()
	metrics := report.NewMetrics(reg)

	bd, err := dates.NewBirthDate(1990, 3, 1)
	require.NoError(t, err)

	r, err := newAssembler(loaders, metrics).Assemble(context.Background(), bd)
	require.NoError(t, err)

	assert.Equal(t, "{{NOPE}} 1990 {{NOPE}}", r.Sections["a"].HTML())
	assert.Equal(t, []string{"ALSO_NOPE", "NOPE"}, r.UnresolvedTokens)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.UnresolvedTokens.WithLabelValues("NOPE")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Assembled.WithLabelValues(report.OutcomeOK)), 0)
}

func TestAssemble_DoesNotMutateDocuments(t *testing.T) {
	yearDoc := content.YearDocument{
		Sections:   map[string]content.Section{"childhood": {"html": "Born {{BIRTH_YEAR}}"}},
		YearEvents: []string{"{{BIRTH_YEAR}}"},
	}
	loaders := new(MockLoaders)
	loaders.On("LoadYear", mock.Anything, 1988).Return(yearDoc, nil)
	loaders.On("LoadGeneration", mock.Anything, "millennial").Return(content.GenerationDocument{}, nil)
	loaders.On("LoadBirthday", mock.Anything, 6, 9).Return(birthday1988(), nil)

	bd, err := dates.NewBirthDate(1988, 6, 9)
	require.NoError(t, err)

	_, err = newAssembler(loaders, nil).Assemble(context.Background(), bd)
	require.NoError(t, err)

	assert.Equal(t, "Born {{BIRTH_YEAR}}", yearDoc.Sections["childhood"].HTML())
	assert.Equal(t, []string{"{{BIRTH_YEAR}}"}, yearDoc.YearEvents)
}

func TestAssemble_OutOfRange(t *testing.T) {
	loaders := new(MockLoaders)
	reg := prometheus.NewRegistry()
	metrics := report.NewMetrics(reg)

	_, err := newAssembler(loaders, metrics).Assemble(context.Background(), dates.BirthDate{Year: 1940, Month: 1, Day: 1})

	var oor *generation.OutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, 1940, oor.Year)
	loaders.AssertNotCalled(t, "LoadYear", mock.Anything, mock.Anything)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Assembled.WithLabelValues(report.OutcomeOutOfRange)), 0)
}

// cancelAwareLoaders fails the birthday lookup and blocks the other two
// loads until their context is cancelled.
type cancelAwareLoaders struct {
	cancelled chan string
}

func (l cancelAwareLoaders) LoadYear(ctx context.Context, _ int) (content.YearDocument, error) {
	<-ctx.Done()
	l.cancelled <- "year"
	return content.YearDocument{}, ctx.Err()
}

func (l cancelAwareLoaders) LoadGeneration(ctx context.Context, _ string) (content.GenerationDocument, error) {
	<-ctx.Done()
	l.cancelled <- "generation"
	return content.GenerationDocument{}, ctx.Err()
}

func (l cancelAwareLoaders) LoadBirthday(_ context.Context, month, day int) (content.BirthdayDocument, error) {
	return content.BirthdayDocument{}, fmt.Errorf("%w: birthdays/%02d-%02d", content.ErrNotFound, month, day)
}

func TestAssemble_MissingBirthdayFailsFast(t *testing.T) {
	loaders := cancelAwareLoaders{cancelled: make(chan string, 2)}
	reg := prometheus.NewRegistry()
	metrics := report.NewMetrics(reg)

	// February 30 never passes date validation; the literal exercises the
	// loader path on its own.
	bd := dates.BirthDate{Year: 1990, Month: 2, Day: 30}

	_, err := newAssembler(loaders, metrics).Assemble(context.Background(), bd)

	var nf *report.ContentNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, content.KindBirthday, nf.Kind)
	assert.Equal(t, "02-30", nf.Key)
	assert.ErrorIs(t, err, content.ErrNotFound)
	assert.ElementsMatch(t, []string{"year", "generation"}, []string{<-loaders.cancelled, <-loaders.cancelled})
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Assembled.WithLabelValues(report.OutcomeNotFound)), 0)
}

func TestAssemble_MissingYearAndGeneration(t *testing.T) {
	tests := []struct {
		name     string
		yearErr  error
		genErr   error
		wantKind content.Kind
		wantKey  string
	}{
		{"year missing", content.ErrNotFound, nil, content.KindYear, "1975"},
		{"generation missing", nil, content.ErrNotFound, content.KindGeneration, "genx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loaders := new(MockLoaders)
			loaders.On("LoadYear", mock.Anything, 1975).Return(content.YearDocument{}, tt.yearErr)
			loaders.On("LoadGeneration", mock.Anything, "genx").Return(content.GenerationDocument{}, tt.genErr)
			loaders.On("LoadBirthday", mock.Anything, 5, 5).Return(content.BirthdayDocument{}, nil)

			bd, err := dates.NewBirthDate(1975, 5, 5)
			require.NoError(t, err)

			_, err = newAssembler(loaders, nil).Assemble(context.Background(), bd)

			var nf *report.ContentNotFoundError
			require.ErrorAs(t, err, &nf)
			assert.Equal(t, tt.wantKind, nf.Kind)
			assert.Equal(t, tt.wantKey, nf.Key)
			assert.Contains(t, nf.Error(), "report unavailable")
		})
	}
}

func TestAssemble_StoreErrorIsContentNotFound(t *testing.T) {
	storeErr := errors.New("server returned unexpected status: 503")

	loaders := new(MockLoaders)
	loaders.On("LoadYear", mock.Anything, 1960).Return(content.YearDocument{}, storeErr)
	loaders.On("LoadGeneration", mock.Anything, "boomer").Return(content.GenerationDocument{}, nil)
	loaders.On("LoadBirthday", mock.Anything, 7, 4).Return(content.BirthdayDocument{}, nil)

	bd, err := dates.NewBirthDate(1960, 7, 4)
	require.NoError(t, err)

	r, err := newAssembler(loaders, nil).Assemble(context.Background(), bd)

	var nf *report.ContentNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, content.KindYear, nf.Kind)
	assert.Equal(t, "1960", nf.Key)
	assert.ErrorIs(t, err, storeErr)
	assert.Contains(t, err.Error(), "report unavailable")
	assert.Empty(t, r.Sections, "no partial report")
}

func TestAssemble_CallerCancellationPassesThrough(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loaders := new(MockLoaders)
	loaders.On("LoadYear", mock.Anything, 1960).Return(content.YearDocument{}, context.Canceled)
	loaders.On("LoadGeneration", mock.Anything, "boomer").Return(content.GenerationDocument{}, context.Canceled)
	loaders.On("LoadBirthday", mock.Anything, 7, 4).Return(content.BirthdayDocument{}, context.Canceled)

	bd, err := dates.NewBirthDate(1960, 7, 4)
	require.NoError(t, err)

	_, err = newAssembler(loaders, nil).Assemble(ctx, bd)

	assert.ErrorIs(t, err, context.Canceled)
	var nf *report.ContentNotFoundError
	assert.False(t, errors.As(err, &nf))
}
