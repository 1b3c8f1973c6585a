package extraction

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alexanderramin/onboarding/internal/domain"
	"github.com/alexanderramin/onboarding/internal/llm"
	"github.com/alexanderramin/onboarding/internal/pdftext"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds how many files are analysed at once.
const DefaultConcurrency = 2

// Pipeline runs text extraction and AI goal extraction over uploaded
// reports and merges the results into one collection.
type Pipeline struct {
	text        pdftext.Extractor
	ai          llm.Client
	concurrency int
	now         func() time.Time
	readFile    func(string) ([]byte, error)
	logger      *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithConcurrency sets the per-file fan-out limit.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithClock overrides the time source used for goal ids.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPipeline creates a Pipeline over the given collaborators.
func NewPipeline(text pdftext.Extractor, ai llm.Client, opts ...Option) *Pipeline {
	p := &Pipeline{
		text:        text,
		ai:          ai,
		concurrency: DefaultConcurrency,
		now:         time.Now,
		readFile:    os.ReadFile,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Extract analyses every file and returns the merged collection. A file
// that fails at any stage is logged and skipped. When no goal survives,
// the collection is built from the selected standards instead. Only
// context cancellation aborts the run.
func (p *Pipeline) Extract(ctx context.Context, files []domain.UploadedFile, standards []string) (*domain.GoalCollection, error) {
	results := make([][]RawGoal, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			raws, err := p.processFile(gctx, f, standards)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				p.logger.Warn("skipping file", zap.String("file", f.Name), zap.Error(err))
				return nil
			}
			results[i] = raws
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	n := NewNormalizer(p.now())
	collection := NewCollection()
	for i, raws := range results {
		var dropped int
		collection, dropped = n.Append(collection, raws)
		if dropped > 0 {
			p.logger.Warn("dropped goals with unknown pillar",
				zap.String("file", files[i].Name), zap.Int("dropped", dropped))
		}
	}

	if collection.TotalGoals() == 0 {
		p.logger.Info("no goals extracted, using standards", zap.Strings("standards", standards))
		return n.FromStandards(standards), nil
	}
	p.logger.Info("goals extracted",
		zap.Int("files", len(files)),
		zap.Int("goals", collection.TotalGoals()))
	return collection, nil
}

// FromStandards builds the collection implied by the selected standards.
func (p *Pipeline) FromStandards(standards []string) *domain.GoalCollection {
	return NewNormalizer(p.now()).FromStandards(standards)
}

func (p *Pipeline) processFile(ctx context.Context, f domain.UploadedFile, standards []string) ([]RawGoal, error) {
	data := f.Data
	if data == nil {
		var err error
		if data, err = p.readFile(f.Path); err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
	}

	text, err := p.text.Text(ctx, f.Name, data)
	if err != nil {
		return nil, fmt.Errorf("extracting text: %w", err)
	}
	p.logger.Debug("text extracted", zap.String("file", f.Name), zap.Int("chars", len(text)))

	resp, err := p.ai.Generate(ctx, BuildPrompt(text, standards))
	if err != nil {
		return nil, fmt.Errorf("extracting goals: %w", err)
	}

	raws, err := llm.ExtractJSONArray(resp.Text, ValidateRawGoal)
	if err != nil {
		return nil, fmt.Errorf("parsing goals: %w", err)
	}
	p.logger.Debug("goals parsed", zap.String("file", f.Name), zap.Int("goals", len(raws)))
	return raws, nil
}
