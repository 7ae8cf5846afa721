package gene

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// DefaultDelay is the courtesy pause after each symbol.
const DefaultDelay = time.Second

// Stats counts the outcome of a Build.
type Stats struct {
	Attempted int
	Resolved  int
	NotFound  int
	Failed    int
}

// Builder resolves a list of symbols one after another and collects the
// records that resolved.
type Builder struct {
	resolver *Resolver
	delay    time.Duration
	sleep    func(time.Duration)
	logger   *zap.Logger
	stats    Stats
}

// NewBuilder creates a builder around r with the default delay.
func NewBuilder(r *Resolver) *Builder {
	return &Builder{
		resolver: r,
		delay:    DefaultDelay,
		sleep:    time.Sleep,
		logger:   zap.NewNop(),
	}
}

// SetDelay sets the pause inserted after every symbol. Zero disables it.
func (b *Builder) SetDelay(d time.Duration) {
	b.delay = d
}

// SetLogger sets the logger for progress and diagnostic messages.
func (b *Builder) SetLogger(l *zap.Logger) {
	b.logger = l
}

// Stats returns the counters of the last Build.
func (b *Builder) Stats() Stats {
	return b.stats
}

// Build resolves symbols in order and returns the resolved records in the
// same order. Symbols that fail are logged and skipped. The delay is applied
// after every symbol, resolved or not.
func (b *Builder) Build(ctx context.Context, symbols []string) []Record {
	b.stats = Stats{}
	var records []Record

	for _, symbol := range symbols {
		b.logger.Info("Fetching data for "+symbol+"...", zap.String("symbol", symbol))
		b.stats.Attempted++

		rec, err := b.resolver.Resolve(ctx, symbol)
		switch {
		case err == nil:
			records = append(records, *rec)
			b.stats.Resolved++
		case errors.Is(err, ErrNotFound):
			b.stats.NotFound++
			b.logger.Info("no record for gene", zap.String("symbol", symbol), zap.Stringer("reason", reasonOf(err)))
		default:
			b.stats.Failed++
			b.logger.Warn("error fetching data for gene",
				zap.String("symbol", symbol),
				zap.Stringer("reason", reasonOf(err)),
				zap.Error(err))
		}

		if b.delay > 0 {
			b.sleep(b.delay)
		}
	}

	return records
}

func reasonOf(err error) Reason {
	var le *LookupError
	if errors.As(err, &le) {
		return le.Reason
	}
	return ReasonRemote
}
