package gene

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestBuilder(client Entrez) (*Builder, *observer.ObservedLogs, *[]time.Duration) {
	core, logs := observer.New(zapcore.DebugLevel)
	var slept []time.Duration

	b := NewBuilder(NewResolver(client))
	b.SetLogger(zap.New(core))
	b.sleep = func(d time.Duration) { slept = append(slept, d) }
	return b, logs, &slept
}

func TestBuild_OrderAndSkips(t *testing.T) {
	b, _, _ := newTestBuilder(newFakeEntrez())

	symbols := []string{"TP53", "NOTAGENE123", "BRCA1", "GHOST", "MIR4435-2HG"}
	records := b.Build(context.Background(), symbols)

	require.Len(t, records, 3)
	assert.Equal(t, "TP53", records[0].Symbol)
	assert.Equal(t, "BRCA1", records[1].Symbol)
	assert.Equal(t, "MIR4435-2HG", records[2].Symbol)
	assert.LessOrEqual(t, len(records), len(symbols))

	assert.Equal(t, Stats{Attempted: 5, Resolved: 3, NotFound: 2}, b.Stats())
}

func TestBuild_DelayAfterEverySymbol(t *testing.T) {
	f := newFakeEntrez()
	b, _, slept := newTestBuilder(f)
	b.SetDelay(1500 * time.Millisecond)

	b.Build(context.Background(), []string{"BRCA1", "NOTAGENE123", "TP53"})

	assert.Equal(t, []time.Duration{1500 * time.Millisecond, 1500 * time.Millisecond, 1500 * time.Millisecond}, *slept)
}

func TestBuild_DefaultDelay(t *testing.T) {
	b, _, slept := newTestBuilder(newFakeEntrez())

	b.Build(context.Background(), []string{"BRCA1"})
	assert.Equal(t, []time.Duration{DefaultDelay}, *slept)
}

func TestBuild_ZeroDelay(t *testing.T) {
	b, _, slept := newTestBuilder(newFakeEntrez())
	b.SetDelay(0)

	b.Build(context.Background(), []string{"BRCA1", "TP53"})
	assert.Empty(t, *slept)
}

func TestBuild_RemoteFailureLoggedAndSkipped(t *testing.T) {
	f := newFakeEntrez()
	f.failOn = "Link"
	b, logs, slept := newTestBuilder(f)

	records := b.Build(context.Background(), []string{"BRCA1", "NOTAGENE123"})
	assert.Empty(t, records)
	assert.Len(t, *slept, 2)
	assert.Equal(t, Stats{Attempted: 2, NotFound: 1, Failed: 1}, b.Stats())

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warnings, 1)
	fields := warnings[0].ContextMap()
	assert.Equal(t, "BRCA1", fields["symbol"])
	assert.Equal(t, "remote_error", fields["reason"])
	assert.Contains(t, fields["error"], "HTTP error 502")
}

func TestBuild_ProgressLines(t *testing.T) {
	b, logs, _ := newTestBuilder(newFakeEntrez())

	b.Build(context.Background(), []string{"BRCA1", "NOTAGENE123"})

	assert.Equal(t, 1, logs.FilterMessage("Fetching data for BRCA1...").Len())
	assert.Equal(t, 1, logs.FilterMessage("Fetching data for NOTAGENE123...").Len())

	skips := logs.FilterMessage("no record for gene").All()
	require.Len(t, skips, 1)
	assert.Equal(t, "NOTAGENE123", skips[0].ContextMap()["symbol"])
	assert.Equal(t, "not_found", skips[0].ContextMap()["reason"])
}

func TestBuild_Empty(t *testing.T) {
	b, _, slept := newTestBuilder(newFakeEntrez())

	records := b.Build(context.Background(), nil)
	assert.Empty(t, records)
	assert.Empty(t, *slept)
	assert.Equal(t, Stats{}, b.Stats())
}
