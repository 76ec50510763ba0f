package grandprix

import (
	"errors"
	"sync/atomic"
	"testing"
)

// countingPlugin tallies every callback it receives. Counts are atomic
// because MultiPlugin fans callbacks out across goroutines.
type countingPlugin struct {
	calls int32
	err   error
}

func (cp *countingPlugin) count() error {
	atomic.AddInt32(&cp.calls, 1)

	return cp.err
}

func (cp *countingPlugin) OnRaceStart(_ RaceInfo) error            { return cp.count() }
func (cp *countingPlugin) OnLapCompleted(_ CarNumber, _ Lap) error { return cp.count() }
func (cp *countingPlugin) OnPitStop(_ CarNumber, _ int) error      { return cp.count() }
func (cp *countingPlugin) OnIncident(_ Incident, _ int) error      { return cp.count() }
func (cp *countingPlugin) OnRaceEnd(_ []*LeaderboardLine) error    { return cp.count() }

func TestMultiPluginFansOut(t *testing.T) {
	first := &countingPlugin{}
	second := &countingPlugin{}

	plugin := MultiPlugin(first, second)

	callbacks := []func() error{
		func() error { return plugin.OnRaceStart(RaceInfo{}) },
		func() error { return plugin.OnLapCompleted(1, Lap{}) },
		func() error { return plugin.OnPitStop(1, 1) },
		func() error { return plugin.OnIncident(Incident{}, 1) },
		func() error { return plugin.OnRaceEnd(nil) },
	}

	for i, callback := range callbacks {
		if err := callback(); err != nil {
			t.Logf("Expected no error from callback %d, got: %s", i, err)
			t.Fail()
		}
	}

	if atomic.LoadInt32(&first.calls) != 5 || atomic.LoadInt32(&second.calls) != 5 {
		t.Logf("Expected both plugins to see 5 callbacks, got: %d and %d", first.calls, second.calls)
		t.Fail()
	}
}

func TestMultiPluginReportsErrors(t *testing.T) {
	pluginErr := errors.New("plugin exploded")

	healthy := &countingPlugin{}
	broken := &countingPlugin{err: pluginErr}

	plugin := MultiPlugin(healthy, broken)

	if err := plugin.OnPitStop(1, 1); !errors.Is(err, pluginErr) {
		t.Logf("Expected the plugin error to surface, got: %v", err)
		t.Fail()
	}

	if atomic.LoadInt32(&healthy.calls) != 1 {
		t.Logf("Expected the healthy plugin to still be called, got: %d calls", healthy.calls)
		t.Fail()
	}
}
