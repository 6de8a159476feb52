package marketd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/tomb.v2"

	"github.com/seradyn/gavel/ledger"
)

func TestExpiryMonitor_Poll(t *testing.T) {
	h := newHarness(t)
	l := h.list(t)
	addr := l.Address(h.m.Address())

	tmb := new(tomb.Tomb)
	monitor := NewExpiryMonitor(tmb, h.node.engine, h.ml, time.Second)
	sub := monitor.Subscribe()

	require.NoError(t, monitor.Poll())
	require.EqualValues(t, 1000, monitor.LastSlot())
	select {
	case <-sub:
		t.Fatal("no listing should have expired yet")
	default:
	}

	h.ml.SetSlot(l.EndTime + 1)
	require.NoError(t, monitor.Poll())

	select {
	case note := <-sub:
		require.Equal(t, l.EndTime+1, note.Slot)
		require.Equal(t, []ledger.Identity{addr}, note.Listings)
	default:
		t.Fatal("expected an expiry notification")
	}

	// Settled listings drop out of the expired set.
	_, err := h.node.Settle(addr)
	require.NoError(t, err)
	require.NoError(t, monitor.Poll())
	select {
	case note, ok := <-sub:
		if ok {
			t.Fatalf("unexpected notification: %+v", note)
		}
	default:
	}
}

func TestExpiryMonitor_PollAfterShutdown(t *testing.T) {
	h := newHarness(t)

	tmb := new(tomb.Tomb)
	monitor := NewExpiryMonitor(tmb, h.node.engine, h.ml, time.Second)
	require.NoError(t, monitor.Start())

	tmb.Kill(nil)
	require.NoError(t, tmb.Wait())

	require.ErrorIs(t, monitor.Poll(), ErrMonitorClosed)
}
