package marketd

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/tomb.v2"

	"github.com/seradyn/gavel/ledger"
	"github.com/seradyn/gavel/log"
	"github.com/seradyn/gavel/market"
	"github.com/seradyn/gavel/marketdb"
)

var ErrMonitorClosed = errors.New("expiry monitor is closed")

var emLogger = log.ModuleLogger("expiry-monitor")

// ExpiryNotification reports active listings whose deadline has
// passed. Nothing is settled on the subscriber's behalf; settlement
// stays an explicit instruction.
type ExpiryNotification struct {
	Slot     ledger.Slot
	Listings []ledger.Identity
}

// ExpiryMonitor polls the clock and flags active listings past their
// deadline so operators and bots can call settle.
type ExpiryMonitor struct {
	tmb      *tomb.Tomb
	engine   *marketdb.Engine
	clock    market.Clock
	interval time.Duration
	subs     []chan *ExpiryNotification
	lastSlot ledger.Slot
	mtx      sync.RWMutex
	dead     bool
}

func NewExpiryMonitor(tmb *tomb.Tomb, engine *marketdb.Engine, clock market.Clock, interval time.Duration) *ExpiryMonitor {
	return &ExpiryMonitor{
		tmb:      tmb,
		engine:   engine,
		clock:    clock,
		interval: interval,
	}
}

func (m *ExpiryMonitor) Start() error {
	m.tmb.Go(func() error {
		if err := m.poll(); err != nil {
			emLogger.Error("error polling", "err", err)
			return err
		}

		tick := time.NewTicker(m.interval)
		defer tick.Stop()
		for {
			select {
			case <-tick.C:
				if err := m.poll(); err != nil {
					emLogger.Error("error polling", "err", err)
				}
			case <-m.tmb.Dying():
				m.mtx.Lock()
				m.dead = true
				for _, sub := range m.subs {
					close(sub)
				}
				m.mtx.Unlock()
				return nil
			}
		}
	})

	return nil
}

func (m *ExpiryMonitor) LastSlot() ledger.Slot {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	return m.lastSlot
}

func (m *ExpiryMonitor) Subscribe() <-chan *ExpiryNotification {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if m.dead {
		panic("expiry monitor is closed")
	}

	ch := make(chan *ExpiryNotification, 1)
	m.subs = append(m.subs, ch)
	return ch
}

func (m *ExpiryMonitor) Poll() error {
	return m.poll()
}

func (m *ExpiryMonitor) poll() error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if m.dead {
		return errors.WithStack(ErrMonitorClosed)
	}

	slot, err := m.clock.Slot()
	if err != nil {
		return err
	}
	m.lastSlot = slot

	var expired []ledger.Identity
	err = m.engine.Transaction(func(tx marketdb.Transactor) error {
		rows, err := marketdb.GetExpiredActiveListings(tx, slot)
		if err != nil {
			return err
		}
		for _, row := range rows {
			expired = append(expired, row.Listing.Address(row.Marketplace))
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(expired) == 0 {
		return nil
	}

	emLogger.Debug("found expired listings", "slot", slot, "count", len(expired))
	note := &ExpiryNotification{
		Slot:     slot,
		Listings: expired,
	}
	for _, sub := range m.subs {
		select {
		case sub <- note:
		default:
		}
	}
	return nil
}
