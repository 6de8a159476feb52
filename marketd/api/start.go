package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/tomb.v2"

	"github.com/seradyn/gavel/client"
	"github.com/seradyn/gavel/ledger"
	"github.com/seradyn/gavel/market"
	"github.com/seradyn/gavel/marketd"
	"github.com/seradyn/gavel/marketdb"
	"github.com/seradyn/gavel/memledger"
)

type backend interface {
	market.Clock
	market.TokenLedger
	market.AssetRegistry
}

// Start boots the market node. In standalone mode the external asset
// ledger is replaced with an in-memory one whose slot clock ticks at
// the network's slot duration, which is enough to exercise the full
// instruction surface locally.
func Start(tmb *tomb.Tomb, network *ledger.Network, prefix, apiKey, ledgerURL, ledgerAPIKey string, standalone bool) error {
	ledger.SetCurrNetwork(network)

	var be backend
	if standalone {
		ml := memledger.NewLedger()
		tmb.Go(func() error {
			tick := time.NewTicker(network.SlotDuration)
			defer tick.Stop()
			for {
				select {
				case <-tick.C:
					ml.AdvanceSlot(1)
				case <-tmb.Dying():
					return nil
				}
			}
		})
		be = ml
	} else {
		if ledgerURL == "" {
			ledgerURL = fmt.Sprintf("http://localhost:%d", network.NodePort)
		}
		be = client.NewLedgerClient(ledgerURL, ledgerAPIKey)
	}

	engine, err := marketdb.NewEngine(prefix)
	if err != nil {
		return err
	}

	if err := marketdb.MigrateDB(engine); err != nil {
		return err
	}

	node := marketd.NewNode(engine, be, be, be)
	monitor := marketd.NewExpiryMonitor(tmb, engine, be, 10*network.SlotDuration)
	if err := monitor.Start(); err != nil {
		return errors.Wrap(err, "error starting expiry monitor")
	}

	marketAPI := NewAPI(network, node, apiKey)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", network.MarketPort),
		Handler: marketAPI,
	}

	tmb.Go(func() error {
		apiLogger.Info("starting HTTP server", "port", network.MarketPort)
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(http.ErrServerClosed, err) {
			return errors.Wrap(err, "error starting HTTP server")
		}
		return nil
	})

	apiLogger.Info("started market node")
	<-tmb.Dying()
	srv.Close()
	apiLogger.Info("shut down market node")
	return tmb.Err()
}
