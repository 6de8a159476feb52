package gavel

import (
	"github.com/seradyn/gavel/ledger"
)

type config struct {
	Network *ledger.Network
	Prefix  string
}

var Config = new(config)
