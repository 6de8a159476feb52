package ledger

import (
	"time"

	"github.com/pkg/errors"
)

type Network struct {
	Name         string
	IdentityHRP  string
	MarketPort   int
	NodePort     int
	SlotDuration time.Duration
}

var NetworkMain = &Network{
	Name:         "main",
	IdentityHRP:  "gv",
	MarketPort:   22039,
	NodePort:     22037,
	SlotDuration: 400 * time.Millisecond,
}

var NetworkTest = &Network{
	Name:         "test",
	IdentityHRP:  "tgv",
	MarketPort:   23039,
	NodePort:     23037,
	SlotDuration: 400 * time.Millisecond,
}

var NetworkSim = &Network{
	Name:         "sim",
	IdentityHRP:  "sgv",
	MarketPort:   24039,
	NodePort:     24037,
	SlotDuration: 100 * time.Millisecond,
}

var currNetwork = NetworkMain

func SetCurrNetwork(n *Network) {
	currNetwork = n
}

func CurrNetwork() *Network {
	return currNetwork
}

func NetworkFromName(name string) (*Network, error) {
	switch name {
	case NetworkMain.Name:
		return NetworkMain, nil
	case NetworkTest.Name:
		return NetworkTest, nil
	case NetworkSim.Name:
		return NetworkSim, nil
	default:
		return nil, errors.New("invalid network")
	}
}
