package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/seradyn/gavel"
	"github.com/seradyn/gavel/keys"
	"github.com/seradyn/gavel/marketd/api"
)

func apiClient() (*api.Client, error) {
	var url string
	if serverURL == "" {
		url = fmt.Sprintf("http://localhost:%d", gavel.Config.Network.MarketPort)
	} else {
		url = serverURL
	}

	client := api.NewClient(url, apiKey)

	_, err := client.Status()
	if err != nil {
		if strings.Contains(err.Error(), "connection refused") {
			return nil, errors.New("connection to gavel refused - did you select the right network?")
		}
		return nil, err
	}

	return client, nil
}

func loadKeypair() (*keys.Keypair, error) {
	kp, err := keys.Load(keyFile)
	if err != nil {
		return nil, errors.Wrap(err, "error loading key file - run gavel keys create first")
	}
	return kp, nil
}

func printJSON(in interface{}) error {
	out, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(out))
	return nil
}
