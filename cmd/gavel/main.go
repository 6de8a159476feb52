package main

import (
	"github.com/seradyn/gavel/cmd/gavel/cmd"
)

func main() {
	cmd.Execute()
}
