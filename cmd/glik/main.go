package main

import (
	"os"

	"github.com/rivalz-glik/glik-go/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
