package main

import (
	"fmt"
	"os"

	"github.com/aplr/pillarbox/internal/cmd/client"
)

func main() {
	if err := client.NewRoot().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pillarbox:", err)
		os.Exit(1)
	}
}
