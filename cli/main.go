// ABOUTME: Entry point for the wusuleable CLI
// ABOUTME: Account client for the wusuleable same-origin API

package main

import (
	"fmt"
	"os"

	"github.com/markalston/wusuleable-web/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
