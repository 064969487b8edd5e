// Command kdict implements a dictionary of K-Pop artists.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "kdict:", err)
		os.Exit(1)
	}
}
