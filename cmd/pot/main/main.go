package main

import (
	"fmt"
	"os"

	"github.com/mgolubev/pot/cmd/pot"
	"github.com/mgolubev/pot/pkg/ui/styles"
)

func main() {
	rootCmd := pot.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		errorStyle := styles.GetStyle("Error")
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
