package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"hotelres/internal"
)

func main() {
	cfg, err := internal.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	keyFile := flag.String("out", cfg.SessionKey, "Session key file to write")
	flag.Parse()
	os.Exit(run(*keyFile, os.Stdout, os.Stderr))
}

func run(keyFile string, out, errOut io.Writer) int {
	if err := internal.WriteKeyFile(keyFile); err != nil {
		if errors.Is(err, os.ErrExist) {
			fmt.Fprintf(errOut, "Error: %s already exists. Refusing to overwrite.\n", keyFile)
		} else {
			fmt.Fprintf(errOut, "Error writing %s: %v\n", keyFile, err)
		}
		return 1
	}
	fmt.Fprintf(out, "Session key written to %s\n", keyFile)
	return 0
}
