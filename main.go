package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		exitOnError(err)
	}
}

func exitOnError(err error) {
	statusf(false, "kmlsync: %v\n", err)
	os.Exit(1)
}
