package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"xss/cmd"
	"xss/internal/log"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Set up global panic handler first
	defer func() {
		if r := recover(); r != nil {
			log.Error("GLOBAL PANIC recovered", "error", r, "stack", string(debug.Stack()))
			log.Close()
			fmt.Fprintf(os.Stderr, "xss crashed. See the debug log for details.\n")
			os.Exit(1)
		}
	}()
	defer log.Close()

	cmd.SetVersionInfo(version, commit, date)
	cmd.Execute()
}
