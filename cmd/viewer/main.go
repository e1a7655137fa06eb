// Package main provides the viewer CLI: an HTTP service and terminal
// commands for browsing and annotating conversation transcripts.
package main

import "os"

func main() {
	os.Exit(NewApp().Run(os.Args))
}
