// ABOUTME: Entry point for the stillwater CLI
// ABOUTME: Hands off to the cobra command tree in internal/cli
package main

import "github.com/stillwater-audio/stillwater-go/internal/cli"

func main() {
	cli.Execute()
}
