// Command playback runs the scripted assistant demo.
package main

import "github.com/berth-dev/playback/internal/cli"

func main() {
	cli.Execute()
}
