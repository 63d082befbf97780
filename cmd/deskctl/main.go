// Command deskctl drives the translation desk from a terminal: sign in,
// browse clients, upload and translate materials, and follow live updates.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"os"

	"github.com/heartmarshall/translation-desk/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
