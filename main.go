package main

import (
	"github.com/groomlane/concierge/cmd"
)

func main() {
	cmd.Execute()
}
