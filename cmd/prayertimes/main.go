package main

import (
	"prayertimes/cmd/prayertimes/commands"
	"prayertimes/cmd/prayertimes/utils"
)

func main() {
	commands.ExecuteContext(utils.SignalContext())
}
