package main

import (
	"tennisscout/cmd/tennisscout/commands"
	"tennisscout/internal/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
