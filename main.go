// Command tracker records daily habit check-ins.
package main

import (
	"github.com/manav03panchal/dailytracker/cmd"
	"github.com/manav03panchal/dailytracker/internal/logging"
)

func main() {
	defer logging.RecoverPanic("main")

	if err := cmd.Execute(); err != nil {
		cmd.Die(err)
	}
}
