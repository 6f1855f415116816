// distsample draws and checks samples of uniform integer distributions.
package main

import (
	"github.com/GrahamDennis/distributions/distsample/cmd"
)

func main() {
	cmd.Execute()
}
