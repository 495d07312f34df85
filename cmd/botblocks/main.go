// Command botblocks drives RasPiRobot Board 3 and GoPiGo3 robots.
package main

import "github.com/teslashibe/go-botblocks/internal/cli"

func main() {
	cli.Execute()
}
