// Command cxi is the customer experience insight CLI.
package main

import "github.com/turtacn/CX-Insight/internal/interfaces/cli"

func main() {
	cli.Execute()
}
