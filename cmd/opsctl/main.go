// Command opsctl is the operator command line.
package main

import (
	_ "time/tzdata"

	"github.com/heartmarshall/wellnote-backend/internal/cli"
)

func main() {
	cli.Execute()
}
