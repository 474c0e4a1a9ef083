// This program casts votes against a running chain node.
package main

import (
	"github.com/votechain/votechain/app/tooling/ballot/cmd"
)

func main() {
	cmd.Execute()
}
