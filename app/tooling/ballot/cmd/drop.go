package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	dropVote string
	dropDir  string
)

// dropCmd represents the drop command. It feeds the node's filesystem
// probe instead of the HTTP API, for nodes running without one.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop an act file into a node's working directory",
	Run: func(cmd *cobra.Command, args []string) {
		path := filepath.Join(dropDir, "act")
		if err := os.WriteFile(path, []byte(dropVote), 0o644); err != nil {
			log.Fatal(err)
		}

		fmt.Printf("act file %s written with vote %q\n", path, dropVote)
	},
}

func init() {
	rootCmd.AddCommand(dropCmd)
	dropCmd.Flags().StringVarP(&dropVote, "vote", "v", "", "Single character ballot to cast.")
	dropCmd.Flags().StringVarP(&dropDir, "dir", "d", ".", "Working directory of the target node.")
	dropCmd.MarkFlagRequired("vote")
}
