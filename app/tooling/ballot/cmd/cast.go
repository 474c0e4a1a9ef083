package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var vote string

// castCmd represents the cast command.
var castCmd = &cobra.Command{
	Use:   "cast",
	Short: "Cast a vote through the node's public API",
	Run: func(cmd *cobra.Command, args []string) {
		cast()
	},
}

func cast() {
	payload := struct {
		Vote string `json:"vote"`
	}{
		Vote: vote,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Fatal(err)
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/act", nodeURL), "application/json", bytes.NewBuffer(data))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Fatalf("node refused vote: %s", resp.Status)
	}

	fmt.Printf("vote %q cast\n", vote)
}

func init() {
	rootCmd.AddCommand(castCmd)
	castCmd.Flags().StringVarP(&vote, "vote", "v", "", "Single character ballot to cast.")
	castCmd.MarkFlagRequired("vote")
}
