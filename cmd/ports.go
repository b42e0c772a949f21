package cmd

import (
	"fmt"

	"github.com/jsphweid/cadence/midi"
	"github.com/spf13/cobra"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

func init() {
	rootCmd.AddCommand(portsCmd)
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "Lists available MIDI input ports",
	Long:  `Lists available MIDI input ports`,
	RunE: func(cmd *cobra.Command, args []string) error {
		names := midi.InPortNames()
		if len(names) == 0 {
			fmt.Println("no MIDI input ports detected")
			return nil
		}
		for i, name := range names {
			fmt.Printf("[%d] %v\n", i, name)
		}
		return nil
	},
}
