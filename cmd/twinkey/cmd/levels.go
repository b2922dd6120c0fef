/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ssargent/twinkeys/pkg/api"
	"github.com/ssargent/twinkeys/pkg/structure"
)

// levelLine formats a level as name:elevation. A level without a recorded
// elevation prints its name and an empty elevation.
func levelLine(e structure.Element) string {
	elevation := ""
	if e.Elevation != nil {
		elevation = strconv.FormatFloat(*e.Elevation, 'f', -1, 64)
	}
	return e.Name + ":" + elevation
}

func newLevelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels <model>",
		Short: "List the levels of a model with their elevation",
		Long: `List the level elements of a model from the local catalog, one
name:elevation pair per line.

Examples:
  twinkey levels oKGio6SlpqeoqaqrrK2urw
  twinkey levels urn:adsk.dtm:oKGio6SlpqeoqaqrrK2urw --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd, func(store api.ElementStore) error {
				levels, err := store.Levels(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if wantJSON(cmd) {
					if levels == nil {
						levels = []structure.Element{}
					}
					return printJSON(cmd, levels)
				}
				for _, l := range levels {
					fmt.Fprintln(cmd.OutOrStdout(), levelLine(l))
				}
				return nil
			})
		},
	}
}

func newRoomsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "rooms <model>",
		Short: "List the rooms of a model",
		Long: `List the room elements of a model from the local catalog. With --level
only the rooms hosted by that level are listed; the level may be a short or
full key.

Examples:
  twinkey rooms oKGio6SlpqeoqaqrrK2urw
  twinkey rooms oKGio6SlpqeoqaqrrK2urw --level AQIDBAUGBwgJCgsMDQ4PEBESExQ`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, _ := cmd.Flags().GetString("level")
			return withCatalog(cmd, func(store api.ElementStore) error {
				rooms, err := store.Rooms(cmd.Context(), args[0], level)
				if err != nil {
					return err
				}
				if wantJSON(cmd) {
					if rooms == nil {
						rooms = []structure.Element{}
					}
					return printJSON(cmd, rooms)
				}
				for _, r := range rooms {
					printElement(cmd, r)
				}
				return nil
			})
		},
	}
	c.Flags().String("level", "", "Only list rooms hosted by this level")
	return c
}
