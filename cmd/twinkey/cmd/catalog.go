/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/twinkeys/pkg/api"
	"github.com/ssargent/twinkeys/pkg/keys"
	"github.com/ssargent/twinkeys/pkg/structure"
)

// withCatalog opens the catalog for the duration of fn
func withCatalog(cmd *cobra.Command, fn func(store api.ElementStore) error) (err error) {
	c, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(c)
}

func printElement(cmd *cobra.Command, e structure.Element) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", e.Key, e.Flags, e.Name)
}

func newCatalogCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "catalog",
		Short: "Manage elements in the local catalog",
		Long: `Store, read, list and remove element records. Elements are kept per
model and keyed by their short key; full keys are accepted and normalized.
Keys starting with '-' go after '--':
  twinkey catalog get oKGio6SlpqeoqaqrrK2urw -- -AIDBAUGBwgJCgsMDQ4PEBESExQ`,
	}
	c.AddCommand(newCatalogPutCmd(), newCatalogGetCmd(), newCatalogListCmd(), newCatalogDeleteCmd())
	return c
}

func newCatalogPutCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "put <model> <key>",
		Short: "Store an element",
		Long: `Store an element under a model id or model URN.

Examples:
  twinkey catalog put oKGio6SlpqeoqaqrrK2urw AQIDBAUGBwgJCgsMDQ4PEBESExQ --name "Level 1" --flags level --elevation 3.5
  twinkey catalog put oKGio6SlpqeoqaqrrK2urw AgIDBAUGBwgJCgsMDQ4PEBESExQ --name Lobby --flags room --level AQIDBAUGBwgJCgsMDQ4PEBESExQ`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flagsName, _ := cmd.Flags().GetString("flags")
			flags, err := keys.ParseElementFlags(flagsName)
			if err != nil {
				return err
			}

			e := structure.Element{Key: args[1], Flags: flags}
			e.Name, _ = cmd.Flags().GetString("name")
			e.Level, _ = cmd.Flags().GetString("level")
			e.Rooms, _ = cmd.Flags().GetString("rooms")
			e.XRooms, _ = cmd.Flags().GetString("xrooms")
			e.Parent, _ = cmd.Flags().GetString("parent")
			if cmd.Flags().Changed("elevation") {
				elevation, _ := cmd.Flags().GetFloat64("elevation")
				e.Elevation = &elevation
			}

			return withCatalog(cmd, func(store api.ElementStore) error {
				stored, err := store.PutElement(args[0], e)
				if err != nil {
					return err
				}
				if wantJSON(cmd) {
					return printJSON(cmd, stored)
				}
				printElement(cmd, stored)
				return nil
			})
		},
	}
	c.Flags().String("name", "", "Element name")
	c.Flags().String("flags", "element", "Element flags: element, family-type, level, room, stream, system or a hex word")
	c.Flags().Float64("elevation", 0, "Elevation of a level")
	c.Flags().String("level", "", "Short or full key of the level hosting a room")
	c.Flags().String("rooms", "", "Packed short-key array of the rooms hosting an asset")
	c.Flags().String("xrooms", "", "Packed xref-key array of the rooms hosting an asset")
	c.Flags().String("parent", "", "Xref key of the element hosting a stream")
	return c
}

func newCatalogGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <model> <key>",
		Short: "Print an element",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd, func(store api.ElementStore) error {
				e, err := store.GetElement(args[0], args[1])
				if err != nil {
					return err
				}
				if wantJSON(cmd) {
					return printJSON(cmd, e)
				}
				printElement(cmd, e)
				return nil
			})
		},
	}
}

func newCatalogListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <model>",
		Short: "List the elements of a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd, func(store api.ElementStore) error {
				elements, err := store.ListElements(args[0])
				if err != nil {
					return err
				}
				if wantJSON(cmd) {
					if elements == nil {
						elements = []structure.Element{}
					}
					return printJSON(cmd, elements)
				}
				for _, e := range elements {
					printElement(cmd, e)
				}
				return nil
			})
		},
	}
}

func newCatalogDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <model> <key>",
		Short: "Remove an element",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd, func(store api.ElementStore) error {
				if err := store.DeleteElement(args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[1])
				return nil
			})
		},
	}
}
