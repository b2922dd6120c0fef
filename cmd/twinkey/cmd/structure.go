/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ssargent/twinkeys/pkg/api"
	"github.com/ssargent/twinkeys/pkg/keys"
	"github.com/ssargent/twinkeys/pkg/structure"
)

func newStructureCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "structure <facility-urn> <model>...",
		Short: "Assemble and print a facility structure",
		Long: `Assemble the level, room and asset tree of a facility from the catalog.
Assets are read from each listed model; the rooms and levels they reference
are followed across models.

Examples:
  twinkey structure urn:adsk.dtt:facility1 oKGio6SlpqeoqaqrrK2urw
  twinkey structure --save urn:adsk.dtt:facility1 oKGio6SlpqeoqaqrrK2urw`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			save, _ := cmd.Flags().GetBool("save")

			models := make([]string, 0, len(args)-1)
			for _, m := range args[1:] {
				models = append(models, keys.ModelURN(m))
			}

			return withCatalog(cmd, func(store api.ElementStore) error {
				built, err := structure.Load(cmd.Context(), store, args[0], models)
				if err != nil {
					return err
				}

				var id string
				if save {
					if id, err = store.SaveSnapshot(built.Snapshot()); err != nil {
						return err
					}
				}

				if wantJSON(cmd) {
					return printJSON(cmd, api.StructureResponse{
						SnapshotID: id,
						Tree:       built.Tree(),
						Snapshot:   built.Snapshot(),
					})
				}
				if err := built.WriteTree(cmd.OutOrStdout()); err != nil {
					return err
				}
				if id != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Saved snapshot %s\n", id)
				}
				return nil
			})
		},
	}
	c.Flags().Bool("save", false, "Save the structure as a snapshot")
	return c
}

func newStreamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "streams <model>",
		Short: "List the streams of a model with their host elements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd, func(store api.ElementStore) error {
				elements, err := store.ListElements(args[0])
				if err != nil {
					return err
				}
				var streams []structure.Element
				for _, e := range elements {
					if e.Flags == keys.ElementFlagsStream {
						streams = append(streams, e)
					}
				}

				hosted, err := structure.ResolveHosts(cmd.Context(), store, streams)
				if err != nil {
					return err
				}
				if wantJSON(cmd) {
					if hosted == nil {
						hosted = []structure.HostedStream{}
					}
					return printJSON(cmd, hosted)
				}
				for _, h := range hosted {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", displayName(h.Stream), displayName(h.Host))
				}
				return nil
			})
		},
	}
}

func displayName(e structure.Element) string {
	if e.Name != "" {
		return e.Name
	}
	return e.Key
}

func newSnapshotsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "snapshots",
		Short: "Inspect saved structure snapshots",
	}

	c.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved snapshots, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd, func(store api.ElementStore) error {
				infos, err := store.ListSnapshots()
				if err != nil {
					return err
				}
				if wantJSON(cmd) {
					return printJSON(cmd, infos)
				}
				for _, info := range infos {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\tlevels=%d rooms=%d assets=%d\n",
						info.ID, info.CreatedAt.Format(time.RFC3339), info.FacilityURN,
						info.Levels, info.Rooms, info.Assets)
				}
				return nil
			})
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Print the structure tree of a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd, func(store api.ElementStore) error {
				snap, err := store.LoadSnapshot(args[0])
				if err != nil {
					return err
				}
				if wantJSON(cmd) {
					return printJSON(cmd, snap)
				}
				return structure.FromSnapshot(snap).WriteTree(cmd.OutOrStdout())
			})
		},
	})
	return c
}
