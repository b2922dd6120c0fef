/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/twinkeys/pkg/keys"
)

// printKey writes a single converted key, as {"key": ...} under --json
func printKey(cmd *cobra.Command, key string) error {
	if wantJSON(cmd) {
		return printJSON(cmd, map[string]string{"key": key})
	}
	fmt.Fprintln(cmd.OutOrStdout(), key)
	return nil
}

func newFullCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "full <short-key>",
		Short: "Convert a short key to a full key",
		Long: `Prefix a 20-byte short key with its flags word.

Examples:
  twinkey full AQIDBAUGBwgJCgsMDQ4PEBESExQ
  twinkey full --logical AQIDBAUGBwgJCgsMDQ4PEBESExQ
  twinkey full --logical -- -AIDBAUGBwgJCgsMDQ4PEBESExQ`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logical, _ := cmd.Flags().GetBool("logical")
			full, err := keys.ToFullKey(args[0], logical)
			if err != nil {
				return err
			}
			return printKey(cmd, full)
		},
	}
	c.Flags().Bool("logical", false, "Use the logical flags word")
	return c
}

func newShortCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "short <full-key>",
		Short: "Convert a full key to a short key",
		Long: `Strip the flags word from a 24-byte full key.

Examples:
  twinkey short AAAAAAECAwQFBgcICQoLDA0ODxAREhMU
  twinkey short -- -_____ECAwQFBgcICQoLDA0ODxAREhMU`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			short, err := keys.ToShortKey(args[0])
			if err != nil {
				return err
			}
			return printKey(cmd, short)
		},
	}
}

func newGUIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guid <key>",
		Short: "Render a 20-byte key as a GUID string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			guid, err := keys.ToGUIDString(args[0])
			if err != nil {
				return err
			}
			if wantJSON(cmd) {
				return printJSON(cmd, map[string]string{"guid": guid})
			}
			fmt.Fprintln(cmd.OutOrStdout(), guid)
			return nil
		},
	}
}

func newSysIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sysid <key>",
		Short: "Derive the system id of a key",
		Long: `Read the last four bytes of a key as a big-endian integer and print
its varint system id along with the integer value.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sid, err := keys.ToSystemID(args[0])
			if err != nil {
				return err
			}
			value, err := keys.FromSystemID(sid)
			if err != nil {
				return err
			}
			if wantJSON(cmd) {
				return printJSON(cmd, map[string]interface{}{"system_id": sid, "value": value})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", sid, value)
			return nil
		},
	}
}

func newXrefCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "xref",
		Short: "Encode or decode cross-model references",
	}

	c.AddCommand(&cobra.Command{
		Use:   "encode <model-id|model-urn> <element-key>",
		Short: "Build an xref key from a model id and an element key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			xref, err := keys.ToXrefKey(keys.ModelIDFromURN(args[0]), args[1])
			if err != nil {
				return err
			}
			return printKey(cmd, xref)
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "decode <xref-key>",
		Short: "Split an xref key into model id and element key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			modelID, elementKey, err := keys.DecodeXrefKey(args[0])
			if err != nil {
				return err
			}
			if wantJSON(cmd) {
				return printJSON(cmd, keys.Xref{ModelID: modelID, ElementKey: elementKey})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", modelID, elementKey)
			return nil
		},
	})
	return c
}

// arrayOptions starts from the configured defaults and applies the flags
// that were set explicitly
func arrayOptions(cmd *cobra.Command) keys.ArrayOptions {
	opts := configFrom(cmd).Keys.ArrayOptions()
	flags := cmd.Flags()
	if flags.Changed("full") {
		opts.FullKeys, _ = flags.GetBool("full")
	}
	if flags.Changed("logical") {
		opts.Logical, _ = flags.GetBool("logical")
	}
	if flags.Changed("strict") {
		opts.Strict, _ = flags.GetBool("strict")
	}
	return opts
}

func newRefsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "refs <text>",
		Short: "Decode a packed short-key array",
		Long: `Decode a base64 array of 20-byte short keys and print one key per line.
A trailing partial record is dropped unless --strict is given.

Examples:
  twinkey refs AQIDBAUGBwgJCgsMDQ4PEBESExQ
  twinkey refs --full --logical AQIDBAUGBwgJCgsMDQ4PEBESExQ`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := keys.DecodeShortKeyArray(args[0], arrayOptions(cmd))
			if err != nil {
				return err
			}

			out := []string{}
			for key := range seq {
				out = append(out, key)
			}
			if wantJSON(cmd) {
				return printJSON(cmd, map[string]interface{}{"keys": out, "count": len(out)})
			}
			for _, key := range out {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
			return nil
		},
	}
	c.Flags().Bool("full", false, "Emit full keys instead of short keys")
	c.Flags().Bool("logical", false, "Use the logical flags word for full keys")
	c.Flags().Bool("strict", false, "Fail on a trailing partial record")
	return c
}

func newXrefsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "xrefs <text>",
		Short: "Decode a packed xref-key array",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := keys.DecodeXrefKeyArray(args[0], arrayOptions(cmd))
			if err != nil {
				return err
			}

			out := []keys.Xref{}
			for xref := range seq {
				out = append(out, xref)
			}
			if wantJSON(cmd) {
				return printJSON(cmd, map[string]interface{}{"xrefs": out, "count": len(out)})
			}
			for _, xref := range out {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", xref.ModelID, xref.ElementKey)
			}
			return nil
		},
	}
	c.Flags().Bool("strict", false, "Fail on a trailing partial record")
	return c
}
