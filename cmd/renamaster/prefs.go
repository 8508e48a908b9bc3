package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/backmassage/renamaster/internal/prefs"
)

// newPrefsCmd builds the preference editor: get and set per-chat fields
// such as format_template, caption, and the metadata tags.
func newPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Read and write per-chat preferences",
		Long: "Read and write per-chat preferences.\n\nFields: " +
			strings.Join(prefs.FieldNames(), ", "),
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <chat-id> <field>",
		Short: "Print one preference value",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			id, err := parseChatID(args[0])
			if err != nil {
				return err
			}
			store, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			value, err := store.Get(c.Context(), id, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), value)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <chat-id> <field> [value]",
		Short: "Set one preference value; omit the value to clear it",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(c *cobra.Command, args []string) error {
			id, err := parseChatID(args[0])
			if err != nil {
				return err
			}
			value := ""
			if len(args) == 3 {
				value = args[2]
			}
			store, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			return store.Set(c.Context(), id, args[1], value)
		},
	})

	return cmd
}

func parseChatID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("chat id must be an integer, got %q", s)
	}
	return id, nil
}

// openStore opens the preference database from the configured data dir.
func openStore() (*prefs.SQLiteStore, func() error, error) {
	cfg, _, closeLog, err := bootstrap()
	if err != nil {
		return nil, nil, err
	}
	store, err := prefs.Open(cfg.PrefsDBPath())
	if err != nil {
		closeLog()
		return nil, nil, err
	}
	return store, func() error {
		err := store.Close()
		closeLog()
		return err
	}, nil
}
