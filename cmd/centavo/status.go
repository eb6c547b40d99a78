package main

import (
	"sort"

	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which models hold a trained artifact",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			eng, _, err := buildEngine(store)
			if err != nil {
				return err
			}

			status := eng.Status()
			names := make([]string, 0, len(status))
			for name := range status {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				state := "untrained"
				if status[name] {
					state = "trained"
				}
				cmd.Printf("%-12s %s\n", name, state)
			}
			return nil
		},
	}
}
