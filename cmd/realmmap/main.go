package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "realmmap",
		Short:        "Procedural feudal realm map generator",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(viewCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(renderCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(inspectCmd())
	rootCmd.AddCommand(lordsCmd())
	rootCmd.AddCommand(hashCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [project-path]",
		Short: "Write a realm.yaml with the documented defaults",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runInit(args[0])
		},
	}
}

func generateCmd() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate [project-path]",
		Short: "Generate a map from the project seed and persist it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.seedSet = cmd.Flags().Changed("seed")
			return runGenerate(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "override the project seed")
	cmd.Flags().BoolVar(&opts.random, "random", false, "use a fresh random seed")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "generate without persisting")
	return cmd
}

func viewCmd() *cobra.Command {
	var width, height int

	cmd := &cobra.Command{
		Use:   "view [project-path]",
		Short: "Open the interactive viewer over the last persisted map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd.Context(), args[0], width, height)
		},
	}

	cmd.Flags().IntVar(&width, "width", 1024, "window width")
	cmd.Flags().IntVar(&height, "height", 768, "window height")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [project-path]",
		Short: "Serve the map, renders and metrics over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), args[0], addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from realm.yaml)")
	return cmd
}

func renderCmd() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render [project-path]",
		Short: "Render the persisted map to SVG or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "realm.svg", "output file; the extension picks the format")
	cmd.Flags().IntVar(&opts.width, "width", 1024, "image width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", 1024, "image height in pixels")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate realm.yaml and the persisted map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), args[0])
		},
	}
}

func inspectCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect [project-path]",
		Short: "Summarize the persisted map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}

func lordsCmd() *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "lords [project-path]",
		Short: "List the lord roster and their holdings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLords(cmd.Context(), args[0], apply)
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "write roster ownership into the persisted map")
	return cmd
}

func hashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash [secret]",
		Short: "Print the bcrypt hash for access.write_hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runHash(args[0])
		},
	}
}
