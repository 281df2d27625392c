package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/theme"
)

// themeCommand creates the theme management command.
func (c *CLI) themeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Write or inspect the canvas theme",
	}

	cmd.AddCommand(c.themeInitCommand())
	cmd.AddCommand(c.themeShowCommand())
	cmd.AddCommand(c.themePathCommand())

	return cmd
}

// themeInitCommand creates the "theme init" subcommand.
func (c *CLI) themeInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default theme to a file",
		Long: `Write the built-in theme to path (default: the user theme file). The
format follows the extension: .toml, .yaml or .yml.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := theme.DefaultPath()
			if len(args) == 1 {
				path = args[0]
			}
			if fileExists(path) && !force {
				return errors.New(errors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
			}
			if err := theme.Save(path, theme.Default()); err != nil {
				return err
			}
			printSuccess("Wrote theme")
			printFile(path)
			printNextStep("Use it with", "nodecanvas --theme "+path+" preview <graph>")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// themeShowCommand creates the "theme show" subcommand.
func (c *CLI) themeShowCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the theme in effect",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadStyle()
			if err != nil {
				return err
			}
			switch format {
			case "toml":
				return theme.Encode(os.Stdout, s, false)
			case "yaml", "yml":
				return theme.Encode(os.Stdout, s, true)
			default:
				return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want toml or yaml)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "toml", "output format: toml or yaml")
	return cmd
}

// themePathCommand creates the "theme path" subcommand.
func (c *CLI) themePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the user theme path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(filepath.Clean(theme.DefaultPath()))
			return nil
		},
	}
}
