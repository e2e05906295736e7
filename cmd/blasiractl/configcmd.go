package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/amasbarry223/blasira-admin/internal/config"
)

func newConfigCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or write the configuration",
	}

	show := &cobra.Command{
		Use:         "show",
		Short:       "Print the effective configuration",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoApp: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(c.out, c.conf)
		},
	}

	var (
		path  string
		force bool
	)
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the effective configuration to a YAML file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoApp: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := path
			if target == "" {
				name := "config.dev.yaml"
				if c.conf.Production() {
					name = "config.prod.yaml"
				}
				target = filepath.Join(c.opts.configDir, name)
			}
			return c.runConfigInit(target, force)
		},
	}
	initCmd.Flags().StringVar(&path, "path", "", "output file (default <config-dir>/config.<env>.yaml)")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(show, initCmd)
	return cmd
}

func (c *cli) runConfigInit(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	if err := config.Save(path, c.conf); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Configuration écrite dans %s\n", path)
	return nil
}
