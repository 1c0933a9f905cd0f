// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"t3compat/internal/config"
	cerrors "t3compat/internal/errors"
	"t3compat/internal/extension"
)

var (
	extNamespaceMode string
	extRequire       bool
	extRequired      bool
	extConstraint    string
)

var extCmd = &cobra.Command{
	Use:   "ext",
	Short: "Look up extensions in the package registry",
	Long: `The ext commands answer the legacy extension management questions
(is it loaded, where is it, which namespace) from the package registry
configured with ` + config.EnvRegistry + `.`,
}

func withExtensions(cmd *cobra.Command, fn func(m *extension.Manager) error) error {
	m, err := openExtensionManager(cmd.Context(), extNamespaceMode)
	if err != nil {
		return err
	}
	return fn(m)
}

var extLoadedCmd = &cobra.Command{
	Use:   "loaded <key>",
	Short: "Report whether an extension is active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withExtensions(cmd, func(m *extension.Manager) error {
			ok, err := m.IsLoaded(args[0], extRequire)
			if err != nil {
				return err
			}
			fmt.Println(ok)
			return nil
		})
	},
}

var extPathCmd = &cobra.Command{
	Use:   "path <key> [script]",
	Short: "Print the package path of an extension",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withExtensions(cmd, func(m *extension.Manager) error {
			script := ""
			if len(args) == 2 {
				script = args[1]
			}
			p, ok := m.ExtPath(args[0], script)
			if !ok {
				return cerrors.New(cerrors.NotFound, "package "+args[0]+" is not installed")
			}
			fmt.Println(p)
			return nil
		})
	},
}

var extSitePathCmd = &cobra.Command{
	Use:   "site-path <key>",
	Short: "Print the public resource path of an extension",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withExtensions(cmd, func(m *extension.Manager) error {
			fmt.Println(m.SiteRelPath(args[0]))
			return nil
		})
	},
}

var extNamespaceCmd = &cobra.Command{
	Use:   "namespace <key>",
	Short: "Print the namespace of an extension",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withExtensions(cmd, func(m *extension.Manager) error {
			ns, ok := m.NamespaceFor(args[0])
			if !ok {
				return cerrors.New(cerrors.NotFound, "no namespace for package "+args[0])
			}
			fmt.Println(ns)
			return nil
		})
	},
}

var extKeyCmd = &cobra.Command{
	Use:   "key <namespace-prefix>",
	Short: "Turn a namespace prefix into an extension key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withExtensions(cmd, func(m *extension.Manager) error {
			fmt.Println(m.ExtensionKeyByPrefix(args[0]))
			return nil
		})
	},
}

var extListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the active extensions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withExtensions(cmd, func(m *extension.Manager) error {
			keys := m.LoadedExtensionList()
			if extRequired {
				keys = m.RequiredExtensionList()
			}
			if len(keys) == 0 {
				pterm.Info.Println("No packages")
				return nil
			}
			items := make([]pterm.BulletListItem, len(keys))
			for i, k := range keys {
				items[i] = pterm.BulletListItem{Level: 0, Text: k}
			}
			return pterm.DefaultBulletList.WithItems(items).Render()
		})
	},
}

var extVersionCmd = &cobra.Command{
	Use:   "version <key>",
	Short: "Print the version of an extension or check it against a constraint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withExtensions(cmd, func(m *extension.Manager) error {
			if extConstraint == "" {
				v, err := m.ExtensionVersion(args[0])
				if err != nil {
					return err
				}
				fmt.Println(v.String())
				return nil
			}
			ok, err := m.SatisfiesVersion(args[0], extConstraint)
			if err != nil {
				return err
			}
			if !ok {
				return cerrors.New(cerrors.Incompatible, "package "+args[0]+" does not satisfy "+extConstraint)
			}
			pterm.Success.Printfln("%s satisfies %s", args[0], extConstraint)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(extCmd)
	extCmd.PersistentFlags().StringVar(&extNamespaceMode, "namespace-mode", "", "Namespace lookup (registry, key); overrides the configured mode")

	extLoadedCmd.Flags().BoolVar(&extRequire, "require", false, "Fail when the extension is not loaded")
	extListCmd.Flags().BoolVar(&extRequired, "required", false, "Only list the required framework packages")
	extVersionCmd.Flags().StringVar(&extConstraint, "constraint", "", "Semantic version constraint, e.g. \">= 2.0, < 3\"")

	extCmd.AddCommand(extLoadedCmd, extPathCmd, extSitePathCmd, extNamespaceCmd, extKeyCmd, extListCmd, extVersionCmd)
}
