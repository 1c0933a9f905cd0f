// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"t3compat/internal/config"
	"t3compat/internal/dsn"
	cerrors "t3compat/internal/errors"
	"t3compat/internal/extension"
	"t3compat/internal/keychain"
	"t3compat/internal/neterrors"
	"t3compat/internal/sqlexec"
)

var dsnFlag string

// resolveDSN returns the DSN to use and where it came from: the --dsn flag,
// T3COMPAT_DSN (or .env), or the OS keychain, in that order.
func resolveDSN() (raw, driver, source string, err error) {
	if v := strings.TrimSpace(dsnFlag); v != "" {
		return v, cfg.DB.Driver, "--dsn flag", nil
	}
	if v := strings.TrimSpace(cfg.DB.DSN); v != "" {
		return v, cfg.DB.Driver, config.EnvDSN, nil
	}
	km, err := keychain.GetManager()
	if err != nil {
		return "", "", "", err
	}
	raw, driver, err = km.LoadDB()
	if err != nil {
		return "", "", "", err
	}
	if cfg.DB.Driver != "" {
		driver = cfg.DB.Driver
	}
	return raw, driver, "OS keychain", nil
}

// connString turns raw into the connection string of driver. An empty
// driver is derived from the DSN scheme.
func connString(raw, driver string) (string, string, error) {
	resolved, conn, err := dsn.Resolve(raw)
	if err != nil {
		return "", "", err
	}
	if driver == "" {
		return resolved, conn, nil
	}
	if (driver == sqlexec.DriverMySQL) != (resolved == dsn.DriverMySQL) {
		return "", "", cerrors.New(cerrors.ConfigInvalid, "driver "+driver+" does not match the DSN scheme")
	}
	return driver, conn, nil
}

// openExecutor connects with the resolved DSN. The returned func closes the
// connection.
func openExecutor(ctx context.Context) (*sqlexec.Executor, func(), error) {
	raw, driver, source, err := resolveDSN()
	if err != nil {
		return nil, nil, err
	}
	driver, conn, err := connString(raw, driver)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("opening database connection")
	c, err := sqlexec.Open(ctx, driver, conn)
	if err != nil {
		return nil, nil, cerrors.Wrap(cerrors.ConnectFailed, "connect using DSN from "+source, err)
	}
	return sqlexec.New(c, logger), func() { _ = c.Close() }, nil
}

// openExtensionManager loads the configured package registry. mode
// overrides the configured namespace mode when set.
func openExtensionManager(ctx context.Context, mode string) (*extension.Manager, error) {
	reg, err := loadRegistry(ctx)
	if err != nil {
		return nil, err
	}
	if mode == "" {
		mode = cfg.Registry.NamespaceMode
	}
	nm, err := extension.ParseNamespaceMode(mode)
	if err != nil {
		return nil, err
	}
	return extension.NewManager(reg, nm)
}

func loadRegistry(ctx context.Context) (*extension.FileRegistry, error) {
	loc := cfg.Registry.Path
	if loc == "" {
		return nil, cerrors.New(cerrors.ConfigInvalid, "no package registry configured; set "+config.EnvRegistry)
	}
	fsys := afero.NewOsFs()
	if !extension.IsRemote(loc) {
		return extension.LoadFileRegistry(fsys, loc)
	}

	var opts extension.RemoteOptions
	if cfg.Registry.PublicKey != "" {
		key, err := afero.ReadFile(fsys, cfg.Registry.PublicKey)
		if err != nil {
			return nil, cerrors.Wrap(cerrors.ConfigInvalid, "read registry public key", err)
		}
		opts.PublicKeyPEM = key
	}
	logger.Debug("fetching package registry", zap.String("url", loc))
	reg, err := extension.FetchRegistry(ctx, loc, opts)
	if err != nil {
		neterrors.Present(err, loc)
		return nil, err
	}
	return reg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dsnFlag, "dsn", "", "Database DSN (postgres:// or mysql://); overrides "+config.EnvDSN+" and the keychain")
}

// updateStoredConfig applies fn to the config file only, leaving
// environment overrides out of it.
func updateStoredConfig(fn func(*config.Config)) error {
	p, err := config.Path()
	if err != nil {
		return err
	}
	fsys := afero.NewOsFs()
	c, err := config.LoadFrom(fsys, p)
	if err != nil {
		return err
	}
	fn(&c)
	return config.SaveTo(fsys, p, c)
}
