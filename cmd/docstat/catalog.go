package main

import (
	"database/sql"
	"fmt"

	"github.com/michaelscutari/docstat/internal/catalog"
	"github.com/michaelscutari/docstat/internal/config"
	"github.com/michaelscutari/docstat/internal/snapshot"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// defaultCatalogDir is searched when neither --db nor a catalog dir is set.
const defaultCatalogDir = ".docstat"

func addCatalogFlags(cmd *cobra.Command, dbPath *string) {
	cmd.Flags().StringVarP(dbPath, "db", "d", "", "Path to a catalog snapshot (default is latest.db in the catalog directory)")
}

// openCatalog opens dbPath, or the latest snapshot of the configured
// catalog directory when dbPath is empty.
func openCatalog(dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		dir := viper.GetString(config.KeyCatalogDir)
		if dir == "" {
			dir = defaultCatalogDir
		}
		latest, err := snapshot.NewManager(dir, 0, logger).GetLatest()
		if err != nil {
			return nil, err
		}
		dbPath = latest
	}

	logger.Debug("opening catalog", "path", dbPath)
	database, err := snapshot.Open(dbPath)
	if err != nil {
		return nil, err
	}
	return database, nil
}

func closeCatalog(database *sql.DB) {
	catalog.ForgetCache(database)
	if err := database.Close(); err != nil {
		logger.Warn("failed to close catalog", "err", err)
	}
}

func rootPath(database *sql.DB) (string, error) {
	meta, err := catalog.GetRunMeta(database)
	if err != nil {
		return "", fmt.Errorf("failed to read run metadata: %w", err)
	}
	return meta.RootPath, nil
}
