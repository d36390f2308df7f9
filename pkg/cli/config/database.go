package config

import "github.com/urfave/cli/v3"

// Database holds database configuration
type Database struct {
	Path string
}

// Flags returns CLI flags for database configuration
func (c *Database) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "db-path",
			Usage:       "Path to the SQLite database file",
			Value:       "./data/vfassets.db",
			Destination: &c.Path,
			Sources:     cli.EnvVars("VFASSETS_DB_PATH"),
		},
	}
}
