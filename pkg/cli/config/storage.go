package config

import "github.com/urfave/cli/v3"

// Storage holds blob storage configuration
type Storage struct {
	Root string
}

// Flags returns CLI flags for storage configuration
func (c *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage-root",
			Usage:       "Root directory for stored archive blobs",
			Value:       "./data/storage",
			Destination: &c.Root,
			Sources:     cli.EnvVars("VFASSETS_STORAGE_ROOT"),
		},
	}
}
