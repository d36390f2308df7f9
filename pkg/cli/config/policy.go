package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/Gravesjacob778/visualflow-assets/pkg/archive"
)

// Policy holds upload validation limits and the optional policy file path.
type Policy struct {
	MaxArchiveSize      int64
	MaxUncompressedSize int64
	File                string
}

// policyFile is the TOML shape of an external policy file. Absent fields
// keep their built-in defaults.
type policyFile struct {
	MaxUncompressedSize int64    `toml:"max_uncompressed_size"`
	AllowedExtensions   []string `toml:"allowed_extensions"`
	ForbiddenExtensions []string `toml:"forbidden_extensions"`
}

// Flags returns CLI flags for policy configuration
func (c *Policy) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:        "max-archive-size",
			Usage:       "Maximum uploaded archive size in bytes",
			Value:       50 << 20,
			Destination: &c.MaxArchiveSize,
			Sources:     cli.EnvVars("VFASSETS_MAX_ARCHIVE_SIZE"),
		},
		&cli.Int64Flag{
			Name:        "max-uncompressed-size",
			Usage:       "Maximum total declared uncompressed size in bytes",
			Value:       200 << 20,
			Destination: &c.MaxUncompressedSize,
			Sources:     cli.EnvVars("VFASSETS_MAX_UNCOMPRESSED_SIZE"),
		},
		&cli.StringFlag{
			Name:        "policy-file",
			Usage:       "TOML file overriding the extension policy",
			Destination: &c.File,
			Sources:     cli.EnvVars("VFASSETS_POLICY_FILE"),
		},
	}
}

// Configure builds the archive validation policy from flags, defaults, and
// the optional policy file.
func (c *Policy) Configure() (archive.Policy, error) {
	allowed := archive.DefaultAllowedExtensions
	forbidden := archive.DefaultForbiddenExtensions
	maxUncompressed := c.MaxUncompressedSize

	if c.File != "" {
		raw, err := os.ReadFile(c.File)
		if err != nil {
			return archive.Policy{}, goerr.Wrap(err, "failed to read policy file", goerr.V("path", c.File))
		}

		var pf policyFile
		if err := toml.Unmarshal(raw, &pf); err != nil {
			return archive.Policy{}, goerr.Wrap(err, "failed to parse policy file", goerr.V("path", c.File))
		}

		if len(pf.AllowedExtensions) > 0 {
			allowed = pf.AllowedExtensions
		}
		if len(pf.ForbiddenExtensions) > 0 {
			forbidden = pf.ForbiddenExtensions
		}
		if pf.MaxUncompressedSize > 0 {
			maxUncompressed = pf.MaxUncompressedSize
		}
	}

	return archive.NewPolicy(maxUncompressed, allowed, forbidden), nil
}
