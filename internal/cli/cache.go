package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bintree/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached layout and artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newCache(ctx, false)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer store.Close()

			if _, ok := store.(cache.Clearer); !ok {
				printWarning("The %s backend cannot be cleared from here; entries expire by TTL", c.backendName())
				return nil
			}
			if err := cache.Clear(ctx, store); err != nil {
				return err
			}

			printSuccess("Cleared cache")
			printKeyValue("Backend", c.backendName())
			if loc, err := c.cacheLocation(); err == nil {
				printKeyValue("Location", loc)
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := c.cacheLocation()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), loc)
			return nil
		},
	}
}

func (c *CLI) backendName() string {
	if b := c.config().Cache.Backend; b != "" {
		return b
	}
	return cache.BackendFile
}

// cacheLocation describes where the configured backend keeps its entries:
// a directory, a database file, or a server address.
func (c *CLI) cacheLocation() (string, error) {
	cfg := c.config()
	opts, err := cfg.CacheOptions()
	if err != nil {
		return "", err
	}
	switch c.backendName() {
	case cache.BackendFile:
		return opts.Dir, nil
	case cache.BackendBolt:
		return filepath.Join(opts.Dir, cache.BoltFileName), nil
	case cache.BackendRedis:
		return "redis://" + opts.Redis.Addr, nil
	case cache.BackendMongo:
		return opts.Mongo.URI, nil
	}
	return "", fmt.Errorf("cache backend %q keeps no entries", c.backendName())
}
