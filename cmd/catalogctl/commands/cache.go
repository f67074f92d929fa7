package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"bookreview-backend/internal/config"
	infraCache "bookreview-backend/internal/infrastructure/cache"
	"bookreview-backend/internal/invalidation"
	"bookreview-backend/pkg/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached views",
}

var cacheFlushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Evict every cached catalog view",
	Long: `Evict every cached catalog view from the shared cache.

Only the redis backend is shared between processes. The memory backend lives
inside each API process and is emptied by restarting it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if cfg.Cache.Backend != config.CacheBackendRedis {
			fmt.Fprintf(cmd.OutOrStdout(), "cache backend is %q, nothing shared to flush\n", cfg.Cache.Backend)
			return nil
		}

		client := infraCache.NewRedisClient(cfg.Redis)
		defer client.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := client.Connect(ctx); err != nil {
			return err
		}

		counts, err := client.CountKeys(ctx, invalidation.CatalogPrefixes...)
		if err != nil {
			return err
		}
		for _, prefix := range invalidation.CatalogPrefixes {
			fmt.Fprintf(cmd.OutOrStdout(), "%s* holds %d keys\n", prefix, counts[prefix])
		}

		return flushCatalog(ctx, cache.NewRedisCache(client.Client, cfg.Cache.TTL.Default), cmd)
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheFlushCmd)
}

func flushCatalog(ctx context.Context, c cache.Cache, cmd *cobra.Command) error {
	for _, prefix := range invalidation.CatalogPrefixes {
		if err := c.DeletePrefix(ctx, prefix); err != nil {
			return fmt.Errorf("flush %s*: %w", prefix, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "flushed %s*\n", prefix)
	}
	return nil
}
