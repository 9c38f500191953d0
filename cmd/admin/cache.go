package main

import (
	"errors"
	"fmt"

	"yatube/internal/cache"

	"github.com/spf13/cobra"
)

var (
	cacheCmd = &cobra.Command{
		Use:   "cache",
		Short: "Manage the home page cache",
	}

	cacheClearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Drop every cached home page",
		Args:  cobra.NoArgs,
		RunE:  runCacheClear,
	}
)

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	// Without Redis each server process caches in memory and the CLI cannot reach it.
	if rt.redis == nil {
		return errors.New("redis is unavailable; use POST /admin/cache/clear/ on each server instead")
	}
	pages := cache.NewPageCache(cache.IndexCacheName, cache.NewStore(rt.redis), rt.cfg.IndexCacheTTL())
	if err := pages.Clear(cmd.Context()); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "home page cache cleared")
	return nil
}
