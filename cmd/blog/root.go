package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dkmqflx/blog"
)

var (
	cfgFile    string
	siteConfig blog.SiteConfig
)

var rootCmd = &cobra.Command{
	Use:   "blog",
	Short: "A personal blog engine",
	Long: `blog serves a personal blog from a post store (JSON or SQLite) and a
folder of Markdown posts, or exports it as a static site.

Configuration is read from ./blog.yaml (or --config) and BLOG_* environment
variables, e.g. BLOG_URL or BLOG_POSTS_STORE.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := initializeConfig(cmd)
		if err != nil {
			return err
		}
		siteConfig = cfg
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./blog.yaml)")
}

// flagKeys maps command flags onto configuration keys.
var flagKeys = map[string]string{
	"addr":   "addr",
	"out":    "output_dir",
	"strict": "strict_routes",
}

func initializeConfig(cmd *cobra.Command) (blog.SiteConfig, error) {
	v := viper.New()

	d := blog.DefaultConfig()
	defaults := map[string]any{
		"name":            d.Name,
		"url":             d.URL,
		"description":     d.Description,
		"author":          d.Author,
		"github":          d.GitHub,
		"lang":            d.Lang,
		"addr":            d.Addr,
		"posts_store":     d.PostsStore,
		"posts_dir":       d.PostsDir,
		"output_dir":      d.OutputDir,
		"strict_routes":   d.StrictRoutes,
		"log_level":       d.LogLevel,
		"metrics_enabled": d.MetricsEnabled,
	}
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("blog")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("BLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return blog.SiteConfig{}, err
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return blog.SiteConfig{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg blog.SiteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return blog.SiteConfig{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	return cfg, nil
}
