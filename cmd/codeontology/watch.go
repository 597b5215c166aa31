package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/codeontology/classpath"
	"github.com/c360studio/codeontology/pipeline"
)

func watchCmd(g *globalFlags) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-extract whenever the model or a classpath archive changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, runner, err := f.resolve(cmd, g)
			if err != nil {
				return err
			}
			archives, err := classpath.Expand(cfg.Classpath.Archives)
			if err != nil {
				return err
			}
			paths := append([]string{cfg.Project.Model}, archives...)

			w, err := pipeline.NewWatcher(pipeline.WatcherConfig{
				Paths:         paths,
				DebounceDelay: cfg.Watch.Debounce,
			}, func(ctx context.Context) error {
				res, err := runner.Run(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d entities, %d triples\n", res.Project, res.Entities, res.Triples)
				return nil
			})
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return w.Watch(ctx)
		},
	}
	f.register(cmd.Flags())
	return cmd
}
