package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/iudanet/notekeeper/internal/client/iocli"
	"github.com/iudanet/notekeeper/internal/config"
)

// BuildInfo is printed by the version command.
type BuildInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

// flagKeys связывает глобальные флаги с ключами конфигурации
var flagKeys = map[string]string{
	"server":    "server_url",
	"db":        "db",
	"token":     "token",
	"control":   "control_addr",
	"log-level": "log.level",
}

// NewRootCommand builds the notekeeper client command tree.
func NewRootCommand(info BuildInfo) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "notekeeper",
		Short:         "Offline-first notes synchronized with a shared server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.NewViper(a.cfgFile)
			if err != nil {
				return err
			}
			config.SetClientDefaults(v)

			for name, key := range flagKeys {
				if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
					return fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
			a.v = v
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "path to YAML config file")
	flags.String("server", "http://localhost:8080", "server URL")
	flags.String("db", "notekeeper-client.db", "path to local database")
	flags.String("token", "", "editor access token (overrides the stored one)")
	flags.String("control", "", "daemon control address, e.g. 127.0.0.1:7070")
	flags.String("log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(
		newAddCommand(a),
		newEditCommand(a),
		newRemoveCommand(a),
		newShowCommand(a),
		newListCommand(a),
		newSearchCommand(a),
		newTagCommand(a),
		newSyncCommand(a),
		newStatusCommand(a),
		newLoginCommand(a),
		newLogoutCommand(a),
		newWhoamiCommand(a),
		newRemoteCommand(a),
		newWatchCommand(a),
		newDaemonCommand(a),
		newVersionCommand(info),
	)

	return root
}

func console(cmd *cobra.Command) iocli.IO {
	return iocli.New(cmd.InOrStdin(), cmd.OutOrStdout())
}

// withCli открывает ресурсы, выполняет fn и закрывает их даже при ошибке
func withCli(a *app, cmd *cobra.Command, build func(ctx context.Context) (*Cli, error), fn func(ctx context.Context, c *Cli) error) error {
	defer a.close()

	ctx := cmd.Context()
	c, err := build(ctx)
	if err != nil {
		return err
	}
	return fn(ctx, c)
}

func local(a *app, cmd *cobra.Command) func(ctx context.Context) (*Cli, error) {
	return func(ctx context.Context) (*Cli, error) {
		return a.localCli(ctx, console(cmd), false)
	}
}

func online(a *app, cmd *cobra.Command) func(ctx context.Context) (*Cli, error) {
	return func(ctx context.Context) (*Cli, error) {
		return a.localCli(ctx, console(cmd), true)
	}
}

// addEditFlags регистрирует флаги частичного изменения заметки
func addEditFlags(fs *pflag.FlagSet) {
	fs.String("title", "", "new title")
	fs.String("body", "", "new markdown body ('-' reads stdin)")
	fs.StringSlice("tag", nil, "replace tags (repeatable or comma separated)")
	fs.Bool("clear-tags", false, "remove all tags")
}

func editOptionsFrom(cmd *cobra.Command) editOptions {
	fs := cmd.Flags()
	var opts editOptions

	if fs.Changed("title") {
		title, _ := fs.GetString("title")
		opts.title = &title
	}
	if fs.Changed("body") {
		body, _ := fs.GetString("body")
		opts.body = &body
	}
	opts.tags, _ = fs.GetStringSlice("tag")
	opts.clearTags, _ = fs.GetBool("clear-tags")
	return opts
}

func newAddCommand(a *app) *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a note to the local store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.title = args[0]
			}
			build := local(a, cmd)
			if opts.autoSync {
				build = online(a, cmd)
			}
			return withCli(a, cmd, build, func(ctx context.Context, c *Cli) error {
				return c.runAdd(ctx, opts)
			})
		},
	}
	cmd.Flags().StringVar(&opts.body, "body", "", "markdown body ('-' reads stdin)")
	cmd.Flags().StringSliceVar(&opts.tags, "tag", nil, "tags (repeatable or comma separated)")
	cmd.Flags().BoolVar(&opts.autoSync, "sync", false, "sync with server right after adding")
	return cmd
}

func newEditCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a local note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCli(a, cmd, local(a, cmd), func(ctx context.Context, c *Cli) error {
				return c.runEdit(ctx, args[0], editOptionsFrom(cmd))
			})
		},
	}
	addEditFlags(cmd.Flags())
	return cmd
}

func newRemoveCommand(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a note (reaches the server on the next sync)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCli(a, cmd, local(a, cmd), func(ctx context.Context, c *Cli) error {
				return c.runRemove(ctx, args[0], force)
			})
		},
	}
	cmd.Flags().BoolVarP(&force, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newShowCommand(a *app) *cobra.Command {
	var html bool

	cmd := &cobra.Command{
		Use:     "show <id>",
		Aliases: []string{"get"},
		Short:   "Show a local note",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCli(a, cmd, local(a, cmd), func(ctx context.Context, c *Cli) error {
				return c.runShow(ctx, args[0], html)
			})
		},
	}
	cmd.Flags().BoolVar(&html, "html", false, "print the rendered HTML body")
	return cmd
}

func newListCommand(a *app) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List local notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCli(a, cmd, local(a, cmd), func(ctx context.Context, c *Cli) error {
				return c.runList(ctx, opts)
			})
		},
	}
	cmd.Flags().StringVar(&opts.tag, "tag", "", "only notes with this tag")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "only notes matching this text")
	return cmd
}

func newSearchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search local notes by title, body and tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCli(a, cmd, local(a, cmd), func(ctx context.Context, c *Cli) error {
				return c.runList(ctx, listOptions{query: args[0]})
			})
		},
	}
}

func newTagCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tag <tag>",
		Short: "List local notes with a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCli(a, cmd, local(a, cmd), func(ctx context.Context, c *Cli) error {
				return c.runList(ctx, listOptions{tag: args[0]})
			})
		},
	}
}

func newSyncCommand(a *app) *cobra.Command {
	var forceLocal bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run a sync cycle now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			build := func(ctx context.Context) (*Cli, error) {
				return a.syncCli(ctx, console(cmd), forceLocal, true)
			}
			return withCli(a, cmd, build, func(ctx context.Context, c *Cli) error {
				return c.runSync(ctx)
			})
		},
	}
	cmd.Flags().BoolVar(&forceLocal, "local", false, "sync in this process even if a daemon control address is set")
	return cmd
}

func newStatusCommand(a *app) *cobra.Command {
	var forceLocal bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show pending changes and the last sync",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			build := func(ctx context.Context) (*Cli, error) {
				return a.syncCli(ctx, console(cmd), forceLocal, false)
			}
			return withCli(a, cmd, build, func(ctx context.Context, c *Cli) error {
				return c.runStatus(ctx)
			})
		},
	}
	cmd.Flags().BoolVar(&forceLocal, "local", false, "read the local database even if a daemon control address is set")
	return cmd
}

func newLoginCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login [token]",
		Short: "Store an editor access token (prompts when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var token string
			if len(args) == 1 {
				token = args[0]
			}
			return withCli(a, cmd, local(a, cmd), func(ctx context.Context, c *Cli) error {
				return c.runLogin(ctx, token)
			})
		},
	}
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCli(a, cmd, local(a, cmd), func(ctx context.Context, c *Cli) error {
				return c.runLogout(ctx)
			})
		},
	}
}

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the editor of the current token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCli(a, cmd, local(a, cmd), func(ctx context.Context, c *Cli) error {
				return c.runWhoami(ctx)
			})
		},
	}
}

func newRemoteCommand(a *app) *cobra.Command {
	remote := &cobra.Command{
		Use:   "remote",
		Short: "Work with server notes directly, bypassing the local store",
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show the authoritative copy of a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCli(a, cmd, online(a, cmd), func(ctx context.Context, c *Cli) error {
				return c.runRemoteGet(ctx, args[0])
			})
		},
	}

	var expected int64
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a note only if it is still at --expected version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCli(a, cmd, online(a, cmd), func(ctx context.Context, c *Cli) error {
				return c.runRemoteUpdate(ctx, args[0], remoteEdit{editOptions: editOptionsFrom(cmd), expected: expected})
			})
		},
	}
	addEditFlags(update.Flags())
	update.Flags().Int64Var(&expected, "expected", 0, "version the edit is based on")
	_ = update.MarkFlagRequired("expected")

	force := &cobra.Command{
		Use:   "force <id>",
		Short: "Overwrite a note regardless of its version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCli(a, cmd, online(a, cmd), func(ctx context.Context, c *Cli) error {
				return c.runRemoteForce(ctx, args[0], editOptionsFrom(cmd))
			})
		},
	}
	addEditFlags(force.Flags())

	var conflictExpected int64
	conflict := &cobra.Command{
		Use:   "conflict <id>",
		Short: "Compare an edit against the current server copy without writing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCli(a, cmd, online(a, cmd), func(ctx context.Context, c *Cli) error {
				return c.runRemoteConflict(ctx, args[0], remoteEdit{editOptions: editOptionsFrom(cmd), expected: conflictExpected})
			})
		},
	}
	addEditFlags(conflict.Flags())
	conflict.Flags().Int64Var(&conflictExpected, "expected", 0, "version the edit is based on")
	_ = conflict.MarkFlagRequired("expected")

	remote.AddCommand(get, update, force, conflict)
	return remote
}

func newWatchCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print live note events from the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCli(a, cmd, online(a, cmd), func(ctx context.Context, c *Cli) error {
				return c.runWatch(ctx, asJSON)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON events")
	return cmd
}

func newDaemonCommand(a *app) *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Sync in the background: on a timer, on reconnect and on demand",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()
			return a.runDaemon(cmd.Context(), follow)
		},
	}
	cmd.Flags().BoolVar(&follow, "follow", true, "sync when the server reports changes by other editors")
	return cmd
}

func newVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "NoteKeeper Client\n")
			fmt.Fprintf(out, "Version:    %s\n", info.Version)
			fmt.Fprintf(out, "Build Date: %s\n", info.BuildDate)
			fmt.Fprintf(out, "Git Commit: %s\n", info.GitCommit)
		},
	}
}
