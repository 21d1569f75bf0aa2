package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/manolydidier/bibliotheque-console/internal/api"
	"github.com/manolydidier/bibliotheque-console/internal/config"
	"github.com/manolydidier/bibliotheque-console/internal/console"
	"github.com/manolydidier/bibliotheque-console/internal/database"
	"github.com/manolydidier/bibliotheque-console/internal/feed"
	"github.com/manolydidier/bibliotheque-console/internal/settings"
	"github.com/manolydidier/bibliotheque-console/internal/tui"
	"github.com/manolydidier/bibliotheque-console/pkg/logger"
	"github.com/manolydidier/bibliotheque-console/pkg/models"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	app := &cli.App{
		Name:    "biblio-console",
		Usage:   "Terminal admin console for the article collection",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   config.DefaultConfigPath(),
				Usage:   "Path to the config file",
			},
		},
		Commands: []*cli.Command{
			runCmd(),
			exportCmd(),
			importCmd(),
		},
		DefaultCommand: "run",
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCmd() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Open the interactive console",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "state",
				Usage: "Shared state string to open with (as shown in the console footer)",
			},
		},
		Action: func(c *cli.Context) error {
			env, err := setup(c)
			if err != nil {
				return err
			}
			defer env.close()

			q := models.DefaultQuery()
			q.PerPage = env.cfg.UI.PerPage
			q.ViewMode = env.cfg.UI.ViewMode
			filtersOpen := false
			if state := c.String("state"); state != "" {
				q, filtersOpen, err = console.DecodeQuery(state)
				if err != nil {
					return fmt.Errorf("parsing state string: %w", err)
				}
			}

			store := console.NewStore(q)
			store.SetFiltersOpen(filtersOpen)
			undo := console.NewUndo()
			mutator := console.NewMutator(env.client, store, undo, env.log)

			debounce, err := env.cfg.UI.GetSearchDebounce()
			if err != nil {
				return fmt.Errorf("parsing search debounce: %w", err)
			}

			env.settings.Subscribe(func() {
				env.log.Debug().Msg("settings changed")
			})

			model := tui.New(env.client, store, mutator, undo, env.settings, debounce, env.log)
			p := tea.NewProgram(model)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("running console: %w", err)
			}
			return nil
		},
	}
}

func exportCmd() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export one page of the collection as CSV",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output file (default stdout)"},
			&cli.StringFlag{Name: "state", Usage: "State string selecting search/filters/sort/page"},
		},
		Action: func(c *cli.Context) error {
			env, err := setup(c)
			if err != nil {
				return err
			}
			defer env.close()

			q := models.DefaultQuery()
			q.PerPage = env.cfg.UI.PerPage
			if state := c.String("state"); state != "" {
				q, _, err = console.DecodeQuery(state)
				if err != nil {
					return fmt.Errorf("parsing state string: %w", err)
				}
			}

			page, err := env.client.ListArticles(context.Background(), q, false)
			if err != nil {
				return err
			}

			out := os.Stdout
			if path := c.String("out"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("creating export file: %w", err)
				}
				defer f.Close()
				out = f
			}
			if err := console.WriteCSV(out, page.Items); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Exported %d articles\n", len(page.Items))
			return nil
		},
	}
}

func importCmd() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import an RSS/Atom feed as draft articles",
		ArgsUsage: "<feed-url>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("usage: biblio-console import <feed-url>", 1)
			}
			env, err := setup(c)
			if err != nil {
				return err
			}
			defer env.close()

			importer := feed.NewImporter(env.client, env.log)
			created, err := importer.ImportFeed(context.Background(), c.Args().First())
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d articles as drafts\n", created)
			return nil
		},
	}
}

// appEnv bundles what every command needs wired up.
type appEnv struct {
	cfg      *config.Config
	client   *api.Client
	settings *settings.Settings
	log      zerolog.Logger
	close    func()
}

func setup(c *cli.Context) (*appEnv, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	log, logCloser, err := logger.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	timeout, err := cfg.API.GetTimeout()
	if err != nil {
		return nil, fmt.Errorf("parsing API timeout: %w", err)
	}
	client := api.NewClient(cfg.API.BaseURL, cfg.API.APIToken, timeout, log)

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	sets, err := settings.Load(db, log)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &appEnv{
		cfg:      cfg,
		client:   client,
		settings: sets,
		log:      log,
		close: func() {
			db.Close()
			logCloser.Close()
		},
	}, nil
}
