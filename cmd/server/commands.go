package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tgpaywall/tgpaywall/db"
	"github.com/tgpaywall/tgpaywall/pkg/config"
	"github.com/tgpaywall/tgpaywall/pkg/logger"
	"github.com/tgpaywall/tgpaywall/pkg/notion"
	"github.com/tgpaywall/tgpaywall/pkg/pg"
	"github.com/tgpaywall/tgpaywall/pkg/telegram"
	"github.com/tgpaywall/tgpaywall/svc/content"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply the embedded database migrations",
		Action: func(c *cli.Context) error {
			d, err := connect(c.Context, false)
			if err != nil {
				return err
			}
			defer d.close()

			return pg.Migrate(c.Context, d.pool, d.pgCfg, db.Migrations, db.MigrationsDir, d.log)
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Upsert the demo pages and drop cached content",
		Action: func(c *cli.Context) error {
			d, err := connect(c.Context, true)
			if err != nil {
				return err
			}
			defer d.close()

			pages, err := content.Seed(c.Context, content.NewPGStore(d.pool))
			if err != nil {
				return err
			}
			if err := d.contentReader().InvalidateAll(c.Context); err != nil {
				d.log.Warn("content cache invalidation failed", logger.Component("seed"), logger.Error(err))
			}

			for _, p := range pages {
				d.log.Info("page seeded", logger.Component("seed"), slog.String("slug", p.Slug), slog.String("access", string(p.Access)))
			}
			return nil
		},
	}
}

func importNotionCommand() *cli.Command {
	return &cli.Command{
		Name:  "import-notion",
		Usage: "Copy the Notion content database into the page store",
		Action: func(c *cli.Context) error {
			var notionCfg notion.Config
			if err := config.Load(&notionCfg); err != nil {
				return err
			}

			d, err := connect(c.Context, true)
			if err != nil {
				return err
			}
			defer d.close()

			importer := content.NewImporter(
				notion.NewClient(notionCfg, notion.WithLogger(d.log)),
				content.NewPGStore(d.pool),
				notionCfg.DatabaseID,
				content.WithInvalidator(d.contentReader()),
				content.WithImportLogger(d.log),
			)
			report, err := importer.Import(c.Context)
			if err != nil {
				return err
			}

			return json.NewEncoder(c.App.Writer).Encode(report)
		},
	}
}

// initDataCommand signs a Mini App launch payload with the configured bot
// token, for exercising /api/auth/telegram-verify without Telegram.
func initDataCommand() *cli.Command {
	return &cli.Command{
		Name:  "initdata",
		Usage: "Print signed Telegram init data for local testing",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "user-id", Usage: "Telegram user id", Required: true},
			&cli.StringFlag{Name: "first-name", Value: "Test"},
			&cli.StringFlag{Name: "username"},
			&cli.DurationFlag{Name: "age", Usage: "how long ago the payload was issued"},
		},
		Action: func(c *cli.Context) error {
			var tgCfg telegram.Config
			if err := config.Load(&tgCfg); err != nil {
				return err
			}

			user, err := json.Marshal(telegram.User{
				ID:        c.Int64("user-id"),
				FirstName: c.String("first-name"),
				Username:  c.String("username"),
			})
			if err != nil {
				return err
			}

			values := url.Values{}
			values.Set("user", string(user))
			values.Set("auth_date", strconv.FormatInt(time.Now().Add(-c.Duration("age")).Unix(), 10))

			_, err = fmt.Fprintln(c.App.Writer, telegram.SignValues(tgCfg.BotToken, values))
			return err
		},
	}
}
