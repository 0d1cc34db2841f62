package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "strive"
	app.Usage = "Friends challenge feed backend"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path of the configuration file",
			Value: "config.toml",
		},
	}
	app.Commands = []*cli.Command{
		{
			Action:      server.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Start the main service with all apis, including the websocket feed.`,
		},
		{
			Action:   server.startMigrate,
			Name:     "migrate",
			Usage:    "Migrate the database",
			Category: "Database",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "auto",
					Usage: "Let the ORM reconcile the schema instead of running versioned migrations",
				},
			},
			Description: `Apply the versioned mysql migrations, or reconcile the schema directly with --auto.`,
		},
		{
			Action:      server.startSeed,
			Name:        "seed",
			Usage:       "Seed the database with a demo dataset",
			Category:    "Database",
			Description: `Insert demo users, challenges, friendships, and enrollments for local development.`,
		},
	}

	s.app = app
}
