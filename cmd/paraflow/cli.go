package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dkoenawan/paraflow/internal/config"
	"github.com/dkoenawan/paraflow/internal/errors"
	"github.com/dkoenawan/paraflow/internal/ops"
	"github.com/dkoenawan/paraflow/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "paraflow",
		Usage:   "PARA thought organizer",
		Version: Version,
		Commands: []*cli.Command{
			captureCmd(db, cfg),
			processCmd(db, cfg),
			processBatchCmd(db, cfg),
			retryCmd(db, cfg),
			categorizeCmd(db, cfg),
			thoughtsCmd(db, cfg),
			resourceCmd(db, cfg),
			databaseCmd(db, cfg),
			recordCmd(db, cfg),
			summaryCmd(db, cfg),
			webCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// captureCmd creates the capture command.
func captureCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "capture",
		Usage: "Capture a new thought (content from --content or stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Required: true, Usage: "Thought title"},
			&cli.StringFlag{Name: "content", Aliases: []string{"c"}, Usage: "Thought content (otherwise read from stdin)"},
			&cli.StringFlag{Name: "project-tag", Usage: "Project categorization hint"},
			&cli.StringFlag{Name: "area-tag", Usage: "Area categorization hint"},
		},
		Action: func(c *cli.Context) error {
			content := c.String("content")
			if content == "" && stdinHasData() {
				text, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				content = text
			}

			input := ops.CaptureInput{
				Title:   c.String("title"),
				Content: content,
			}
			if tag := c.String("project-tag"); tag != "" {
				input.ProjectTag = &tag
			}
			if tag := c.String("area-tag"); tag != "" {
				input.AreaTag = &tag
			}

			output, err := ops.Capture(c.Context, db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// processCmd creates the process command.
func processCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "process",
		Usage:     "Run a captured thought through the categorization pipeline",
		ArgsUsage: "<thought-id>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("thought id argument is required"))
			}

			output, err := ops.Process(c.Context, db, cfg, ops.ProcessInput{
				ThoughtID: c.Args().First(),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// processBatchCmd creates the process-batch command.
func processBatchCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "process-batch",
		Usage:     "Process several thoughts with bounded concurrency",
		ArgsUsage: "<thought-id>...",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "concurrency", Usage: "Worker count (0 uses the configured default)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("at least one thought id argument is required"))
			}

			output, err := ops.ProcessBatch(c.Context, db, cfg, ops.ProcessBatchInput{
				ThoughtIDs:  c.Args().Slice(),
				Concurrency: c.Int("concurrency"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// retryCmd creates the retry command.
func retryCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "retry",
		Usage:     "Re-run processing for a failed thought",
		ArgsUsage: "<thought-id>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("thought id argument is required"))
			}

			output, err := ops.Retry(c.Context, db, cfg, ops.RetryInput{
				ThoughtID: c.Args().First(),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// categorizeCmd creates the categorize command.
func categorizeCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "categorize",
		Usage: "Preview the categorization of a thought without persisting anything",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Thought title"},
			&cli.StringFlag{Name: "content", Aliases: []string{"c"}, Usage: "Thought content (otherwise read from stdin)"},
			&cli.StringFlag{Name: "project-tag", Usage: "Project categorization hint"},
			&cli.StringFlag{Name: "area-tag", Usage: "Area categorization hint"},
		},
		Action: func(c *cli.Context) error {
			content := c.String("content")
			if content == "" && stdinHasData() {
				text, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				content = text
			}

			input := ops.CategorizeInput{
				Title:   c.String("title"),
				Content: content,
			}
			if tag := c.String("project-tag"); tag != "" {
				input.ProjectTag = &tag
			}
			if tag := c.String("area-tag"); tag != "" {
				input.AreaTag = &tag
			}

			output, err := ops.Categorize(c.Context, db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// thoughtsCmd creates the thoughts command.
func thoughtsCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "thoughts",
		Usage: "List captured thoughts",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "Filter by status: new|processing|completed|failed|skipped"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum items to return"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.ListThoughts(c.Context, db, cfg, ops.ListThoughtsInput{
				Status: c.String("status"),
				Limit:  c.Int("limit"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// resourceCmd creates the resource command group.
func resourceCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "resource",
		Usage: "Inspect and manage categorized resources",
		Subcommands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Get a resource by ID",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return outputError(errors.NewInvalidRequest("resource id argument is required"))
					}
					output, err := ops.GetResource(c.Context, db, cfg, ops.GetResourceInput{ID: c.Args().First()})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "update",
				Usage:     "Update a resource's content, tags, or deadline",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "content", Aliases: []string{"c"}, Usage: "New content"},
					&cli.StringFlag{Name: "tags", Usage: "Comma-separated replacement tags"},
					&cli.Int64Flag{Name: "deadline", Usage: "New deadline (Unix timestamp)"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return outputError(errors.NewInvalidRequest("resource id argument is required"))
					}

					input := ops.UpdateResourceInput{ID: c.Args().First()}
					if c.IsSet("content") {
						content := c.String("content")
						input.Content = &content
					}
					if c.IsSet("tags") {
						input.Tags = parseTags(c.String("tags"))
					}
					if c.IsSet("deadline") {
						deadline := c.Int64("deadline")
						input.Deadline = &deadline
					}

					output, err := ops.UpdateResource(c.Context, db, cfg, input)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "move",
				Usage:     "Move a resource to another PARA category",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "to", Required: true, Usage: "Target category: project|area|resource|archive"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return outputError(errors.NewInvalidRequest("resource id argument is required"))
					}
					output, err := ops.MoveResource(c.Context, db, cfg, ops.MoveResourceInput{
						ID:       c.Args().First(),
						Category: c.String("to"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "list",
				Usage: "List resources",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "category", Usage: "Filter by category: project|area|resource|archive"},
					&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum items to return"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.ListResources(c.Context, db, cfg, ops.ListResourcesInput{
						Category: c.String("category"),
						Limit:    c.Int("limit"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

// databaseCmd creates the database command group.
func databaseCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "database",
		Usage: "Manage schema-conforming databases",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a database (schema JSON from --properties or stdin)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Required: true, Usage: "Database title"},
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Database description"},
					&cli.StringFlag{Name: "properties", Aliases: []string{"p"}, Usage: "Property definitions as a JSON array"},
					&cli.StringFlag{Name: "parent", Usage: "Parent database ID"},
				},
				Action: func(c *cli.Context) error {
					props, err := readProperties(c.String("properties"))
					if err != nil {
						return outputError(err)
					}

					input := ops.CreateDatabaseInput{
						Title:       c.String("title"),
						Description: c.String("description"),
						Properties:  props,
					}
					if parent := c.String("parent"); parent != "" {
						input.ParentID = &parent
					}

					output, err := ops.CreateDatabase(c.Context, db, cfg, input)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "get",
				Usage:     "Get a database by ID or title",
				ArgsUsage: "[id]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Look up by active database title"},
				},
				Action: func(c *cli.Context) error {
					input := ops.GetDatabaseInput{Title: c.String("title")}
					if c.NArg() > 0 {
						input.ID = c.Args().First()
					}
					output, err := ops.GetDatabase(c.Context, db, cfg, input)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "update",
				Usage:     "Update a database's title, description, or schema",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "New title"},
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "New description"},
					&cli.StringFlag{Name: "properties", Aliases: []string{"p"}, Usage: "Replacement property definitions as a JSON array"},
					&cli.BoolFlag{Name: "confirm", Usage: "Confirm schema changes that strand record data"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return outputError(errors.NewInvalidRequest("database id argument is required"))
					}

					input := ops.UpdateDatabaseInput{
						ID:      c.Args().First(),
						Confirm: c.Bool("confirm"),
					}
					if c.IsSet("title") {
						title := c.String("title")
						input.Title = &title
					}
					if c.IsSet("description") {
						desc := c.String("description")
						input.Description = &desc
					}
					if c.IsSet("properties") || stdinHasData() {
						props, err := readProperties(c.String("properties"))
						if err != nil {
							return outputError(err)
						}
						input.Properties = props
					}

					output, err := ops.UpdateDatabase(c.Context, db, cfg, input)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "archive",
				Usage:     "Archive a database and, when configured, its records",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "confirm", Usage: "Confirm the archive"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return outputError(errors.NewInvalidRequest("database id argument is required"))
					}
					output, err := ops.ArchiveDatabase(c.Context, db, cfg, ops.ArchiveDatabaseInput{
						ID:      c.Args().First(),
						Confirm: c.Bool("confirm"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "list",
				Usage: "List databases",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "all", Usage: "Include archived databases"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.ListDatabases(c.Context, db, cfg, ops.ListDatabasesInput{
						IncludeArchived: c.Bool("all"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

// recordCmd creates the record command group.
func recordCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "record",
		Usage: "Manage records inside a database",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a record (property values JSON from --values or stdin)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "database", Aliases: []string{"d"}, Required: true, Usage: "Database ID"},
					&cli.StringFlag{Name: "values", Usage: "Property values as a JSON object"},
				},
				Action: func(c *cli.Context) error {
					values, err := readValues(c.String("values"))
					if err != nil {
						return outputError(err)
					}
					output, err := ops.CreateRecord(c.Context, db, cfg, ops.CreateRecordInput{
						DatabaseID: c.String("database"),
						Properties: values,
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "get",
				Usage:     "Get a record by ID",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return outputError(errors.NewInvalidRequest("record id argument is required"))
					}
					output, err := ops.GetRecord(c.Context, db, cfg, ops.GetRecordInput{ID: c.Args().First()})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "update",
				Usage:     "Replace a record's property values",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "values", Usage: "Property values as a JSON object"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return outputError(errors.NewInvalidRequest("record id argument is required"))
					}
					values, err := readValues(c.String("values"))
					if err != nil {
						return outputError(err)
					}
					output, err := ops.UpdateRecord(c.Context, db, cfg, ops.UpdateRecordInput{
						ID:         c.Args().First(),
						Properties: values,
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "validate",
				Usage: "Check property values against a database schema without persisting",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "database", Aliases: []string{"d"}, Required: true, Usage: "Database ID"},
					&cli.StringFlag{Name: "values", Usage: "Property values as a JSON object"},
				},
				Action: func(c *cli.Context) error {
					values, err := readValues(c.String("values"))
					if err != nil {
						return outputError(err)
					}
					output, err := ops.ValidateRecord(c.Context, db, cfg, ops.ValidateRecordInput{
						DatabaseID: c.String("database"),
						Properties: values,
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "list",
				Usage: "List records in a database",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "database", Aliases: []string{"d"}, Required: true, Usage: "Database ID"},
					&cli.BoolFlag{Name: "all", Usage: "Include archived records"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.ListRecords(c.Context, db, cfg, ops.ListRecordsInput{
						DatabaseID:      c.String("database"),
						IncludeArchived: c.Bool("all"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

// summaryCmd creates the summary command.
func summaryCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "summary",
		Usage: "Show thought, resource, and database counts",
		Action: func(c *cli.Context) error {
			output, err := ops.Summary(c.Context, db, cfg, ops.SummaryInput{})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// webCmd creates the web command.
func webCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Serve the read-only web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Value: 8321, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(db, cfg, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if pErr, ok := err.(*errors.ParaError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", pErr.Code, pErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// parseTags splits a comma-separated string into a slice of tags.
func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// readProperties parses property definitions from the flag value or stdin.
func readProperties(flagValue string) ([]ops.PropertyInput, error) {
	raw := flagValue
	if raw == "" && stdinHasData() {
		text, err := readStdin()
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		raw = text
	}
	if raw == "" {
		return nil, errors.NewInvalidRequest("property definitions are required (use --properties or pipe JSON via stdin)")
	}

	var props []ops.PropertyInput
	if err := json.Unmarshal([]byte(raw), &props); err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid property JSON: %v", err))
	}
	return props, nil
}

// readValues parses record property values from the flag value or stdin.
func readValues(flagValue string) (map[string]any, error) {
	raw := flagValue
	if raw == "" && stdinHasData() {
		text, err := readStdin()
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		raw = text
	}
	if raw == "" {
		return nil, errors.NewInvalidRequest("property values are required (use --values or pipe JSON via stdin)")
	}

	var values map[string]any
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid values JSON: %v", err))
	}
	return values, nil
}
