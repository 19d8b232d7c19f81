// Package matchctl implements the command line client for a running board.
package matchctl

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/okian/matchboard/internal/domain/model"
	"github.com/okian/matchboard/pkg/logger"
	"github.com/spf13/cobra"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

// Defaults for the global flags.
const (
	DefaultURL     = "http://localhost:8080"
	DefaultTimeout = 10 * time.Second
	EnvURL         = "MATCHBOARD_URL"
)

// File permission for exports.
const exportFilePermission = 0o644

type cli struct {
	out, errOut io.Writer

	baseURL string
	timeout time.Duration
	verbose bool

	client *Client
}

// NewRootCommand builds the matchctl command tree writing to out and errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	c := &cli{out: out, errOut: errOut}

	defaultURL := DefaultURL
	if v := os.Getenv(EnvURL); v != "" {
		defaultURL = v
	}

	root := &cobra.Command{
		Use:           "matchctl",
		Short:         "Command line client for the matchboard API",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&c.baseURL, "url", defaultURL, "Base URL of the board (env "+EnvURL+")")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", DefaultTimeout, "HTTP request timeout")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log requests to stderr")

	root.AddCommand(
		c.seedCmd(),
		c.statsCmd(),
		c.projectsCmd(),
		c.matchesCmd(),
		c.exportCmd(),
		c.importCmd(),
		c.feedCmd(),
		c.versionCmd(),
	)
	return root
}

func (c *cli) setup() error {
	if err := logger.InitWith(c.errOut, logger.FormatText); err != nil {
		return err
	}
	level := "warn"
	if c.verbose {
		level = "debug"
	}
	if err := logger.SetLevelString(level); err != nil {
		return err
	}
	c.client = NewClient(c.baseURL, c.timeout, logger.Named("matchctl"))
	return nil
}

func (c *cli) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			c.printf("matchctl %s\n", Version)
		},
	}
}

func (c *cli) seedCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo projects and courses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.client.Seed(cmd.Context(), force); err != nil {
				return err
			}
			c.printf("Seeded demo data\n")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Replace existing projects")
	return cmd
}

func (c *cli) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show board statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := c.client.Stats(cmd.Context())
			if err != nil {
				return err
			}
			c.printf("Store: %s\n", st.Store)
			c.printf("Projects: %d (favorites: %d, joiners: %d)\n", st.Projects, st.Favorites, st.Joiners)
			c.printf("Courses: %d\n", st.Courses)
			c.printf("Profile: %t\n", st.HasProfile)
			return nil
		},
	}
}

func (c *cli) projectsCmd() *cobra.Command {
	var (
		f      model.FilterState
		format string
	)
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ps, err := c.client.Projects(cmd.Context(), f)
			if err != nil {
				return err
			}
			return render(c.out, format, ps, func() string { return projectsTable(ps) })
		},
	}
	cmd.Flags().StringVar(&f.Text, "text", "", "Substring to search for")
	cmd.Flags().StringVar(&f.Stage, "stage", "", "Stage to match")
	cmd.Flags().StringSliceVar(&f.Advantages, "advantage", nil, "Advantage tag (repeatable)")
	cmd.Flags().StringVar(&f.AdvMatchMode, "mode", "", "Advantage match mode: any or all")
	cmd.Flags().BoolVar(&f.Favorites, "favorites", false, "Only favorites")
	cmd.Flags().StringVarP(&format, "format", "f", FormatTable, "Output format: table, json or yaml")
	return cmd
}

func (c *cli) matchesCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "matches",
		Short: "Show the top matches for the saved profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ms, err := c.client.Matches(cmd.Context())
			if err != nil {
				return err
			}
			return render(c.out, format, ms, func() string { return matchesTable(ms) })
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", FormatTable, "Output format: table, json or yaml")
	return cmd
}

func (c *cli) exportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the board as a JSON bundle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := c.client.Export(cmd.Context())
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err := c.out.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, exportFilePermission); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}
			c.printf("Exported to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write (default stdout)")
	return cmd
}

func (c *cli) importCmd() *cobra.Command {
	var (
		mode    string
		preview bool
	)
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a JSON bundle (use - for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			if preview {
				pv, err := c.client.Preview(cmd.Context(), data)
				if err != nil {
					return err
				}
				writePreview(c.out, pv)
				return nil
			}
			if err := c.client.Import(cmd.Context(), data, mode); err != nil {
				return err
			}
			c.printf("Imported %s (%s)\n", args[0], mode)
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "overwrite", "Import mode: overwrite or merge")
	cmd.Flags().BoolVar(&preview, "preview", false, "Summarize the bundle without importing")
	return cmd
}

func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading bundle: %w", err)
	}
	return data, nil
}

func (c *cli) feedCmd() *cobra.Command {
	var (
		format string
		check  bool
	)
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Fetch the project feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := c.client.Feed(cmd.Context(), format)
			if err != nil {
				return err
			}
			if !check {
				_, err := c.out.Write(data)
				return err
			}
			return c.checkFeed(cmd.Context(), data)
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Feed format: json or rss")
	cmd.Flags().BoolVar(&check, "check", false, "Parse the feed and print a summary instead of the body")
	return cmd
}

// checkFeed parses a fetched feed to confirm readers will accept it.
func (c *cli) checkFeed(ctx context.Context, data []byte) error {
	f, err := gofeed.NewParser().ParseString(string(data))
	if err != nil {
		return fmt.Errorf("feed does not parse: %w", err)
	}
	logger.Named("matchctl").Debug(ctx, "feed parsed", logger.String("type", f.FeedType), logger.String("version", f.FeedVersion))
	c.printf("%s %s feed %q: %d items\n", strings.ToUpper(f.FeedType), f.FeedVersion, f.Title, len(f.Items))
	for _, it := range f.Items {
		c.printf("  - %s\n", it.Title)
	}
	return nil
}
