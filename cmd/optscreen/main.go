package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/komsit37/optscreen/pkg/screen/client"
	"github.com/komsit37/optscreen/pkg/screen/config"
	"github.com/komsit37/optscreen/pkg/screen/filter"
	"github.com/komsit37/optscreen/pkg/screen/logging"
	"github.com/komsit37/optscreen/pkg/screen/params"
	"github.com/komsit37/optscreen/pkg/screen/pipeline"
	"github.com/komsit37/optscreen/pkg/screen/render"
	"github.com/komsit37/optscreen/pkg/screen/report"
	"github.com/komsit37/optscreen/pkg/screen/session"
	"github.com/komsit37/optscreen/pkg/screen/table"
	"github.com/komsit37/optscreen/pkg/screen/types"
	"github.com/komsit37/optscreen/pkg/screen/web"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootOptions are shared by every subcommand.
type rootOptions struct {
	configPaths []string
	endpoint    string
	logLevel    string
}

// load resolves config layers plus flag overrides and builds the logger.
func (o *rootOptions) load() (*config.Config, *client.Client, error) {
	cfg, err := config.Load(o.configPaths...)
	if err != nil {
		return nil, nil, err
	}
	if o.endpoint != "" {
		cfg.Service.Endpoint = o.endpoint
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	log := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	return cfg, client.New(cfg.Service.Endpoint, cfg.Timeout(), log), nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "optscreen",
		Short:         "Screen options contracts through the analysis service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringSliceVar(&opts.configPaths, "config", nil,
		"config file layers, later files override earlier (default: config.yaml,config.local.yaml)")
	root.PersistentFlags().StringVar(&opts.endpoint, "endpoint", "", "analysis service endpoint override")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override")

	root.AddCommand(newScreenCmd(opts, types.ModeIncome))
	root.AddCommand(newScreenCmd(opts, types.ModeBuy))
	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newReportCmd(opts))
	return root
}

// screenOptions are the per-run flags of the income and buy commands.
type screenOptions struct {
	putTickers  string
	callTickers string
	filters     []string
	tables      string
	sortKey     string
	descending  bool
	page        int
	jsonOut     bool
	prettyJSON  bool
	noColor     bool
	maxColWidth int
	interactive bool
}

func newScreenCmd(root *rootOptions, mode types.Mode) *cobra.Command {
	opts := &screenOptions{}

	short := "Run the income screener (cash-secured puts / covered calls to sell)"
	if mode == types.ModeBuy {
		short = "Run the buy screener (directional calls/puts ranked by score)"
	}
	cmd := &cobra.Command{
		Use:   string(mode),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScreen(cmd, root, mode, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.putTickers, "put-tickers", "", "put ticker list, comma-separated (buy mode: the combined universe)")
	f.StringVar(&opts.callTickers, "call-tickers", "", "call ticker list, comma-separated")
	f.StringArrayVar(&opts.filters, "filter", nil, "filter override NAME=VALUE (empty VALUE clears the field); repeatable")
	f.StringVar(&opts.tables, "tables", "", "show only matching tables (names, glob, /regex/ or substring)")
	f.StringVar(&opts.sortKey, "sort", "", "sort every table by this column key")
	f.BoolVar(&opts.descending, "desc", false, "sort descending (with --sort)")
	f.IntVar(&opts.page, "page", 1, "page to display")
	f.BoolVar(&opts.jsonOut, "json", false, "emit JSON instead of tables")
	f.BoolVar(&opts.prettyJSON, "pretty", false, "indent JSON output")
	f.BoolVar(&opts.noColor, "no-color", false, "disable colors")
	f.IntVar(&opts.maxColWidth, "max-col-width", 0, "max column width (0 = auto)")
	f.BoolVar(&opts.interactive, "interactive", false, "keep the session open for sort/page commands")
	return cmd
}

func runScreen(cmd *cobra.Command, root *rootOptions, mode types.Mode, opts *screenOptions) error {
	cfg, svc, err := root.load()
	if err != nil {
		return err
	}
	log := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)

	sess := session.New(cfg.Parameters(), svc, log)
	sess.SetScreenerType(mode)
	if cmd.Flags().Changed("put-tickers") {
		sess.SetTickerField(params.PutTickers, opts.putTickers)
	}
	if cmd.Flags().Changed("call-tickers") {
		sess.SetTickerField(params.CallTickers, opts.callTickers)
	}
	for _, kv := range opts.filters {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("--filter wants NAME=VALUE, got %q", kv)
		}
		// Flags are explicit input; unlike interactive edits a bad value
		// here is surfaced instead of silently discarded.
		if _, err := params.ParseFilterValue(value); err != nil {
			return fmt.Errorf("--filter %s: %w", name, err)
		}
		sess.SetFilterField(name, value)
	}

	tables, err := filter.Parse(opts.tables)
	if err != nil {
		return fmt.Errorf("parse --tables: %w", err)
	}

	var renderer render.Renderer = render.NewTableRenderer()
	if opts.jsonOut {
		renderer = render.NewJSONRenderer()
	}

	maxColWidth := opts.maxColWidth
	if maxColWidth <= 0 {
		// Rough per-column budget from the terminal width; the renderer
		// falls back to its own default when this stays zero.
		if w := detectTerminalWidth(); w > 0 {
			maxColWidth = w / 10
		}
	}

	runner := &pipeline.Runner{Session: sess, Renderer: renderer, Writer: cmd.OutOrStdout()}
	execOpts := pipeline.ExecuteOptions{
		Tables:      tables,
		SortKey:     opts.sortKey,
		Descending:  opts.descending,
		Page:        opts.page,
		Color:       !opts.jsonOut && !opts.noColor,
		PrettyJSON:  opts.prettyJSON,
		MaxColWidth: maxColWidth,
	}

	if err := runner.Execute(context.Background(), execOpts); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), sess.LastError())
		return err
	}

	if opts.interactive {
		return interactiveLoop(cmd, sess, renderer, tables, execOpts)
	}
	return nil
}

// interactiveLoop keeps the rendered tables live and drives their sort and
// page state from simple commands, one table addressed by number.
func interactiveLoop(cmd *cobra.Command, sess *session.Session, renderer render.Renderer, tables filter.Filter, execOpts pipeline.ExecuteOptions) error {
	out := cmd.OutOrStdout()
	views := pipeline.Views(sess, tables)
	tabs := pipeline.NewTables(views)

	show := func() {
		err := renderer.Render(out, pipeline.Sections(views, tabs), render.Options{
			Color:       execOpts.Color,
			PrettyJSON:  execOpts.PrettyJSON,
			MaxColWidth: execOpts.MaxColWidth,
		})
		if err != nil {
			fmt.Fprintln(out, err)
		}
	}

	fmt.Fprintln(out, `commands: sort <table#> <column>, page <table#> <n>, next <table#>, prev <table#>, run, quit`)
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "q", "quit", "exit":
			return nil
		case "run", "r":
			if err := sess.Analyze(context.Background()); err != nil {
				fmt.Fprintln(out, sess.LastError())
				continue
			}
			// Fresh lists reset pages but keep each table's sort.
			views = pipeline.Views(sess, tables)
			for i, v := range views {
				if i < len(tabs) {
					tabs[i].SetData(v.List)
				}
			}
			show()
		case "sort":
			if len(fields) != 3 {
				fmt.Fprintln(out, "usage: sort <table#> <column>")
				continue
			}
			if t := pickTable(out, tabs, fields[1]); t != nil {
				t.RequestSort(fields[2])
				show()
			}
		case "page":
			if len(fields) != 3 {
				fmt.Fprintln(out, "usage: page <table#> <n>")
				continue
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil || n < 1 {
				fmt.Fprintln(out, "page number must be a positive integer")
				continue
			}
			if t := pickTable(out, tabs, fields[1]); t != nil {
				t.SetPage(n)
				show()
			}
		case "next", "n":
			if len(fields) != 2 {
				fmt.Fprintln(out, "usage: next <table#>")
				continue
			}
			if t := pickTable(out, tabs, fields[1]); t != nil {
				t.NextPage()
				show()
			}
		case "prev", "p":
			if len(fields) != 2 {
				fmt.Fprintln(out, "usage: prev <table#>")
				continue
			}
			if t := pickTable(out, tabs, fields[1]); t != nil {
				t.PrevPage()
				show()
			}
		default:
			fmt.Fprintf(out, "unknown command %q\n", fields[0])
		}
	}
}

// pickTable resolves a 1-based table number given on the command line.
func pickTable(out io.Writer, tabs []*table.Table, arg string) *table.Table {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(tabs) {
		fmt.Fprintf(out, "no table %q (have 1..%d)\n", arg, len(tabs))
		return nil
	}
	return tabs[n-1]
}

func newServeCmd(root *rootOptions) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the screener as an HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, svc, err := root.load()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			log := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
			return web.NewServer(cfg, svc, log).ListenAndServe()
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port override")
	return cmd
}

func newReportCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the hosted analysis write-up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := root.load()
			if err != nil {
				return err
			}
			text, err := report.Fetch(cmd.Context(), cfg.ReportURL(), cfg.Timeout())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
