package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"pomodo/internal/config"
	"pomodo/internal/core"
	"pomodo/internal/export"
	"pomodo/internal/report"
	"pomodo/internal/store"
	"pomodo/internal/tui"
	"pomodo/internal/web"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path (default: ~/.config/pomodo/config.toml)"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Init struct{} `cmd:"" help:"Create the configuration file and database"`

	Start struct {
		ID       int64 `arg:"" help:"Task id to work on"`
		Duration int64 `short:"d" help:"Override the work duration in minutes"`
	} `cmd:"" help:"Start a pomodoro for a task"`

	Break struct {
		Kind     string `short:"k" enum:"short,long" default:"short" help:"Break kind (short or long)"`
		Duration int64  `short:"d" help:"Override the break duration in minutes"`
	} `cmd:"" help:"Take a break"`

	Interrupt struct {
		ID int64 `arg:"" help:"Task id that was interrupted"`
	} `cmd:"" help:"Record an interruption for a task"`

	Task struct {
		Ls struct {
			Lane string `short:"l" default:"backlog" help:"Lane to list"`
		} `cmd:"" help:"List tasks in a lane"`

		Add struct {
			Lane     string `short:"l" default:"backlog" help:"Lane for the new task"`
			Priority string `short:"p" default:"n" help:"Priority (n, l, m, h)"`
			Estimate int64  `short:"e" default:"1" help:"Estimated pomodoros"`
			Summary  string `short:"s" help:"Task summary (prompted when omitted)"`
		} `cmd:"" help:"Add a task"`

		Mod struct {
			ID       int64   `arg:"" help:"Task id to modify"`
			Lane     *string `short:"l" help:"Move to lane"`
			Priority *string `short:"p" help:"Change priority"`
			Summary  *string `short:"s" help:"Change summary"`
			Estimate *int64  `short:"e" help:"Change estimate"`
		} `cmd:"" help:"Modify a task"`
	} `cmd:"" help:"Manage tasks"`

	Todo struct {
		Ls struct {
			Date string `short:"D" help:"Day to list (YYYY-MM-DD, default today)"`
		} `cmd:"" help:"Show a day's todo list"`

		Mod struct {
			Date   string  `short:"D" help:"Day to modify (YYYY-MM-DD, default today)"`
			Add    []int64 `short:"a" help:"Task ids to assign"`
			Remove []int64 `name:"rm" short:"r" help:"Task ids to unassign"`
		} `cmd:"" help:"Assign or unassign tasks for a day"`
	} `cmd:"" help:"Manage the daily todo list"`

	Summary struct {
		Days int `short:"n" default:"7" help:"Number of days to cover, ending today"`
	} `cmd:"" help:"Show daily pomodoro and interruption counts"`

	Export struct {
		Format string `short:"f" enum:"json,csv" default:"json" help:"Output format"`
		Out    string `short:"o" required:"" help:"Output file path"`
	} `cmd:"" help:"Export the pomodoro ledger"`

	Serve struct {
		Addr string `short:"a" default:":7878" help:"Listen address"`
	} `cmd:"" help:"Serve the HTTP API"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelWarn
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := run(ctx.Command()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(command string) error {
	cfgPath := CLI.Config
	if cfgPath == "" {
		var err error
		cfgPath, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}
	cfg, err := config.LoadOrCreate(cfgPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", cfgPath, err)
	}
	loc := cfg.Location()

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return err
		}
	}
	s, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("open database %s: %w", dbPath, err)
	}
	defer s.Close()

	switch command {
	case "init":
		fmt.Printf("config: %s\ndatabase: %s\n", cfgPath, dbPath)
		return nil
	case "start <id>":
		duration := int64(cfg.WorkMinutes)
		if CLI.Start.Duration > 0 {
			duration = CLI.Start.Duration
		}
		return runStart(s, CLI.Start.ID, duration)
	case "break":
		return runBreak(s, cfg)
	case "interrupt <id>":
		return core.RecordInterruption(s, CLI.Interrupt.ID)
	case "task ls":
		return runTaskLs(s, CLI.Task.Ls.Lane)
	case "task add":
		return runTaskAdd(s)
	case "task mod <id>":
		return core.ModTask(s, CLI.Task.Mod.ID, core.TaskMod{
			Lane:     CLI.Task.Mod.Lane,
			Priority: CLI.Task.Mod.Priority,
			Summary:  CLI.Task.Mod.Summary,
			Estimate: CLI.Task.Mod.Estimate,
		})
	case "todo ls":
		return runTodoLs(s, loc, CLI.Todo.Ls.Date)
	case "todo mod":
		return runTodoMod(s, loc)
	case "summary":
		return runSummary(s, loc, CLI.Summary.Days)
	case "export":
		return runExport(s)
	case "serve":
		return runServe(s, loc)
	}
	return fmt.Errorf("unknown command %q", command)
}

// runStart runs the countdown and always completes the timer on the
// way out, whether the countdown finished, the user quit, or the
// process got a TERM signal. An unfinished session still counts as a
// completed pomodoro.
func runStart(s *store.Store, taskID, duration int64) (err error) {
	timer, err := core.StartPomodoro(s, taskID, duration)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := core.Complete(s, timer); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return runCountdown(s)
}

func runBreak(s *store.Store, cfg config.Config) (err error) {
	kind := core.KindShortBreak
	duration := int64(cfg.ShortBreakMinutes)
	if CLI.Break.Kind == "long" {
		kind = core.KindLongBreak
		duration = int64(cfg.LongBreakMinutes)
	}
	if CLI.Break.Duration > 0 {
		duration = CLI.Break.Duration
	}

	timer, err := core.StartBreak(s, kind, duration)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := core.Complete(s, timer); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return runCountdown(s)
}

func runCountdown(s *store.Store) error {
	cur, err := core.Current(s)
	if err != nil {
		return err
	}
	if cur == nil {
		return core.ErrNoTimer
	}

	p := tea.NewProgram(tui.NewSession(s, cur), tea.WithAltScreen())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		for range sigs {
			p.Quit()
		}
	}()

	_, err = p.Run()
	return err
}

func runTaskLs(s *store.Store, lane string) error {
	tasks, err := core.ListTasks(s, lane)
	if err != nil {
		return err
	}
	lanes, priorities, err := nameMaps(s)
	if err != nil {
		return err
	}
	fmt.Println(report.TaskTable(tasks, lanes, priorities))
	return nil
}

func runTaskAdd(s *store.Store) error {
	add := CLI.Task.Add
	summary := add.Summary
	estimate := add.Estimate

	if summary == "" {
		estimateStr := strconv.FormatInt(estimate, 10)
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Summary").Value(&summary),
				huh.NewInput().Title("Estimate (pomodoros)").Value(&estimateStr),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
		if n, err := strconv.ParseInt(estimateStr, 10, 64); err == nil {
			estimate = n
		}
	}
	if summary == "" {
		return errors.New("summary must not be empty")
	}
	return core.AddTask(s, add.Lane, add.Priority, summary, estimate)
}

func runTodoLs(s *store.Store, loc *time.Location, dateStr string) error {
	date, err := parseDateFlag(dateStr, loc)
	if err != nil {
		return err
	}
	tasks, err := core.ListTodoTasks(s, date, loc)
	if err != nil {
		return err
	}
	lanes, priorities, err := nameMaps(s)
	if err != nil {
		return err
	}
	fmt.Println(report.TodoHeader(core.SummarizeTodo(date, tasks)))
	fmt.Println(report.TodoTable(tasks, lanes, priorities))
	return nil
}

func runTodoMod(s *store.Store, loc *time.Location) error {
	date, err := parseDateFlag(CLI.Todo.Mod.Date, loc)
	if err != nil {
		return err
	}
	return core.ModTodo(s, date, CLI.Todo.Mod.Add, CLI.Todo.Mod.Remove)
}

func runSummary(s *store.Store, loc *time.Location, days int) error {
	if days <= 0 {
		days = 7
	}
	today := core.Today(loc)
	from := today.AddDays(1 - days)
	start, _ := from.WindowIn(loc)
	_, end := today.WindowIn(loc)

	summaries, err := core.DailySummaries(s, core.SummaryRange{Start: start, End: end}, loc)
	if err != nil {
		return err
	}

	tasks := make(map[int64]*core.Task)
	for _, sum := range summaries {
		if _, ok := tasks[sum.TaskID]; ok {
			continue
		}
		task, err := s.TaskByID(sum.TaskID)
		if err != nil {
			return err
		}
		if task != nil {
			tasks[sum.TaskID] = task
		}
	}

	fmt.Println(report.SummaryChart(summaries, from, days))
	fmt.Println(report.SummaryTable(summaries, tasks))
	return nil
}

func runExport(s *store.Store) error {
	// The full ledger: everything from the epoch until now.
	poms, err := s.PomodorosBetween(time.Unix(0, 0).UTC(), time.Now().UTC().Add(time.Hour))
	if err != nil {
		return err
	}

	tasks := make(map[int64]*core.Task)
	for _, p := range poms {
		if _, ok := tasks[p.TaskID]; ok {
			continue
		}
		task, err := s.TaskByID(p.TaskID)
		if err != nil {
			return err
		}
		if task != nil {
			tasks[p.TaskID] = task
		}
	}

	switch CLI.Export.Format {
	case "csv":
		return export.ToCSV(poms, tasks, CLI.Export.Out)
	default:
		return export.ToJSON(poms, tasks, CLI.Export.Out)
	}
}

func runServe(s *store.Store, loc *time.Location) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	srv := web.NewServer(s, loc, slog.Default())
	return srv.Serve(ctx, CLI.Serve.Addr)
}

func parseDateFlag(s string, loc *time.Location) (core.Date, error) {
	if s == "" {
		return core.Today(loc), nil
	}
	return core.ParseDate(s)
}

func nameMaps(s *store.Store) (map[int64]string, map[int64]string, error) {
	lanes, err := s.Lanes()
	if err != nil {
		return nil, nil, err
	}
	priorities, err := s.Priorities()
	if err != nil {
		return nil, nil, err
	}
	return report.LaneNames(lanes), report.PriorityNames(priorities), nil
}
