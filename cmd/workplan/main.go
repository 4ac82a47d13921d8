package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"workplan/internal/config"
	"workplan/internal/model"
	"workplan/internal/ops"
	"workplan/internal/report"
	"workplan/internal/schedule"
	"workplan/internal/task"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "burndown":
		err = cmdBurndown(os.Args[2:])
	case "velocity":
		err = cmdVelocity(os.Args[2:])
	case "due-soon":
		err = cmdDueSoon(os.Args[2:])
	case "ics":
		err = cmdICS(os.Args[2:])
	case "heal":
		err = cmdHeal(os.Args[2:])
	case "backup":
		err = cmdBackup(os.Args[2:])
	case "restore":
		err = cmdRestore(os.Args[2:])
	default:
		printUsage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, os.Args[1]+" failed:", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: workplan <command> [flags]

commands:
  burndown   print the remaining-work series for a date window
  velocity   print completed effort per period
  due-soon   list open tasks ending within the window
  ics        export a task as an iCalendar event
  heal       repair dependency edge inconsistencies in the store
  backup     archive the data directory
  restore    unpack a backup archive`)
}

func loadConfig(path string) (config.Config, error) {
	return config.Load(path)
}

func openRepo(cfg config.Config) (task.Repo, func(), error) {
	switch cfg.Store.Driver {
	case "memory":
		return task.NewMemoryRepo(), func() {}, nil
	case "file":
		r, err := task.NewFileRepo(filepath.Dir(cfg.Store.Path))
		if err != nil {
			return nil, nil, err
		}
		return r, func() {}, nil
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
			return nil, nil, err
		}
		r, err := task.NewSQLiteRepo(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return r, func() { _ = r.Close() }, nil
	}
}

func cmdBurndown(args []string) error {
	fs := flag.NewFlagSet("burndown", flag.ContinueOnError)
	cfgPath := fs.String("config", "workplan.yml", "path to config file")
	from := fs.String("from", "", "window start (YYYY-MM-DD)")
	to := fs.String("to", "", "window end (YYYY-MM-DD)")
	projectName := fs.String("project", "", "limit to one project")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	start, err := time.ParseInLocation("2006-01-02", *from, time.Local)
	if err != nil {
		return fmt.Errorf("-from must be YYYY-MM-DD")
	}
	end, err := time.ParseInLocation("2006-01-02", *to, time.Local)
	if err != nil {
		return fmt.Errorf("-to must be YYYY-MM-DD")
	}

	repo, closeRepo, err := openRepo(cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	tasks, err := repo.List(task.ListFilter{Project: *projectName})
	if err != nil {
		return err
	}

	series := report.ComputeBurndown(tasks, start, end, report.BurndownVariant(cfg.Burndown.Variant), time.Now())
	for i, d := range series.Dates {
		fmt.Printf("%s  actual=%.0f  ideal=%.0f\n",
			d.Format("2006-01-02"), series.ActualRemaining[i], series.IdealRemaining[i])
	}
	return nil
}

func cmdVelocity(args []string) error {
	fs := flag.NewFlagSet("velocity", flag.ContinueOnError)
	cfgPath := fs.String("config", "workplan.yml", "path to config file")
	granularity := fs.String("granularity", "", "weekly | biweekly | monthly")
	periods := fs.Int("periods", 0, "max periods to report")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	g := report.Granularity(cfg.Velocity.Granularity)
	if *granularity != "" {
		g = report.Granularity(*granularity)
	}
	if !g.Valid() {
		return fmt.Errorf("unknown granularity: %s", g)
	}
	n := cfg.Velocity.MaxPeriods
	if *periods > 0 {
		n = *periods
	}

	repo, closeRepo, err := openRepo(cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	tasks, err := repo.List(task.ListFilter{Status: "completed"})
	if err != nil {
		return err
	}

	series := report.ComputeVelocity(tasks, g, n)
	for _, b := range series.Buckets {
		fmt.Printf("%s  tasks=%d  committed=%.2fh  actual=%.2fh  accuracy=%.2f\n",
			b.PeriodStart.Format("2006-01-02"), b.TaskCount, b.CommittedHours, b.ActualHours, b.Accuracy)
	}
	fmt.Printf("average velocity: %.2fh\n", series.AverageVelocity)
	return nil
}

func cmdDueSoon(args []string) error {
	fs := flag.NewFlagSet("due-soon", flag.ContinueOnError)
	cfgPath := fs.String("config", "workplan.yml", "path to config file")
	days := fs.Int("days", 0, "window in days")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	window := cfg.DueSoon.WindowDays
	if *days > 0 {
		window = *days
	}

	repo, closeRepo, err := openRepo(cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	tasks, err := repo.List(task.ListFilter{Status: "open"})
	if err != nil {
		return err
	}

	for _, t := range report.DueSoon(tasks, time.Now(), window) {
		fmt.Printf("%s  %-12s  %s\n", t.EndDate.Format("2006-01-02"), t.Status, t.Title)
	}
	return nil
}

func cmdICS(args []string) error {
	fs := flag.NewFlagSet("ics", flag.ContinueOnError)
	cfgPath := fs.String("config", "workplan.yml", "path to config file")
	id := fs.String("task", "", "task id to export")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("-task is required")
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	repo, closeRepo, err := openRepo(cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	t, err := repo.Get(model.TaskID(*id))
	if err != nil {
		return err
	}
	ics, err := task.BuildTaskCalendarICS(t, time.Now())
	if err != nil {
		return err
	}
	fmt.Print(ics)
	return nil
}

func cmdHeal(args []string) error {
	fs := flag.NewFlagSet("heal", flag.ContinueOnError)
	cfgPath := fs.String("config", "workplan.yml", "path to config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	repo, closeRepo, err := openRepo(cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	graph := schedule.NewGraph(repo, log.Default())
	repaired, err := graph.Heal()
	if err != nil {
		return err
	}
	fmt.Printf("repaired %d task(s)\n", repaired)
	return nil
}

func cmdBackup(args []string) error {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	dataDir := fs.String("data-dir", "data", "path to data directory")
	out := fs.String("out", "", "output archive path (.tar.gz)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *out == "" {
		ts := time.Now().UTC().Format("20060102T150405Z")
		*out = filepath.Join("backups", "workplan-"+ts+".tar.gz")
	}

	if err := ops.BackupDataDir(*dataDir, *out); err != nil {
		return err
	}
	fmt.Println("wrote", *out)
	return nil
}

func cmdRestore(args []string) error {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	archive := fs.String("archive", "", "archive path (.tar.gz)")
	dataDir := fs.String("data-dir", "data", "target data directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *archive == "" {
		return fmt.Errorf("-archive is required")
	}

	if err := ops.RestoreDataDir(*archive, *dataDir); err != nil {
		return err
	}
	fmt.Println("restored into", *dataDir)
	return nil
}
