// Command todo is a local task list CLI over the same engine and
// JSON-file storage the server uses, without accounts or a daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avinashraj/todokit/task"
)

const usage = `usage: todo [-file path] <command> [arguments]

commands:
  add <title>       create a task
  list              list tasks
  search <keyword>  search titles and descriptions
  show <id>         print one task
  done <id>         toggle completion
  rm <id>           delete a task
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "todo:", err)
		os.Exit(1)
	}
}

func defaultFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tasks.json"
	}
	return filepath.Join(home, ".todokit", "tasks.json")
}

func run(args []string) error {
	global := flag.NewFlagSet("todo", flag.ExitOnError)
	file := global.String("file", defaultFile(), "tasks file")
	global.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	global.Parse(args)

	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return fmt.Errorf("missing command")
	}

	repo, err := task.NewJSONRepository(*file)
	if err != nil {
		return err
	}
	engine := task.NewEngine(repo)
	ctx := context.Background()

	switch cmd, cmdArgs := rest[0], rest[1:]; cmd {
	case "add":
		return cmdAdd(ctx, engine, cmdArgs)
	case "list":
		return cmdList(ctx, engine, cmdArgs)
	case "search":
		return cmdSearch(ctx, engine, cmdArgs)
	case "show":
		return cmdShow(ctx, engine, cmdArgs)
	case "done":
		return cmdDone(ctx, engine, cmdArgs)
	case "rm":
		return cmdRemove(ctx, engine, cmdArgs)
	default:
		global.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdAdd(ctx context.Context, engine *task.Engine, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	desc := fs.String("desc", "", "description")
	priority := fs.String("priority", "", "low, medium or high")
	tags := fs.String("tags", "", "comma-separated tags")
	due := fs.String("due", "", "due date (2006-01-02 or RFC 3339)")
	fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("add needs a title")
	}

	c := task.Create{
		Title:       strings.Join(fs.Args(), " "),
		Description: *desc,
		Priority:    task.Priority(*priority),
	}
	if *tags != "" {
		c.Tags = strings.Split(*tags, ",")
	}
	if *due != "" {
		parsed, err := parseDue(*due)
		if err != nil {
			return err
		}
		c.DueDate = &parsed
	}

	created, err := engine.CreateTask(ctx, c)
	if err != nil {
		return err
	}
	fmt.Println("created", created.ID)
	return nil
}

func parseDue(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse due date %q", s)
}

func cmdList(ctx context.Context, engine *task.Engine, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	status := fs.String("status", "", "pending or completed")
	priority := fs.String("priority", "", "low, medium or high")
	tag := fs.String("tag", "", "filter by tag")
	sortBy := fs.String("sort", "", "alpha or priority")
	fs.Parse(args)

	opts := task.ListOptions{
		Priority: task.Priority(*priority),
		Tag:      *tag,
		SortBy:   *sortBy,
	}
	switch *status {
	case "":
	case "pending":
		f := false
		opts.Status = &f
	case "completed":
		t := true
		opts.Status = &t
	default:
		return fmt.Errorf("status must be pending or completed")
	}

	tasks, err := engine.ListTasks(ctx, opts)
	if err != nil {
		return err
	}
	printTasks(tasks)
	return nil
}

func cmdSearch(ctx context.Context, engine *task.Engine, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("search needs a keyword")
	}
	tasks, err := engine.SearchTasks(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	printTasks(tasks)
	return nil
}

func cmdShow(ctx context.Context, engine *task.Engine, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	t, err := engine.GetTask(ctx, id)
	if err != nil {
		return err
	}

	fmt.Println("id:         ", t.ID)
	fmt.Println("title:      ", t.Title)
	if t.Description != "" {
		fmt.Println("description:", t.Description)
	}
	fmt.Println("priority:   ", t.Priority)
	if len(t.Tags) > 0 {
		fmt.Println("tags:       ", strings.Join(t.Tags, ", "))
	}
	fmt.Println("completed:  ", t.IsCompleted)
	if t.DueDate != nil {
		fmt.Println("due:        ", t.DueDate.Format("2006-01-02"))
	}
	fmt.Println("created:    ", t.CreatedAt.Format(time.RFC3339))
	return nil
}

func cmdDone(ctx context.Context, engine *task.Engine, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	t, err := engine.ToggleTask(ctx, id)
	if err != nil {
		return err
	}
	if t.IsCompleted {
		fmt.Println("completed", t.ID)
	} else {
		fmt.Println("reopened", t.ID)
	}
	return nil
}

func cmdRemove(ctx context.Context, engine *task.Engine, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	if err := engine.DeleteTask(ctx, id); err != nil {
		return err
	}
	fmt.Println("deleted", id)
	return nil
}

func parseID(args []string) (uuid.UUID, error) {
	if len(args) == 0 {
		return uuid.Nil, fmt.Errorf("missing task id")
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid task id %q", args[0])
	}
	return id, nil
}

func printTasks(tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Println("no tasks")
		return
	}
	for _, t := range tasks {
		mark := " "
		if t.IsCompleted {
			mark = "x"
		}
		line := fmt.Sprintf("[%s] %s  %-8s %s", mark, t.ID, t.Priority, t.Title)
		if len(t.Tags) > 0 {
			line += "  #" + strings.Join(t.Tags, " #")
		}
		if t.DueDate != nil {
			line += "  due " + t.DueDate.Format("2006-01-02")
		}
		fmt.Println(line)
	}
}
