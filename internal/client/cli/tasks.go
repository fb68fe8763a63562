package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/tasksync/internal/client/client"
	"github.com/dmitrijs2005/tasksync/internal/client/services"
	"github.com/dmitrijs2005/tasksync/internal/server/models"
)

func (a *App) printTasks(t models.Tasks) {
	if len(t.Tasks) == 0 {
		fmt.Fprintln(a.out, "  (no tasks)")
		return
	}
	for _, task := range t.Tasks {
		fmt.Fprintf(a.out, "  [%d] %s\n", task.ID, task.Summary)
	}
}

func (a *App) List(ctx context.Context) error {
	a.printTasks(a.sync.Current())
	return nil
}

// Add appends a task. The summary is taken from args or prompted for.
func (a *App) Add(ctx context.Context, args []string) error {
	summary := strings.TrimSpace(strings.Join(args, " "))
	if summary == "" {
		var err error
		summary, err = getSimpleText(a.reader, "Enter task", a.out)
		if err != nil {
			return err
		}
	}
	if summary == "" {
		fmt.Fprintln(a.out, "Task must not be empty")
		return nil
	}

	return a.report(a.sync.Add(summary))
}

// Done removes the task with the id given in args or prompted for.
func (a *App) Done(ctx context.Context, args []string) error {
	raw := ""
	if len(args) > 0 {
		raw = args[0]
	} else {
		var err error
		raw, err = getSimpleText(a.reader, "Enter task id", a.out)
		if err != nil {
			return err
		}
	}

	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		fmt.Fprintf(a.out, "Invalid task id %q\n", raw)
		return err
	}

	return a.report(a.sync.Remove(int32(id)))
}

// Sync reconnects after the server was unreachable.
func (a *App) Sync(ctx context.Context) error {
	err := a.sync.Reconnect(ctx)
	switch {
	case err == nil:
		fmt.Fprintf(a.out, "Synchronized (%s)\n", a.mode())
		a.printTasks(a.sync.Current())
	case errors.Is(err, client.ErrUnauthorized):
		fmt.Fprintln(a.out, "Session expired, please logout and login again")
	default:
		fmt.Fprintln(a.out, "Error:", err)
	}
	return err
}

func (a *App) report(err error) error {
	switch {
	case err == nil:
	case errors.Is(err, services.ErrOffline):
		fmt.Fprintln(a.out, "Offline: the list is read-only until 'sync' succeeds")
	case errors.Is(err, services.ErrNoSuchTask):
		fmt.Fprintln(a.out, "No task with that id")
	default:
		fmt.Fprintln(a.out, "Error:", err)
	}
	return err
}
