package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"pomodo/internal/core"
)

func ToCSV(poms []core.Pomodoro, tasks map[int64]*core.Task, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Task", "Started", "Finished", "Duration (s)", "Duration"}); err != nil {
		return err
	}

	for _, p := range poms {
		taskName := "Unknown"
		if t, ok := tasks[p.TaskID]; ok {
			taskName = t.Summary
		}
		secs := int64(p.FinishedAt.Sub(p.StartedAt).Seconds())

		row := []string{
			fmt.Sprintf("%d", p.ID),
			taskName,
			p.StartedAt.Format(time.RFC3339),
			p.FinishedAt.Format(time.RFC3339),
			fmt.Sprintf("%d", secs),
			formatDuration(secs),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
