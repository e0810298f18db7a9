package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"pomodo/internal/core"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Pomodoros  []jsonEntry `json:"pomodoros"`
}

type jsonEntry struct {
	ID          int64  `json:"id"`
	Task        string `json:"task"`
	TaskID      int64  `json:"task_id"`
	StartedAt   string `json:"started_at"`
	FinishedAt  string `json:"finished_at"`
	DurationSec int64  `json:"duration_seconds"`
	Duration    string `json:"duration"`
}

func ToJSON(poms []core.Pomodoro, tasks map[int64]*core.Task, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(poms),
	}

	for _, p := range poms {
		taskName := "Unknown"
		if t, ok := tasks[p.TaskID]; ok {
			taskName = t.Summary
		}
		secs := int64(p.FinishedAt.Sub(p.StartedAt).Seconds())

		export.Pomodoros = append(export.Pomodoros, jsonEntry{
			ID:          p.ID,
			Task:        taskName,
			TaskID:      p.TaskID,
			StartedAt:   p.StartedAt.Format(time.RFC3339),
			FinishedAt:  p.FinishedAt.Format(time.RFC3339),
			DurationSec: secs,
			Duration:    formatDuration(secs),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
