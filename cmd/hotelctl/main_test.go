package main

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"hotelline/internal/domain"
)

func captureStdout(t *testing.T, fn func() error) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	stdout := os.Stdout
	os.Stdout = w
	runErr := fn()
	os.Stdout = stdout
	w.Close()
	out, _ := io.ReadAll(r)
	if runErr != nil {
		t.Fatalf("run: %v", runErr)
	}
	return string(out)
}

func TestPrintTaskHonorsJSONFlag(t *testing.T) {
	task := domain.HousekeepingTask{
		ID: "HK-1A2B3C", RoomNumber: "101", Type: domain.TaskCheckoutCleaning, AssignedTo: "Lucía",
		Priority: domain.PriorityHigh, EstimatedTime: 45, Status: domain.TaskPending,
	}
	t.Cleanup(func() { viper.Set("json", false) })

	viper.Set("json", false)
	table := captureStdout(t, func() error { return printTask(task) })
	if strings.Contains(table, "{") || !strings.Contains(table, "HK-1A2B3C") || !strings.Contains(table, "Lucía") {
		t.Fatalf("expected a table, got:\n%s", table)
	}

	viper.Set("json", true)
	raw := captureStdout(t, func() error { return printTask(task) })
	var decoded domain.HousekeepingTask
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		t.Fatalf("expected json output: %v\n%s", err, raw)
	}
	if decoded.ID != task.ID || decoded.EstimatedTime != 45 {
		t.Fatalf("unexpected decoded task %+v", decoded)
	}
}
