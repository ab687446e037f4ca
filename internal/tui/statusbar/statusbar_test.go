package statusbar

import (
	"strings"
	"testing"
	"time"
)

func TestResultInfo(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := New()
	m.now = func() time.Time { return now }

	if got := m.ResultInfo(); got != "" {
		t.Errorf("ResultInfo() without result = %q", got)
	}

	m.SetResult(1204, now.Add(-3*time.Minute))
	if got := m.ResultInfo(); got != "1,204 rows, fetched 3 minutes ago" {
		t.Errorf("ResultInfo() = %q", got)
	}

	m.SetResult(1, now.Add(-10*time.Second))
	if got := m.ResultInfo(); got != "1 row, fetched 10 seconds ago" {
		t.Errorf("ResultInfo() = %q", got)
	}
}

func TestViewPrefersMessage(t *testing.T) {
	m := New()
	m.SetWidth(100)
	m.SetConnected(true, "retail")
	m.SetHints("?: Help")

	if v := m.View(); !strings.Contains(v, "retail") || !strings.Contains(v, "?: Help") {
		t.Errorf("View() = %q", v)
	}

	m.SetMessage("Copied row as JSON")
	if v := m.View(); strings.Contains(v, "?: Help") || !strings.Contains(v, "Copied row as JSON") {
		t.Errorf("View() = %q", v)
	}
}
