package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jroimartin/gocui"

	"toruslife/src/universe"
)

func newTestConsoleUI(t *testing.T) (*ConsoleUI, *int) {
	t.Helper()
	u, err := universe.NewTorusUniverse(&universe.Options{Seed: 5})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(u.Close)
	queued := 0
	c := &ConsoleUI{
		liveFiller: "#",
		deadFiller: ".",
		update:     func(func(*gocui.Gui) error) { queued++ },
	}
	c.Register(u)
	return c, &queued
}

func TestDrawFieldWritesDirectly(t *testing.T) {
	c, queued := newTestConsoleUI(t)
	if err := c.u.SettleTemplate("blinker"); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	c.drawField(&buf, c.u.Snapshot())
	if *queued != 0 {
		t.Fatalf("drawing the field queued %d main loop events", *queued)
	}
	lines := strings.Split(buf.String(), "\n")
	if len(lines) != universe.Size {
		t.Fatalf("field has %d lines, expected %d", len(lines), universe.Size)
	}
	for row, line := range lines {
		if len(line) != universe.Size {
			t.Fatalf("row %d has %d cells", row, len(line))
		}
	}
	if lines[1][:4] != "###." || strings.Count(buf.String(), "#") != 3 {
		t.Fatalf("blinker rendered as\n%s", buf.String())
	}

	buf.Reset()
	c.drawStatus(&buf, c.u.Status())
	if *queued != 0 || !strings.Contains(buf.String(), "Live Cells") {
		t.Fatalf("status drawn as %q with %d queued events", buf.String(), *queued)
	}
}

func TestRefreshQueuesOnMainLoop(t *testing.T) {
	c, queued := newTestConsoleUI(t)
	c.Refresh()
	if *queued != 2 {
		t.Fatalf("Refresh queued %d events, expected field and status", *queued)
	}
}
