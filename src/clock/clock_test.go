package clock

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"
)

type traceLine struct {
	Run     string `json:"run"`
	Seq     uint64 `json:"seq"`
	Tick    int64  `json:"tick"`
	Message string `json:"message"`
}

func TestTickAdvancesNow(t *testing.T) {
	c := New(&bytes.Buffer{}, false, "run")
	if c.Now() != 0 {
		t.Fatalf("new clock at %d, want 0", c.Now())
	}
	for range 3 {
		c.Tick()
	}
	if c.Now() != 3 {
		t.Errorf("Now() = %d after 3 ticks, want 3", c.Now())
	}
}

func TestConsoleLineFormat(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, false, "run")
	c.Log("hello")
	c.Tick()
	c.Logf("Elevator %d is heading to Floor %d to pick up passengers.", 2, 4)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"[1] Time 0: hello",
		"[2] Time 1: Elevator 2 is heading to Floor 4 to pick up passengers.",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines %q, want %d", len(lines), lines, len(want))
	}
	for i := range want {
		if strings.TrimSpace(lines[i]) != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestJSONLine(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, true, "abcdefgh")
	c.Tick()
	c.Tick()
	c.Log("loaded")

	var line traceLine
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("journal line is not JSON: %v (%q)", err, buf.String())
	}
	want := traceLine{Run: "abcdefgh", Seq: 1, Tick: 2, Message: "loaded"}
	if line != want {
		t.Errorf("got %+v, want %+v", line, want)
	}
}

func TestConcurrentLogIsSequenced(t *testing.T) {
	const writers, perWriter = 8, 50
	var buf bytes.Buffer
	c := New(&buf, true, "run")

	var wg sync.WaitGroup
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWriter {
				c.Log("msg")
			}
		}()
	}
	wg.Wait()

	if c.Lines() != writers*perWriter {
		t.Fatalf("Lines() = %d, want %d", c.Lines(), writers*perWriter)
	}
	scanner := bufio.NewScanner(&buf)
	var next uint64 = 1
	for scanner.Scan() {
		var line traceLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			t.Fatalf("bad line %q: %v", scanner.Text(), err)
		}
		if line.Seq != next {
			t.Fatalf("line %d has seq %d: lines are interleaved or out of order", next, line.Seq)
		}
		next++
	}
	if next-1 != writers*perWriter {
		t.Errorf("read %d lines, want %d", next-1, writers*perWriter)
	}
}
