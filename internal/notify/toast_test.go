package notify

import (
	"bytes"
	"testing"
	"time"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestToaster_QueueAndDrain(t *testing.T) {
	c := &clock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	tt := NewToaster(ToasterOptions{Now: c.now})

	tt.Notify("a")
	tt.Notify("b")

	got := tt.Drain()
	if len(got) != 2 || got[0].Message != "a" || got[1].Message != "b" {
		t.Fatalf("drain = %+v", got)
	}
	if got[0].Duration != DefaultDuration || got[0].Position != DefaultPosition {
		t.Fatalf("defaults not applied: %+v", got[0])
	}
	if got[0].ID == got[1].ID {
		t.Fatalf("toast IDs must be unique")
	}
	if len(tt.Drain()) != 0 {
		t.Fatalf("queue not emptied")
	}
}

func TestToaster_Expiry(t *testing.T) {
	c := &clock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	tt := NewToaster(ToasterOptions{Now: c.now, Duration: time.Second})

	tt.Notify("old")
	c.t = c.t.Add(2 * time.Second)
	tt.Notify("new")

	got := tt.Pending()
	if len(got) != 1 || got[0].Message != "new" {
		t.Fatalf("pending = %+v", got)
	}
}

func TestToaster_DismissAndOverflow(t *testing.T) {
	tt := NewToaster(ToasterOptions{Pending: 2})
	tt.Notify("1")
	tt.Notify("2")
	tt.Notify("3")

	p := tt.Pending()
	if len(p) != 2 || p[0].Message != "2" {
		t.Fatalf("overflow kept %+v", p)
	}
	if !tt.Dismiss(p[0].ID) {
		t.Fatalf("dismiss failed")
	}
	if tt.Dismiss("nope") {
		t.Fatalf("dismissed unknown id")
	}
	if p = tt.Pending(); len(p) != 1 || p[0].Message != "3" {
		t.Fatalf("after dismiss %+v", p)
	}
}

func TestMultiAndWriter(t *testing.T) {
	var buf bytes.Buffer
	rec := &Recorder{}
	Multi{NewWriter(&buf), rec, nil}.Notify("hello")

	if buf.String() != "! hello\n" {
		t.Fatalf("writer = %q", buf.String())
	}
	if m := rec.Messages(); len(m) != 1 || m[0] != "hello" {
		t.Fatalf("recorder = %v", m)
	}
}
