package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type blockingSink struct {
	release chan struct{}
	mu      sync.Mutex
	got     []Event
}

func (s *blockingSink) Emit(_ context.Context, e Event) {
	<-s.release
	s.mu.Lock()
	s.got = append(s.got, e)
	s.mu.Unlock()
}

func TestDispatcherDisabledIsNil(t *testing.T) {
	d := NewDispatcher(Config{Enabled: false}, NoOpSink{})
	if d != nil {
		t.Fatal("expected nil dispatcher when disabled")
	}
	d.Emit(context.Background(), Event{Type: "x"})
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("nil dispatcher must report zero drops")
	}
}

func TestDispatcherDeliversAndDrainsOnClose(t *testing.T) {
	sink := NewChannelSink(8)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 8}, sink)
	for i := 0; i < 3; i++ {
		d.Emit(context.Background(), Event{Type: "user_registered"})
	}
	d.Close()

	for i := 0; i < 3; i++ {
		select {
		case e := <-sink.Events():
			if e.Type != "user_registered" {
				t.Fatalf("unexpected event %+v", e)
			}
		case <-time.After(time.Second):
			t.Fatalf("event %d not delivered", i)
		}
	}
}

func TestDispatcherDropIfFull(t *testing.T) {
	sink := &blockingSink{release: make(chan struct{})}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	for i := 0; i < 10; i++ {
		d.Emit(context.Background(), Event{Type: "otp_authenticated"})
	}
	if d.Dropped() == 0 {
		t.Fatal("expected drops when buffer is full")
	}
	close(sink.release)
	d.Close()
}

func TestDispatcherEmitAfterCloseIsIgnored(t *testing.T) {
	sink := NewChannelSink(1)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1}, sink)
	d.Close()
	d.Emit(context.Background(), Event{Type: "late"})

	select {
	case e := <-sink.Events():
		t.Fatalf("unexpected event after close: %+v", e)
	default:
	}
}

func TestJSONWriterSinkWritesLines(t *testing.T) {
	var buf bytes.Buffer
	s := NewJSONWriterSink(&buf)
	s.Emit(context.Background(), Event{ID: "1", Type: "user_registered", Username: "user1", Success: true})
	s.Emit(context.Background(), Event{ID: "2", Type: "authentication_rejected", Error: "invalid otp"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	var e Event
	if err := json.Unmarshal([]byte(lines[0]), &e); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.Username != "user1" || !e.Success {
		t.Fatalf("unexpected decoded event %+v", e)
	}
}

func TestSlogSinkLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	s := NewSlogSink(logger)

	s.Emit(context.Background(), Event{Type: "otp_authenticated", PublicKey: "0xab", Success: true})
	s.Emit(context.Background(), Event{Type: "authentication_rejected", PublicKey: "0xab", Error: "invalid otp"})

	out := buf.String()
	if !strings.Contains(out, `"level":"INFO","msg":"otp_authenticated"`) {
		t.Fatalf("missing info record: %s", out)
	}
	if !strings.Contains(out, `"level":"WARN","msg":"authentication_rejected"`) {
		t.Fatalf("missing warn record: %s", out)
	}
}

func TestDispatcherCountsDelivered(t *testing.T) {
	d := NewDispatcher(Config{Enabled: true, BufferSize: 4, SinkTimeout: time.Second}, NoOpSink{})
	for i := 0; i < 4; i++ {
		d.Emit(context.Background(), Event{Type: "otp_generated"})
	}
	d.Close()
	if got := d.Delivered(); got != 4 {
		t.Fatalf("expected 4 delivered, got %d", got)
	}
}

type countingSink struct {
	n atomic.Uint64
}

func (s *countingSink) Emit(context.Context, Event) { s.n.Add(1) }

func TestDispatcherConcurrentEmitAndCloseLosesNothing(t *testing.T) {
	for _, dropIfFull := range []bool{false, true} {
		sink := &countingSink{}
		d := NewDispatcher(Config{Enabled: true, BufferSize: 4, DropIfFull: dropIfFull}, sink)

		var wg sync.WaitGroup
		start := make(chan struct{})
		for w := 0; w < 8; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				for i := 0; i < 200; i++ {
					d.Emit(context.Background(), Event{Type: "otp_generated"})
				}
			}()
		}
		close(start)
		d.Close()
		wg.Wait()

		if left := len(d.queue); left != 0 {
			t.Fatalf("dropIfFull=%v: %d events left in queue after Close", dropIfFull, left)
		}
		if got, want := sink.n.Load(), d.Delivered(); got != want {
			t.Fatalf("dropIfFull=%v: sink saw %d events, Delivered()=%d", dropIfFull, got, want)
		}
	}
}

func TestDispatcherCloseCountsBlockedEmitAsDropped(t *testing.T) {
	sink := &blockingSink{release: make(chan struct{})}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1}, sink)

	// One event held by the sink, one filling the queue.
	d.Emit(context.Background(), Event{Type: "a"})
	d.Emit(context.Background(), Event{Type: "b"})

	done := make(chan struct{})
	go func() {
		d.Emit(context.Background(), Event{Type: "c"})
		close(done)
	}()
	// Let the third Emit park on the full queue.
	time.Sleep(50 * time.Millisecond)

	closed := make(chan struct{})
	go func() {
		d.Close()
		close(closed)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("blocked Emit was not released by Close")
	}
	close(sink.release)
	<-closed

	if got := d.Dropped(); got != 1 {
		t.Fatalf("expected 1 dropped event, got %d", got)
	}
	if got := d.Delivered(); got != 2 {
		t.Fatalf("expected 2 delivered events, got %d", got)
	}
}
