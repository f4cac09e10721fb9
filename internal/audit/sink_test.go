package audit

import (
	"testing"

	"go.uber.org/zap"
)

func TestSinkDeliversAndCloses(t *testing.T) {
	sink := NewSink(8, zap.NewNop())

	for i := 0; i < 5; i++ {
		sink.Notify(Event{Domain: "exam", Action: "save", Actor: "admin"})
	}

	// Close drains buffered events and must not hang.
	sink.Close()
}

func TestSinkNotifyNeverBlocks(t *testing.T) {
	// A sink whose consumer cannot keep up must drop rather than block the
	// caller. The nop logger swallows the drop warnings.
	sink := NewSink(1, zap.NewNop())
	defer sink.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10000; i++ {
			sink.Notify(Event{Domain: "fee", Action: "unlock"})
		}
		close(done)
	}()
	<-done
}

func TestSinkCloseIsIdempotent(t *testing.T) {
	sink := NewSink(1, zap.NewNop())
	sink.Close()
	sink.Close()
}
