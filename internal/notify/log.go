package notify

import (
	"context"
	"log"
)

// LogSender writes the code to the process log instead of sending it
// anywhere.  It is the terminal fallback in dev environments so that a
// missing broker never blocks registration while testing locally.
type LogSender struct{}

func (LogSender) Name() string { return "log" }

func (LogSender) Send(_ context.Context, destination string, purpose Purpose, code string) error {
	log.Printf("notify: [dev] purpose=%s to=%s code=%s", purpose, destination, code)
	return nil
}
