// linemon - terminal monitor for a running linebot
//
// Connects to the dashboard telemetry feed and prints one line per cycle.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/teslashibe/go-linefollower/pkg/follower"
)

func main() {
	url := flag.String("url", "ws://localhost:8080/ws/telemetry", "Telemetry websocket URL")
	every := flag.Int("every", 1, "Print every Nth cycle")
	flag.Parse()

	if *every < 1 {
		*every = 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fmt.Printf("📡 Monitoring %s (Ctrl+C to stop)\n", *url)

	backoff := time.Second
	for {
		connected, err := monitor(ctx, *url, *every, os.Stdout)
		if ctx.Err() != nil {
			fmt.Println("\n👋 Goodbye!")
			return
		}
		backoff = nextBackoff(backoff, connected)
		fmt.Printf("⚠️  %v, reconnecting in %v\n", err, backoff)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
	}
}

const maxBackoff = 16 * time.Second

// nextBackoff doubles the wait after a failed dial, up to maxBackoff. A
// connection that was up starts over at one second.
func nextBackoff(cur time.Duration, connected bool) time.Duration {
	if connected {
		return time.Second
	}
	if next := cur * 2; next <= maxBackoff {
		return next
	}
	return maxBackoff
}

// monitor prints cycles to out until the connection drops or ctx is
// cancelled. connected reports whether the dial succeeded.
func monitor(ctx context.Context, url string, every int, out io.Writer) (connected bool, err error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return false, fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	release := closeOnCancel(ctx, conn)
	defer release()

	fmt.Fprintln(out, "✅ Connected")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return true, fmt.Errorf("read: %w", err)
		}

		var c follower.Cycle
		if err := json.Unmarshal(data, &c); err != nil {
			fmt.Fprintf(os.Stderr, "bad message: %v\n", err)
			continue
		}
		if c.Seq%uint64(every) != 0 {
			continue
		}
		fmt.Fprintln(out, format(c))
	}
}

// closeOnCancel sends a close frame and closes conn once ctx is cancelled.
// release stops watching and waits for the watcher to exit.
func closeOnCancel(ctx context.Context, conn *websocket.Conn) (release func()) {
	done := make(chan struct{})
	exited := make(chan struct{})

	go func() {
		defer close(exited)
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			conn.Close()
		case <-done:
		}
	}()

	return func() {
		close(done)
		<-exited
	}
}

func format(c follower.Cycle) string {
	if !c.HasTarget {
		return fmt.Sprintf("#%-6d No line (%d waypoints)", c.Seq, len(c.Waypoints))
	}
	return fmt.Sprintf("#%-6d Target X: %3d | Curve: %.5f | PWM -> L: %4d  R: %4d",
		c.Seq, c.Target.X, c.Curvature, c.Command.Left, c.Command.Right)
}
