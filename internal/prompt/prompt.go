package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Prompter supplies interactive secrets (verification code, 2FA password) to
// the login flow. Ask blocks until the operator answers; ok is false when the
// prompt was cancelled.
type Prompter interface {
	Ask(label string) (value string, ok bool)
}

// Request is one pending secret request. The serving side must either send a
// value on Reply or close it to signal cancellation.
type Request struct {
	Label string
	Reply chan string
}

// Bridge carries secret requests between the auth flow goroutine and whatever
// owns the user-facing surface. The asking side posts a request and blocks on
// the reply channel; no synchronous callback crosses the goroutine boundary.
type Bridge struct {
	requests chan Request
}

func NewBridge() *Bridge {
	return &Bridge{requests: make(chan Request)}
}

// Requests is consumed by the serving side, typically in its own goroutine.
func (b *Bridge) Requests() <-chan Request {
	return b.requests
}

func (b *Bridge) Ask(label string) (string, bool) {
	req := Request{Label: label, Reply: make(chan string, 1)}
	b.requests <- req
	value, ok := <-req.Reply
	if !ok {
		return "", false
	}
	return value, true
}

// Stdin prompts on the terminal, for headless runs without any UI shell.
type Stdin struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

func NewStdin() *Stdin {
	return &Stdin{in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

func (s *Stdin) Ask(label string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprintf(s.out, "Enter %s: ", label)
	line, err := s.in.ReadString('\n')
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(line), true
}
