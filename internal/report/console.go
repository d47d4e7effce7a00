package report

import (
	"fmt"
	"io"
	"sync"
)

// Console writes the progress lines of a check run.
//
// Lines for one document may come from several goroutines at once, so
// every line is written under a lock and never interleaves with another.
// The first write error is kept and later writes are dropped.
type Console struct {
	mu  sync.Mutex
	out io.Writer
	err error
}

// NewConsole creates a Console writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Checking announces that a document is about to be processed.
func (c *Console) Checking(path string) {
	c.printf("checking %s ..\n", path)
}

// DeadLink reports one dead link with the URL exactly as written.
func (c *Console) DeadLink(url string) {
	c.printf("--- Dead link : %s\n", url)
}

// Unreadable reports a document whose content could not be read.
func (c *Console) Unreadable(path string, err error) {
	c.printf("Can't read file %s (because %v)\n", path, err)
}

// Err returns the first write error, if any.
func (c *Console) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return
	}
	if _, err := fmt.Fprintf(c.out, format, args...); err != nil {
		c.err = err
	}
}
