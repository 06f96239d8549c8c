// Package gout provides a streaming G-code file writer.
package gout

import (
	"fmt"
	"io"
	"os"
	"sync"
)

const bufSize = 10000

// Client is a streaming G-code file writer client. Writes are queued on a
// channel and drained by a single goroutine, so the pipeline never blocks
// on disk unless the queue fills.
type Client struct {
	wg sync.WaitGroup // ensures file is closed
	ch chan []byte

	mu  sync.RWMutex
	err error
}

// New creates a new streaming G-code file writer.
func New(filename string) (*Client, error) {
	out, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	c := &Client{
		ch: make(chan []byte, bufSize),
	}
	c.start(out)
	return c, nil
}

func (c *Client) start(out io.WriteCloser) {
	c.wg.Add(1)
	go func() {
		err := writer(out, c.ch)
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
		c.wg.Done()
	}()
}

// Write queues one chunk of G-code text. It reports the last error the
// background writer hit, which may trail the write that caused it.
func (c *Client) Write(p []byte) (int, error) {
	buf := make([]byte, len(p))
	copy(buf, p)
	c.ch <- buf
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(p), c.err
}

// Close finalizes the G-code file.
func (c *Client) Close() error {
	close(c.ch)
	c.wg.Wait()
	return c.err
}

func writer(out io.WriteCloser, ch <-chan []byte) error {
	for buf := range ch {
		if _, err := out.Write(buf); err != nil {
			return fmt.Errorf("write gcode chunk: %w", err)
		}
	}
	return out.Close()
}
