// Package stl writes binary STL files. The CLI uses it to save the mesh
// actually sliced, so decimation results can be inspected in a viewer.
package stl

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/layerworks/slicer/mesh"
)

const (
	headerSize = 80
	bufSize    = 10000
)

// record is one triangle on the wire: a unit normal, three vertices, and
// the unused attribute count.
type record struct {
	N, V1, V2, V3 [3]float32
	_             uint16
}

// Client is a streaming binary STL writer. Triangles may be written as
// they are produced; the count field is patched on Close.
type Client struct {
	wg sync.WaitGroup // ensures the file is closed
	ch chan record

	mu  sync.RWMutex
	err error
}

// New creates filename and returns a streaming writer for it.
func New(filename string) (*Client, error) {
	out, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	header := struct {
		_ [headerSize]uint8
		_ uint32 // patched on Close once the count is known
	}{}
	if err := binary.Write(out, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("write stl header: %w", err)
	}

	c := &Client{ch: make(chan record, bufSize)}
	c.start(out)
	return c, nil
}

func (c *Client) start(out writeSeekCloser) {
	c.wg.Add(1)
	go func() {
		err := writeRecords(out, c.ch)
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
		c.wg.Done()
	}()
}

// Write queues one triangle. The returned error is the writer's trailing
// error, so a failure surfaces on a later Write or on Close.
func (c *Client) Write(t mesh.Triangle) error {
	c.ch <- toRecord(t)
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Close finalizes the file and reports any write error.
func (c *Client) Close() error {
	close(c.ch)
	c.wg.Wait()
	return c.err
}

// Save writes m to filename in one call.
func Save(filename string, m *mesh.Mesh) error {
	c, err := New(filename)
	if err != nil {
		return err
	}
	for _, t := range m.Triangles {
		if err := c.Write(t); err != nil {
			c.Close()
			return err
		}
	}
	return c.Close()
}

func toRecord(t mesh.Triangle) record {
	n := t.Normal()
	if l := n.Len(); l > 0 {
		n = n.Mul(1 / l)
	}
	vec := func(p [3]float64) [3]float32 {
		return [3]float32{float32(p[0]), float32(p[1]), float32(p[2])}
	}
	return record{N: vec(n), V1: vec(t.A), V2: vec(t.B), V3: vec(t.C)}
}

type writeSeekCloser interface {
	io.Writer
	io.Seeker
	io.Closer
}

func writeRecords(out writeSeekCloser, ch <-chan record) error {
	var count uint32
	for r := range ch {
		if err := binary.Write(out, binary.LittleEndian, &r); err != nil {
			return fmt.Errorf("write stl triangle %v: %w", count, err)
		}
		count++
	}

	if _, err := out.Seek(headerSize, io.SeekStart); err != nil {
		return fmt.Errorf("seek to stl count: %w", err)
	}
	if err := binary.Write(out, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("write stl count %v: %w", count, err)
	}
	return out.Close()
}
