// Package console is a line-mode terminal for the parser and engine.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Console reads lines from r and writes lines to w.
type Console struct {
	in  *bufio.Scanner
	out io.Writer
}

// New wraps a reader and writer.
func New(r io.Reader, w io.Writer) *Console {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 64*1024)
	return &Console{in: sc, out: w}
}

// Println writes s and a newline.
func (c *Console) Println(s string) {
	fmt.Fprintln(c.out, s)
}

// ReadLine shows prompt and returns the next line without its newline.
// It returns io.EOF when input is exhausted.
func (c *Console) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(c.out, prompt)
	}
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimRight(c.in.Text(), "\r"), nil
}
