package console

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestReadLine(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader("take lamp\r\n2\n"), &out)

	line, err := c.ReadLine("> ")
	if err != nil || line != "take lamp" {
		t.Fatalf("ReadLine = %q, %v", line, err)
	}
	line, err = c.ReadLine("")
	if err != nil || line != "2" {
		t.Fatalf("ReadLine = %q, %v", line, err)
	}
	if _, err := c.ReadLine("> "); !errors.Is(err, io.EOF) {
		t.Errorf("Expected EOF, got %v", err)
	}

	c.Println("Taken.")
	if got := out.String(); got != "> > Taken.\n" {
		t.Errorf("output = %q", got)
	}
}
