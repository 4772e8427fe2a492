package util

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Writer buffers assembler output of one function body. Each function body owns its Writer, so Writers
// are never shared between threads.
type Writer struct {
	sb strings.Builder
}

// ---------------------
// ----- Functions -----
// ---------------------

// Write writes a format string to the Writer's buffer.
func (w *Writer) Write(format string, args ...interface{}) {
	w.sb.WriteString(fmt.Sprintf(format, args...))
}

// Ins1 writes a one-line instruction using the operator and single operand.
func (w *Writer) Ins1(op, rs1 string) {
	w.sb.WriteString(fmt.Sprintf("\t%s\t%s\n", op, rs1))
}

// Ins2 writes a one-line instruction using the operator, destination register and single source register.
func (w *Writer) Ins2(op, rd, rs1 string) {
	w.sb.WriteString(fmt.Sprintf("\t%s\t%s, %s\n", op, rd, rs1))
}

// Ins3 writes a one-line instruction using the operator, destination register and two source registers.
func (w *Writer) Ins3(op, rd, rs1, rs2 string) {
	w.sb.WriteString(fmt.Sprintf("\t%s\t%s, %s, %s\n", op, rd, rs1, rs2))
}

// Label writes a one-line label with the given name.
func (w *Writer) Label(name string) {
	w.sb.WriteString(fmt.Sprintf("\n%s:\n", name))
}

// Len returns the number of buffered bytes.
func (w *Writer) Len() int {
	return w.sb.Len()
}

// String returns the buffered output.
func (w *Writer) String() string {
	return w.sb.String()
}

// ReadSource reads the listing from the file named by opt.Src, or from r if no file was given.
func ReadSource(opt Options, r io.Reader) (string, error) {
	if len(opt.Src) > 0 {
		b, err := os.ReadFile(opt.Src)
		if err != nil {
			return "", errors.Wrapf(err, "could not read listing %s", opt.Src)
		}
		return string(b), nil
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Wrap(err, "could not read listing from stdin")
	}
	if len(b) == 0 {
		return "", errors.New("expected input from stdin, got none")
	}
	return string(b), nil
}

// WriteOutput writes s to the file named by opt.Out, or to w if no file was given.
func WriteOutput(opt Options, w io.Writer, s string) error {
	if len(opt.Out) > 0 {
		if err := os.WriteFile(opt.Out, []byte(s), 0644); err != nil {
			return errors.Wrapf(err, "could not write output %s", opt.Out)
		}
		return nil
	}
	_, err := io.WriteString(w, s)
	return err
}
