package util

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func TestWriter(t *testing.T) {
	w := Writer{}
	w.Label("main")
	w.Ins2("mov", "x0", "x1")
	w.Ins3("stp", "x0", "x1", "[sp, #16]")
	w.Ins1("bl", "_puts")
	w.Write("\t%s\n", "ret")
	assert.Equal(t, w.String(), "\nmain:\n\tmov\tx0, x1\n\tstp\tx0, x1, [sp, #16]\n\tbl\t_puts\n\tret\n")
	assert.Equal(t, w.Len(), len(w.String()))
}

func TestReadSource(t *testing.T) {
	s, err := ReadSource(Options{}, strings.NewReader("listing"))
	assert.NilError(t, err)
	assert.Equal(t, s, "listing")

	_, err = ReadSource(Options{}, strings.NewReader(""))
	assert.ErrorContains(t, err, "got none")

	path := filepath.Join(t.TempDir(), "in.toml")
	assert.NilError(t, os.WriteFile(path, []byte("from file"), 0644))
	s, err = ReadSource(Options{Src: path}, nil)
	assert.NilError(t, err)
	assert.Equal(t, s, "from file")

	_, err = ReadSource(Options{Src: filepath.Join(t.TempDir(), "missing.toml")}, nil)
	assert.ErrorContains(t, err, "could not read listing")
}

func TestWriteOutput(t *testing.T) {
	buf := bytes.Buffer{}
	assert.NilError(t, WriteOutput(Options{}, &buf, "\tret\n"))
	assert.Equal(t, buf.String(), "\tret\n")

	path := filepath.Join(t.TempDir(), "out.s")
	assert.NilError(t, WriteOutput(Options{Out: path}, nil, "\tret\n"))
	b, err := os.ReadFile(path)
	assert.NilError(t, err)
	assert.Equal(t, string(b), "\tret\n")
}
