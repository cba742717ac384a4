package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/born-ml/gradcore/serialization"
	"github.com/born-ml/gradcore/tensor"
)

func runInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("inspect: expected one model file, got %d arguments", fs.NArg())
	}
	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()
	return inspect(os.Stdout, bufio.NewReader(f))
}

// inspect prints the type name and every parameter record in r.
func inspect(w io.Writer, r io.Reader) error {
	name, records, err := serialization.ReadRecords(r)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: %d parameters\n", name, len(records))
	for i, rec := range records {
		t, err := tensor.FromSlice(rec.Data, rec.Shape)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		fmt.Fprintf(w, "\nparam %d\n", i)
		err = tensor.Fprint(w, t)
		t.Free()
		if err != nil {
			return err
		}
	}
	return nil
}
