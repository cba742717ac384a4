// Package main provides the gradcore CLI.
package main

import (
	"flag"
	"fmt"
	"os"

	"k8s.io/klog/v2"

	"github.com/born-ml/gradcore/tensor"
)

const version = "v0.1.0"

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "gradcore %s\n\n", version)
	fmt.Fprintln(out, "Usage: gradcore [flags] <command> [command flags]")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  version    Show version")
	fmt.Fprintln(out, "  train      Train a small MLP on XOR")
	fmt.Fprintln(out, "  inspect    Print the parameters stored in a model file")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Flags:")
	flag.PrintDefaults()
}

func main() {
	klog.InitFlags(nil)
	flag.Usage = usage
	flag.Parse()
	defer klog.Flush()

	// Report tensor errors through the returned error instead of exiting.
	tensor.SetErrorHandler(func(msg string) {
		klog.V(2).InfoS("tensor error", "msg", msg)
	})

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	var err error
	switch args[0] {
	case "version":
		fmt.Printf("gradcore %s\n", version)
		return
	case "train":
		err = runTrain(args[1:])
	case "inspect":
		err = runInspect(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		usage()
		os.Exit(2)
	}
	if err != nil {
		klog.ErrorS(err, "Command failed", "command", args[0])
		klog.FlushAndExit(klog.ExitFlushTimeout, 1)
	}
}
