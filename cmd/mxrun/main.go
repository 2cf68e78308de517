package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/mxbridge"
	"github.com/wippyai/mxbridge/engine"
	"github.com/wippyai/mxbridge/engine/matlab"
	"github.com/wippyai/mxbridge/host"
	"github.com/wippyai/mxbridge/mx"
	"github.com/wippyai/mxbridge/transcoder"
)

func main() {
	os.Exit(realMain())
}

// realMain returns the process exit code so deferred cleanup runs first.
func realMain() int {
	var (
		engineName  = flag.String("engine", "reference", "Engine to drive: reference or matlab")
		matlabRoot  = flag.String("matlab-root", os.Getenv("MATLAB_ROOT"), "Installation directory for -engine matlab")
		command     = flag.String("e", "", "Command to evaluate")
		show        = flag.String("show", "", "Variables to decode and print after -e (comma-separated)")
		doc         = flag.String("doc", "", "Print the documentation of a function and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Log bridge and engine activity to stderr")
	)
	flag.Parse()

	if *command == "" && *doc == "" && !*interactive {
		fmt.Fprintln(os.Stderr, "Usage: mxrun [-engine reference|matlab] -e <command> [-show x,y]")
		fmt.Fprintln(os.Stderr, "       mxrun -doc <function>")
		fmt.Fprintln(os.Stderr, "       mxrun -i  (interactive mode)")
		return 1
	}

	if *verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer log.Sync()
		mxbridge.SetLogger(log.Named("bridge"))
		engine.SetLogger(log.Named("engine"))
		matlab.SetLogger(log.Named("matlab"))
		transcoder.SetLogger(log.Named("transcoder"))
	}

	if *interactive && !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
		return 1
	}

	ctx := context.Background()
	eng, err := openEngine(ctx, *engineName, *matlabRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer eng.Close(ctx)

	b := mxbridge.New(eng)
	defer b.Close()

	if *interactive {
		err = runInteractive(ctx, b, eng, *engineName)
	} else {
		err = run(ctx, b, eng, *command, *show, *doc)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func openEngine(ctx context.Context, name, root string) (mx.Engine, error) {
	switch name {
	case "reference":
		return engine.New(ctx)
	case "matlab":
		if root == "" {
			return nil, fmt.Errorf("-engine matlab needs -matlab-root or MATLAB_ROOT")
		}
		return matlab.Open(ctx, &matlab.Config{Root: root})
	}
	return nil, fmt.Errorf("unknown engine %q", name)
}

// outputter is implemented by engines that capture command output.
type outputter interface {
	Output() string
}

// namer is implemented by engines that can list their workspace.
type namer interface {
	Names() []string
}

func run(ctx context.Context, b *mxbridge.Bridge, eng mx.Engine, command, show, doc string) error {
	if doc != "" {
		text, err := b.Help(ctx, doc)
		if err != nil {
			return fmt.Errorf("help %s: %w", doc, err)
		}
		fmt.Println(text)
		if command == "" {
			return nil
		}
	}

	if err := b.Eval(ctx, command); err != nil {
		return err
	}
	if o, ok := eng.(outputter); ok {
		if out := strings.TrimSpace(o.Output()); out != "" {
			fmt.Println(out)
		}
	}

	for _, name := range splitNames(show) {
		v, err := b.Decode(ctx, name)
		if err != nil {
			return fmt.Errorf("show %s: %w", name, err)
		}
		fmt.Printf("%s =\n%s\n", name, indent(host.Format(v)))
	}

	st := b.Stats()
	mxbridge.Logger().Debug("handles", zap.Int64("acquired", st.Acquired), zap.Int64("released", st.Released))
	return nil
}

func splitNames(list string) []string {
	var names []string
	for _, n := range strings.Split(list, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "    " + l
	}
	return strings.Join(lines, "\n")
}
