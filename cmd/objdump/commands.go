package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	object "github.com/goliatone/go-object"
	"github.com/goliatone/go-object/internal/hydrate"
	"github.com/goliatone/go-object/voc"
)

var (
	configPath string
	verbose    bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "objdump",
		Short:         "Build and stream transactional object graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log transactions to stderr")

	root.AddCommand(
		&cobra.Command{
			Use:   "demo",
			Short: "Stream a two-object graph that refers back to itself",
			RunE:  runDemo,
		},
		&cobra.Command{
			Use:   "vocab",
			Short: "Print the vocabulary tree",
			RunE:  runVocab,
		},
		&cobra.Command{
			Use:   "load FILE",
			Short: "Load a YAML document keyed by vocabulary names and stream it",
			Args:  cobra.ExactArgs(1),
			RunE:  runLoad,
		},
		&cobra.Command{
			Use:   "history",
			Short: "Commit, undo and redo while streaming each step",
			RunE:  runHistory,
		},
	)
	return root
}

// setup loads the config and returns the arena, transaction and history
// options it describes.
func setup(cmd *cobra.Command) ([]object.Option, []object.HistoryOption, error) {
	var cfg object.Config
	if configPath != "" {
		loaded, err := object.LoadConfigFile(configPath)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}
	if !verbose {
		return cfg.Options(nil), cfg.HistoryOptions(nil), nil
	}
	level, err := cfg.Level()
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return cfg.Options(logger), cfg.HistoryOptions(logger), nil
}

func runDemo(cmd *cobra.Command, _ []string) error {
	opts, _, err := setup(cmd)
	if err != nil {
		return err
	}
	arena := object.NewArena(opts...)
	first, second := arena.Make(), arena.Make()
	defer first.Release()
	defer second.Release()

	txn := object.NewTransaction(opts...)
	d1, err := first.Modify(txn)
	if err != nil {
		return err
	}
	d2, err := second.Modify(txn)
	if err != nil {
		return err
	}
	if err := d1.Set(voc.Child, second); err != nil {
		return err
	}
	after, err := d2.Array(voc.After)
	if err != nil {
		return err
	}
	after.Append(true)
	after.Append(first)
	after.Append(object.Ref{})
	if err := txn.Commit(nil); err != nil {
		return err
	}

	return stream(cmd.OutOrStdout(), first)
}

func runVocab(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	var err error
	voc.Walk(voc.Root(), func(name voc.Name, depth int) {
		if depth == 0 || err != nil {
			return
		}
		_, err = fmt.Fprintf(out, "%s%s\n", strings.Repeat("  ", depth-1), name.Label())
	})
	return err
}

func runLoad(cmd *cobra.Command, args []string) error {
	opts, _, err := setup(cmd)
	if err != nil {
		return err
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	contents, err := hydrate.NewDecoder().DecodeYAML(hydrate.Context{Source: args[0]}, f)
	if err != nil {
		return err
	}

	arena := object.NewArena(opts...)
	obj := arena.Make()
	defer obj.Release()

	txn := object.NewTransaction(opts...)
	d, err := obj.Modify(txn)
	if err != nil {
		return err
	}
	if err := d.MergeDict(contents); err != nil {
		return err
	}
	if err := txn.Commit(nil); err != nil {
		return err
	}
	return stream(cmd.OutOrStdout(), obj)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	opts, historyOpts, err := setup(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	arena := object.NewArena(opts...)
	obj := arena.Make()
	defer obj.Release()

	history := object.NewHistory(historyOpts...)
	for i, label := range []string{"draft", "review", "final"} {
		txn := object.NewTransaction(opts...)
		d, err := obj.Modify(txn)
		if err != nil {
			return err
		}
		if err := d.Set(voc.Label, label); err != nil {
			return err
		}
		if err := d.Set(voc.Kind, i+1); err != nil {
			return err
		}
		if err := txn.Commit(history); err != nil {
			return err
		}
		if err := step(out, "commit", obj); err != nil {
			return err
		}
	}

	for _, s := range []struct {
		name string
		fn   func() error
	}{
		{"undo", history.Undo},
		{"undo", history.Undo},
		{"redo", history.Redo},
	} {
		if err := s.fn(); err != nil {
			return err
		}
		if err := step(out, s.name, obj); err != nil {
			return err
		}
	}
	return nil
}

func step(w io.Writer, name string, obj object.Ref) error {
	if _, err := fmt.Fprintf(w, "# %s\n", name); err != nil {
		return err
	}
	return stream(w, obj)
}

func stream(w io.Writer, v any) error {
	if err := object.NewStreamer(w, voc.Root()).Write(v); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
