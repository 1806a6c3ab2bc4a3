// Command fundterm is the portfolio terminal.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/fundterm/cmd"
	"github.com/etnz/fundterm/docs"
	"github.com/etnz/fundterm/terminal"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	name := path.Base(os.Args[0])
	completion(name).Complete(name)

	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	if sub := flag.Arg(0); sub != "" && !registered(commander, sub) {
		if found, code := cmd.RunExtension(sub, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

func registered(commander *subcommands.Commander, name string) bool {
	found := false
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		found = found || c.Name() == name
	})
	return found
}

// completion describes the command line for shell completion.
func completion(name string) *complete.Command {
	args := map[string]complete.Predictor{
		"run":    predict.Set(terminal.Aliases()),
		"series": predict.Set(terminal.PlotSubcommands),
		"topic":  predict.Set(docs.Names()),
	}
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flags(flag.CommandLine),
	}
	for _, c := range cmd.Commands {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		root.Sub[c.Name()] = &complete.Command{Flags: flags(fs), Args: args[c.Name()]}
	}
	root.Flags["config"] = predict.Files("*.toml")
	root.Flags["data"] = predict.Dirs("*")
	return root
}

func flags(fs *flag.FlagSet) map[string]complete.Predictor {
	res := map[string]complete.Predictor{}
	fs.VisitAll(func(f *flag.Flag) { res[f.Name] = predict.Something })
	return res
}
