// Command pfa reports the daily performance of a portfolio against its benchmarks.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/etnz/returns/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, "pfa")
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	completion(commander).Complete("pfa")

	flag.Parse()
	if name := flag.Arg(0); name != "" && !registered(commander, name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

// registered reports whether name is a subcommand of c.
func registered(c *subcommands.Commander, name string) (found bool) {
	c.VisitCommands(func(_ *subcommands.CommandGroup, sub subcommands.Command) {
		if sub.Name() == name {
			found = true
		}
	})
	return found
}

// completion builds the shell completion tree of the registered subcommands and their
// flags.
func completion(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flagPredictors(flag.CommandLine),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, sub subcommands.Command) {
		fs := flag.NewFlagSet(sub.Name(), flag.ContinueOnError)
		sub.SetFlags(fs)
		root.Sub[sub.Name()] = &complete.Command{Flags: flagPredictors(fs)}
	})
	return root
}

// flagPredictors predicts file names for the flags naming files, and periods for -period.
func flagPredictors(fs *flag.FlagSet) map[string]complete.Predictor {
	flags := map[string]complete.Predictor{}
	fs.VisitAll(func(f *flag.Flag) {
		switch f.Name {
		case "config":
			flags[f.Name] = predict.Files("*.toml")
		case "ledger", "prices":
			flags[f.Name] = predict.Files("*.json*")
		case "policy":
			flags[f.Name] = predict.Files("*.json")
		case "o":
			flags[f.Name] = predict.Files("*.png")
		case "period":
			flags[f.Name] = predict.Set{"week", "month", "quarter", "year"}
		default:
			flags[f.Name] = predict.Nothing
		}
	})
	return flags
}
