package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// RunExtension attempts to find and execute an external pfa-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
//
// The resolved configuration is passed to the extension through the PFA_* environment
// variables, so that it reads the same ledger and prices.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := "pfa-" + subcommand
	lp, err := exec.LookPath(name)
	if err != nil {
		return false, 0
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return true, 1
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), extensionEnv(cfg)...)

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}

// extensionEnv returns the environment describing cfg.
func extensionEnv(cfg *Config) []string {
	return []string{
		EnvLedger + "=" + cfg.Data.Ledger,
		EnvPrices + "=" + cfg.Data.Prices,
		EnvPolicy + "=" + cfg.Data.Policy,
		EnvBenchmark + "=" + cfg.Data.Benchmark,
		EnvLogLevel + "=" + cfg.Log.Level,
		EnvLogFormat + "=" + cfg.Log.Format,
	}
}
