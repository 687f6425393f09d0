package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"github.com/urfave/cli/v2"

	"github.com/hagabaka/rbot-plugins/erroring"
	"github.com/hagabaka/rbot-plugins/shell"
)

func main() {
	var app = &cli.App{
		Name:  "rbotshell",
		Usage: "resolve nested $(...) command interpolations",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name: "debug",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to YAML config file",
			},
		},
		Commands: []*cli.Command{
			{
				Name: "run",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "command",
						Aliases: []string{"c"},
						Usage:   "command string to resolve and run (default: read stdin)",
					},
					&cli.IntFlag{
						Name:  "max-depth",
						Usage: "maximum interpolation nesting (0 = unlimited)",
						Value: -1,
					},
				},
				Action: func(cmdCtx *cli.Context) error {
					var _, sh, err = newShell(cmdCtx)
					if err != nil {
						return err
					}
					if d := cmdCtx.Int("max-depth"); d >= 0 {
						sh.SetMaxDepth(d)
					}

					var input = cmdCtx.String("command")
					if input == "" {
						var byts, readErr = io.ReadAll(os.Stdin)
						if readErr != nil {
							return readErr
						}
						input = strings.TrimSuffix(string(byts), "\n")
					}

					var out, runErr = runOne(sh, input)
					if runErr != nil {
						return runErr
					}
					if out != "" {
						fmt.Println(out)
					}
					return nil
				},
			},
			{
				Name: "repl",
				Action: func(cmdCtx *cli.Context) error {
					var conf, sh, err = newShell(cmdCtx)
					if err != nil {
						return err
					}
					if isatty.IsTerminal(os.Stdin.Fd()) {
						return repl(sh, conf.Prompt)
					}
					return pipedRepl(sh)
				},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func newShell(cmdCtx *cli.Context) (shell.Config, *shell.Shell, error) {
	var conf, err = shell.LoadConfig(cmdCtx.String("config"))
	if err != nil {
		return conf, nil, err
	}
	if cmdCtx.Bool("debug") {
		conf.Debug = true
	}
	var sh = shell.NewFromConfig(execRunner(conf.Shell), conf)
	return conf, sh, nil
}

// runOne keeps a panicking runner from taking the process down without a
// readable trace. Errors pass through untouched.
func runOne(sh *shell.Shell, input string) (string, error) {
	type result struct {
		out string
		err error
	}
	var res, panicErr = erroring.CallAndRecover[error](func() result {
		var out, err = sh.Run(input)
		return result{out: out, err: err}
	})
	if panicErr != nil {
		return "", panicErr
	}
	return res.out, res.err
}

// execRunner dispatches a command through the system shell and collects its
// stdout lines as the replies.
func execRunner(shellPath string) shell.Runner {
	return func(command string) ([]string, error) {
		var cmd = exec.Command(shellPath, "-c", command)
		var out, err = cmd.Output()
		if err != nil {
			return nil, fmt.Errorf("%q failed: %w", command, err)
		}
		var replies []string
		for _, line := range strings.Split(string(out), "\n") {
			if line == "" {
				continue
			}
			replies = append(replies, line)
		}
		return replies, nil
	}
}

func repl(sh *shell.Shell, prompt string) error {
	var line = liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		var input, err = line.Prompt(prompt)
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				return nil
			}
			return err
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)

		var out, runErr = runOne(sh, input)
		if runErr != nil {
			fmt.Fprintf(os.Stderr, "%s\n", runErr)
			continue
		}
		if out != "" {
			fmt.Println(out)
		}
	}
}

func pipedRepl(sh *shell.Shell) error {
	var sc = bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		var input = sc.Text()
		if strings.TrimSpace(input) == "" {
			continue
		}
		var out, runErr = runOne(sh, input)
		if runErr != nil {
			fmt.Fprintf(os.Stderr, "%s\n", runErr)
			continue
		}
		if out != "" {
			fmt.Println(out)
		}
	}
	return sc.Err()
}
