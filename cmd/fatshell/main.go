package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/admgrn/fatshell"
	"github.com/admgrn/fatshell/internal/logger"
)

var verbose bool

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fatshell <image>",
		Short:         "interactive shell for FAT32 disk images",
		Long:          "fatshell mounts a FAT32 disk image read-write and provides an interactive shell to inspect and mutate it.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging on stderr")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	logger.Init(verbose)

	volume, err := fatshell.Mount(afero.NewOsFs(), args[0])
	if err != nil {
		if errors.Is(err, fatshell.ErrImageFile) {
			fmt.Println("Error: Unrecognized file name")
		} else {
			fmt.Println("Invalid image")
		}
		return err
	}
	defer volume.Close()

	return repl(volume, os.Stdin)
}

// repl reads command lines until "exit" or end of input. Mount failures
// terminate the program; everything after that only prints.
func repl(volume *fatshell.Fs, in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Printf("Enter command or exit : %s > ", volume.Location())

		if !scanner.Scan() {
			break
		}

		line := scanner.Text()
		if line == "exit" {
			break
		}

		name, argv, err := fatshell.Tokenize(line)
		if err != nil {
			fmt.Println("Error: Unclosed Quote")
			continue
		}
		if name == "" {
			continue
		}

		if err := volume.Dispatch(name, argv); err != nil {
			if errors.Is(err, fatshell.ErrUnknownCommand) {
				fmt.Println("Invalid command")
			} else {
				fmt.Println("An error occured")
			}
		}
	}

	return scanner.Err()
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
