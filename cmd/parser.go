package cmd

import (
	"envm/internal/version"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// ParseError wraps argument parsing errors to show the failing argument in context
type ParseError struct {
	Args           []string // The full argument list passed to Parse
	Index          int      // The index where the error occurred
	Message        string   // The specific error message
	FailingCommand string   // The command being processed (e.g. "use")
}

func (e *ParseError) Error() string {
	indent := "   "

	var cmdLineParts []string
	cmdLineParts = append(cmdLineParts, fmt.Sprintf("{{_UserCommand_}}%s{{|-|}}", version.CommandName))
	for i := 0; i <= e.Index && i < len(e.Args); i++ {
		str := e.Args[i]
		if i == e.Index {
			// Highlight failing option
			str = fmt.Sprintf("{{_UserCommandError_}}%s{{|-|}}", str)
		} else {
			str = fmt.Sprintf("{{_UserCommand_}}%s{{|-|}}", str)
		}
		cmdLineParts = append(cmdLineParts, str)
	}
	cmdLineStr := "'" + strings.Join(cmdLineParts, " ") + "'"

	// Indent + ' + command name + space + previous args
	caretOffset := len(indent) + 1 + len(version.CommandName) + 1
	for i := 0; i < e.Index && i < len(e.Args); i++ {
		caretOffset += len(e.Args[i]) + 1
	}
	pointerLine := strings.Repeat(" ", caretOffset) + "{{_UserCommandErrorMarker_}}^{{|-|}}"

	// Message might contain %c (command) or %o (option)
	failingOpt := ""
	if e.Index < len(e.Args) {
		failingOpt = e.Args[e.Index]
	}
	replacer := strings.NewReplacer(
		"%c", fmt.Sprintf("'{{_UserCommand_}}%s{{|-|}}'", e.FailingCommand),
		"%o", fmt.Sprintf("'{{_UserCommand_}}%s{{|-|}}'", failingOpt),
	)
	formattedMsg := replacer.Replace(e.Message)

	out := fmt.Sprintf("Error in command line:\n\n%s%s\n%s\n\n%s%s\n", indent, cmdLineStr, pointerLine, indent, formattedMsg)

	if e.FailingCommand != "" {
		out += fmt.Sprintf("\n%sUsage is:\n", indent)
		for _, line := range strings.Split(strings.TrimRight(GetUsage(e.FailingCommand), "\n"), "\n") {
			out += fmt.Sprintf("%s%s\n", indent, line)
		}
	} else {
		out += fmt.Sprintf("\n%sRun '{{_UserCommand_}}%s --help{{|-|}}' for usage.\n", indent, version.CommandName)
	}

	return out
}

// CommandGroup is a parsed command line: the modifier flags, the command and its arguments
type CommandGroup struct {
	Flags     []string // Modifiers in their long form (e.g. "--verbose")
	Command   string
	Args      []string
	Directory string // Value of -C/--directory, empty when not given
}

// FullSlice returns the reconstructed slice of strings for the group
func (cg CommandGroup) FullSlice() []string {
	var s []string
	s = append(s, cg.Flags...)
	if cg.Directory != "" {
		s = append(s, "--directory", cg.Directory)
	}
	if cg.Command != "" {
		s = append(s, cg.Command)
	}
	s = append(s, cg.Args...)
	return s
}

// Parse parses the raw command line arguments into a command group.
// Flags may appear anywhere; everything after "--" is positional.
// Without a command the group runs "help".
func Parse(args []string) (CommandGroup, error) {
	fs := NewFlagSet()

	// Pre-process args to expand combined short flags (e.g. -vy -> -v -y)
	var expandedArgs []string
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") && !strings.HasPrefix(arg, "--") && len(arg) > 2 && !strings.Contains(arg, "=") {
			for _, c := range arg[1:] {
				expandedArgs = append(expandedArgs, fmt.Sprintf("-%c", c))
			}
		} else {
			expandedArgs = append(expandedArgs, arg)
		}
	}

	var group CommandGroup
	commandIndex := -1
	onlyPositional := false

	for i := 0; i < len(expandedArgs); i++ {
		arg := expandedArgs[i]

		if !onlyPositional && arg == "--" {
			onlyPositional = true
			continue
		}

		if !onlyPositional && strings.HasPrefix(arg, "-") && arg != "-" {
			name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")

			var flag *pflag.Flag
			if strings.HasPrefix(arg, "--") {
				flag = fs.Lookup(name)
			} else if len(name) == 1 {
				flag = fs.ShorthandLookup(name)
			}
			if flag == nil {
				return CommandGroup{}, &ParseError{Args: expandedArgs, Index: i, Message: "Invalid option %o", FailingCommand: group.Command}
			}

			if command, ok := flagCommands[flag.Name]; ok {
				switch {
				case group.Command == "":
					group.Command = command
					commandIndex = i
				case command == "help" && group.Command != "help":
					// "envm use -h" shows the usage of use
					group.Args = []string{group.Command}
					group.Command = command
				case command != group.Command:
					return CommandGroup{}, &ParseError{Args: expandedArgs, Index: i, Message: "Unexpected option %o", FailingCommand: group.Command}
				}
				continue
			}

			if flag.Value.Type() == "bool" {
				if !hasValue {
					value = "true"
				}
			} else if !hasValue {
				if i+1 >= len(expandedArgs) {
					return CommandGroup{}, &ParseError{Args: expandedArgs, Index: i, Message: "Option %o requires an argument."}
				}
				i++
				value = expandedArgs[i]
			}
			if err := fs.Set(flag.Name, value); err != nil {
				return CommandGroup{}, &ParseError{Args: expandedArgs, Index: i, Message: fmt.Sprintf("Invalid value for option %%o: %v", err)}
			}

			if flag.Name == "directory" {
				group.Directory = value
			} else {
				group.Flags = append(group.Flags, "--"+flag.Name)
			}
			continue
		}

		if group.Command == "" {
			name := arg
			if alias, ok := commandAliases[name]; ok {
				name = alias
			}
			if _, ok := commands[name]; !ok {
				return CommandGroup{}, &ParseError{Args: expandedArgs, Index: i, Message: "Invalid command %o"}
			}
			group.Command = name
			commandIndex = i
			continue
		}

		group.Args = append(group.Args, arg)
		if len(group.Args) > commands[group.Command].maxArgs {
			return CommandGroup{}, &ParseError{Args: expandedArgs, Index: i, Message: "Unexpected argument %o", FailingCommand: group.Command}
		}
	}

	if group.Command == "" {
		group.Command = "help"
		return group, nil
	}

	if len(group.Args) < commands[group.Command].minArgs {
		return CommandGroup{}, &ParseError{Args: expandedArgs, Index: commandIndex, Message: "Command %c requires an argument.", FailingCommand: group.Command}
	}

	return group, nil
}
