package cmd

import (
	"envm/internal/constants"
	"envm/internal/version"
	"fmt"
	"strings"
)

// GetUsage returns usage information as a string.
// If target is empty, returns global usage.
// If target is specified, returns usage for that specific flag/command.
func GetUsage(target string) string {
	var sb strings.Builder
	printStr := func(s string) {
		sb.WriteString(s + "\n")
	}

	appName := version.ApplicationName
	appCmd := version.CommandName

	if alias, ok := commandAliases[target]; ok {
		target = alias
	}

	if target == "" {
		printStr(fmt.Sprintf("Usage: {{_UsageCommand_}}%s{{|-|}} [{{_UsageCommand_}}<Flags>{{|-|}}] {{_UsageCommand_}}<Command>{{|-|}} [{{_UsageOption_}}<Args>{{|-|}}]", appCmd))
		printStr("")
		printStr(fmt.Sprintf("{{_ApplicationName_}}%s{{|-|}} [{{_Version_}}%s{{|-|}}]", appName, version.Version))
		printStr(fmt.Sprintf("Keeps several environment files in a project and swaps the one in use into the local '{{_UsageFile_}}%s{{|-|}}' file.", constants.DefaultLocal))
		printStr(fmt.Sprintf("The environment named '{{_UsageVar_}}%s{{|-|}}' is the local file itself; its contents are kept in a backup", constants.LocalToken))
		printStr("while another environment is in use, and restored when switching back.")
		printStr("")
		printStr("Flags:")
		printStr("")
	}

	showAll := target == ""

	match := func(opts ...string) bool {
		if showAll {
			return true
		}
		for _, o := range opts {
			if o == target {
				return true
			}
		}
		return false
	}

	// Flags
	if match("-v", "--verbose") {
		printStr("{{_UsageCommand_}}-v --verbose{{|-|}}")
		printStr("	Verbose")
	}
	if match("-x", "--debug") {
		printStr("{{_UsageCommand_}}-x --debug{{|-|}}")
		printStr("	Debug")
	}
	if match("-y", "--yes") {
		printStr("{{_UsageCommand_}}-y --yes{{|-|}}")
		printStr("	Assume Yes for all prompts")
	}
	if match("-C", "--directory") {
		printStr("{{_UsageCommand_}}-C --directory{{|-|}} {{_UsageFile_}}<dir>{{|-|}}")
		printStr("	Run as if started in {{_UsageFile_}}<dir>{{|-|}} instead of the current folder")
	}

	if showAll {
		printStr("")
		printStr("Commands:")
		printStr("")
	}

	if match("init") {
		printStr("{{_UsageCommand_}}init{{|-|}}")
		printStr(fmt.Sprintf("	Create the '{{_UsageFile_}}%s{{|-|}}' folder in the current folder, using the defaults from", constants.MarkerDirName))
		printStr(fmt.Sprintf("	'{{_UsageFile_}}$XDG_CONFIG_HOME/%s/%s{{|-|}}' when it exists", appCmd, constants.UserConfigFileName))
	}
	if match("use") {
		printStr("{{_UsageCommand_}}use{{|-|}} {{_UsageVar_}}<env>{{|-|}}")
		printStr("	Copy the environment into the local file and make it the one in use")
	}
	if match("new") {
		printStr("{{_UsageCommand_}}new{{|-|}} {{_UsageVar_}}<env>{{|-|}}")
		printStr("	Create an environment from the template file")
	}
	if match("list") {
		printStr("{{_UsageCommand_}}list{{|-|}}")
		printStr("{{_UsageCommand_}}ls{{|-|}}")
		printStr("	List the stored environments")
	}
	if match("remove") {
		printStr("{{_UsageCommand_}}remove{{|-|}} {{_UsageVar_}}<env>{{|-|}}")
		printStr("{{_UsageCommand_}}rm{{|-|}} {{_UsageVar_}}<env>{{|-|}}")
		printStr("	Delete an environment file. The environment in use cannot be removed")
	}
	if match("current") {
		printStr("{{_UsageCommand_}}current{{|-|}}")
		printStr("	Show the environment in use")
	}
	if match("diff") {
		printStr("{{_UsageCommand_}}diff{{|-|}} [{{_UsageVar_}}<env>{{|-|}}]")
		printStr("	List the template variables missing from the environment and the variables")
		printStr("	the template does not have. Defaults to the environment in use")
	}
	if match("gitignore") {
		printStr("{{_UsageCommand_}}gitignore{{|-|}}")
		printStr(fmt.Sprintf("	Add the '{{_UsageFile_}}%s{{|-|}}' folder and the environment files to '{{_UsageFile_}}%s{{|-|}}'", constants.MarkerDirName, constants.GitignoreFileName))
	}
	if match("help", "-h", "--help") {
		printStr("{{_UsageCommand_}}help{{|-|}} [{{_UsageOption_}}<command>{{|-|}}]")
		printStr("{{_UsageCommand_}}-h --help{{|-|}}")
		printStr("	Show this usage information, or the usage of a single command")
	}
	if match("version", "-V", "--version") {
		printStr("{{_UsageCommand_}}version{{|-|}}")
		printStr("{{_UsageCommand_}}-V --version{{|-|}}")
		printStr(fmt.Sprintf("	Show the version of {{_ApplicationName_}}%s{{|-|}}", appName))
	}

	if sb.Len() == 0 {
		printStr(fmt.Sprintf("Unknown command or option '{{_UsageCommand_}}%s{{|-|}}'", target))
	}

	return sb.String()
}
