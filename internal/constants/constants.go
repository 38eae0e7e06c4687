package constants

// Folder Names
const (
	MarkerDirName = ".envm"
)

// File Names
const (
	ConfigFileName     = "config"
	HeadFileName       = "HEAD"
	BackupFileName     = ".env.backup"
	GitignoreFileName  = ".gitignore"
	UserConfigFileName = "config.toml"
)

// Config defaults
const (
	DefaultLocal    = ".env"
	DefaultPattern  = ".env.{}"
	DefaultTemplate = ".env.example"
)

// Placeholder is the token in a naming pattern that is replaced by the environment name.
const Placeholder = "{}"

// LocalToken is the reserved head token for the local environment.
const LocalToken = "local"

// GitignoreSection is the header written above the patterns added by the gitignore command.
const GitignoreSection = "envm"

// LogFileEnvVar names the environment variable holding a file to append the log to.
const LogFileEnvVar = "ENVM_LOG_FILE"
