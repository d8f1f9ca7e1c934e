package gateway

type Config struct {
	Options
	// ChainsPath optionally points at a YAML or JSONC file that replaces the
	// built-in model chains.
	ChainsPath string
}

type Options struct {
	Port        int
	Transport   string
	Variant     string
	LogCalls    bool
	Auth        bool
	Watch       bool
	DryRun      bool
	LogFilePath string
}
