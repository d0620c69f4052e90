package cli

var (
	verbose    bool
	configPath string

	// for run and replay
	layoutName   string
	injectorKind string
	serveAddr    string
	noHistory    bool
	hud          bool

	// for run
	cameraDevice int
	noWindow     bool
	withTray     bool
	recordPath   string

	// for replay
	replayInterval int
	replayWidth    int
	replayHeight   int

	// for history
	historyLimit int
)
