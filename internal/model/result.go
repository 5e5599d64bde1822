package model

// CommandResult is the outcome of running a child process. ExitStatus and
// Output are nil when the process could not be started; Error then carries
// the spawn failure. For a process that ran, Error holds its stderr.
type CommandResult struct {
	ExitStatus *int    `yaml:"exitStatus,omitempty" json:"exitStatus,omitempty"`
	Output     *string `yaml:"output,omitempty"     json:"output,omitempty"`
	Error      string  `yaml:"error"                json:"error"`
}

// Spawned reports whether the process was started at all.
func (r CommandResult) Spawned() bool {
	return r.ExitStatus != nil
}

// App is an installed application bundle.
type App struct {
	AppName  string `yaml:"appName"        json:"appName"`
	BundleID string `yaml:"bundleId"       json:"bundleId"`
	Path     string `yaml:"path,omitempty" json:"-"`
}

// Screen describes the main display in logical units plus its backing
// scale factor.
type Screen struct {
	Width  int     `yaml:"width"  json:"width"`
	Height int     `yaml:"height" json:"height"`
	Scale  float64 `yaml:"scale"  json:"scale"`
}

// Cursor is the pointer position together with the screen it lives on.
type Cursor struct {
	X      int    `yaml:"x"      json:"x"`
	Y      int    `yaml:"y"      json:"y"`
	Screen Screen `yaml:"screen" json:"screen"`
}
