package model

// Bounds is a window frame in logical screen units.
type Bounds struct {
	X      int `yaml:"x"      json:"x"`
	Y      int `yaml:"y"      json:"y"`
	Width  int `yaml:"width"  json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Window is one entry of the system window list.
type Window struct {
	PID          int    `yaml:"pid"             json:"pid"`
	OwnerName    string `yaml:"ownerName"       json:"ownerName"`
	WindowNumber int    `yaml:"windowNumber"    json:"windowNumber"`
	Title        string `yaml:"title,omitempty" json:"title,omitempty"`
	Layer        int    `yaml:"layer"           json:"layer"`
	Bounds       Bounds `yaml:"bounds"          json:"bounds"`
}

// UnknownApp is reported when the owning application cannot be named.
const UnknownApp = "unknown"

// FocusInfo describes where keyboard focus currently is. When nothing can
// be resolved it is the zero value with AppName set to UnknownApp.
type FocusInfo struct {
	PID      int    `yaml:"pid"      json:"pid"`
	AppName  string `yaml:"appName"  json:"appName"`
	WindowID int    `yaml:"windowId" json:"windowId"`
}

// NoFocus returns the FocusInfo used when focus cannot be resolved.
func NoFocus() FocusInfo {
	return FocusInfo{AppName: UnknownApp}
}
