// Package robot posts input events and reads screen metrics through
// robotgo. It registers nothing when built without cgo.
package robot
