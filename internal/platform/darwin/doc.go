// Package darwin provides macOS accessibility, window-list and application
// catalog backends using the ApplicationServices and CoreGraphics
// frameworks. The backends need cgo; on other platforms, or without cgo,
// the package registers nothing.
package darwin
