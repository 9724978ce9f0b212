// Package controller is the host side of the bridge. It owns one engine
// handle and turns host lifecycle, gesture and method-channel calls into
// bridge operations, reporting anchor changes back as events.
package controller
