//go:build !(js && wasm)

package main

import "gioui.org/app"

func registerWebCallbacks(es *EditorState, w *app.Window) {}
