package main

import (
	"strings"
	"syscall/js"

	"qcalc/app/lang"
	"qcalc/app/prelude"
)

var (
	evalState  *lang.EvalState
	editorText string
)

func main() {
	base, err := prelude.Default()
	if err != nil {
		js.Global().Get("console").Call("error", "qcalc: "+err.Error())
		base = lang.NewRegistry()
	}
	evalState = lang.NewEvalState(base)

	// evaluate(text) runs every line of the notepad and returns one
	// {text, isErr, isDef} object per line.
	js.Global().Set("evaluate", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) < 1 {
			return nil
		}
		text := args[0].String()
		editorText = text

		lines := strings.Split(text, "\n")
		results := evalState.EvalAllIncremental(lines)

		arr := js.Global().Get("Array").New(len(results))
		for i, r := range results {
			obj := js.Global().Get("Object").New()
			obj.Set("text", r.Text)
			obj.Set("isErr", r.IsErr)
			obj.Set("isDef", r.IsDef)
			arr.SetIndex(i, obj)
		}
		return arr
	}))

	// format(expr) echoes an expression the way the evaluator reads it, or
	// null when it does not parse.
	js.Global().Set("format", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) < 1 {
			return nil
		}
		node, err := lang.ParseExpr(args[0].String())
		if err != nil {
			return nil
		}
		return lang.Format(node)
	}))

	// Register getEditorText for share link
	js.Global().Set("getEditorText", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		return editorText
	}))

	// Register setEditorText for share link restore
	js.Global().Set("setEditorText", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) > 0 {
			editorText = args[0].String()
			// Update textarea via JS callback
			ta := js.Global().Get("document").Call("getElementById", "editor")
			if !ta.IsUndefined() && !ta.IsNull() {
				ta.Set("value", editorText)
				ta.Call("dispatchEvent", js.Global().Get("Event").New("input"))
			}
		}
		return nil
	}))

	// Signal that WASM is ready
	js.Global().Set("_wasmReady", true)
	onReady := js.Global().Get("_onWasmReady")
	if !onReady.IsUndefined() && !onReady.IsNull() {
		onReady.Invoke()
	}

	// Block forever
	select {}
}
