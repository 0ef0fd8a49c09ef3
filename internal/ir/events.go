// File path: internal/ir/events.go
package ir

// FallbackMarker is the sentinel embedded in every fallback block, in the
// class artifact as /* ... */ and in the template artifact as <!-- ... -->.
// Downstream tooling greps for it, so the text never changes.
const FallbackMarker = "AUTOMATION FALLBACK: Manual Conversion Needed"

// DOMEvents maps React synthetic-event attribute names to the DOM event
// names Angular binds with. Attributes outside this table fall back with
// ReasonUnknownEvent.
var DOMEvents = map[string]string{
	"onClick":       "click",
	"onChange":      "change",
	"onSubmit":      "submit",
	"onInput":       "input",
	"onBlur":        "blur",
	"onFocus":       "focus",
	"onKeyDown":     "keydown",
	"onKeyUp":       "keyup",
	"onKeyPress":    "keypress",
	"onMouseOver":   "mouseover",
	"onMouseOut":    "mouseout",
	"onMouseEnter":  "mouseenter",
	"onMouseLeave":  "mouseleave",
	"onDoubleClick": "dblclick",
	"onScroll":      "scroll",
}

// DOMEvent resolves an onX attribute to its DOM event name.
func DOMEvent(attr string) (string, bool) {
	event, ok := DOMEvents[attr]
	return event, ok
}
